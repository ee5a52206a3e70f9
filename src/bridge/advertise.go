// Package bridge relays nRFNet physical frames between a locally attached
// radio and the outside world: mDNS/DNS-SD advertisement of a gateway on
// the LAN, and framed copying between a radio transport and a remote byte
// pipe.
package bridge

import (
	"context"

	"github.com/brutella/dnssd"
)

// ServiceType is the DNS-SD service type a gateway advertises itself under.
const ServiceType = "_nrfnet._tcp"

// Advertise announces a gateway named name, reachable on port, over
// mDNS/DNS-SD so LAN peers can discover it without a fixed address. The
// responder runs until ctx is canceled.
func Advertise(ctx context.Context, name string, port int) error {
	cfg := dnssd.Config{
		Name: name,
		Type: ServiceType,
		Port: port,
	}
	svc, err := dnssd.NewService(cfg)
	if err != nil {
		return err
	}

	responder, err := dnssd.NewResponder()
	if err != nil {
		return err
	}
	if _, err := responder.Add(svc); err != nil {
		return err
	}

	go func() { _ = responder.Respond(ctx) }()
	return nil
}

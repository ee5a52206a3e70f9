// Command nrfnet-simulate runs two in-process nRFNet nodes connected by a
// pty loopback, sending datagrams across a real fragment/reassembly path
// without any radio hardware attached.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	nrfnet "github.com/doismellburning/nrfnet/src"
)

func main() {
	var (
		from = pflag.String("from", "01", "sending node address")
		to   = pflag.String("to", "02", "receiving node address")
		size = pflag.Int("size", 100, "payload size in bytes, 1..255")
	)
	pflag.Parse()

	logger := log.New(os.Stderr)

	fromAddr, err := nrfnet.ParseAddr(*from)
	if err != nil {
		logger.Fatal("parsing -from", "err", err)
	}
	toAddr, err := nrfnet.ParseAddr(*to)
	if err != nil {
		logger.Fatal("parsing -to", "err", err)
	}
	if *size <= 0 || *size > 0xFF {
		logger.Fatal("size must be 1..255", "size", *size)
	}

	pair, err := nrfnet.NewPtyPair()
	if err != nil {
		logger.Fatal("opening pty pair", "err", err)
	}
	defer pair.Close()

	clock := nrfnet.NewSystemClock()
	sender := nrfnet.NewNode(fromAddr, nrfnet.DefaultConfig(), clock, nrfnet.NewFileRadio(pair.Master), logger.With("node", fromAddr.String()))
	receiverRadio := nrfnet.NewFileRadio(pair.Slave)
	receiver := nrfnet.NewNode(toAddr, nrfnet.DefaultConfig(), clock, receiverRadio, logger.With("node", toAddr.String()))

	payload := make([]byte, *size)
	for i := range payload {
		payload[i] = byte(i)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			frame, err := receiverRadio.Recv()
			if err != nil {
				logger.Error("receive failed", "err", err)
				return
			}
			datagram, hdr, ok := receiver.HandleFrame(frame)
			if !ok {
				continue
			}
			logger.Info("datagram received", "from", hdr.From, "length", len(datagram))
			fmt.Printf("%x\n", datagram)
			return
		}
	}()

	if err := sender.SendDatagram(toAddr, 0, 1, payload); err != nil {
		logger.Fatal("sending datagram", "err", err)
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		logger.Fatal("timed out waiting for datagram")
	}
}

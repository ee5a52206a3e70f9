//go:build linux

package main

import (
	"fmt"

	"github.com/jochenvg/go-udev"
)

// discoverSerialDevices lists tty device nodes currently attached to the
// system, so an operator can find a USB-serial gateway dongle's /dev/ttyACM*
// or /dev/ttyUSB* path without guessing.
func discoverSerialDevices() ([]string, error) {
	u := udev.Udev{}
	e := u.NewEnumerate()
	if err := e.AddMatchSubsystem("tty"); err != nil {
		return nil, fmt.Errorf("nrfnet-gateway: matching tty subsystem: %w", err)
	}

	devices, err := e.Devices()
	if err != nil {
		return nil, fmt.Errorf("nrfnet-gateway: enumerating udev devices: %w", err)
	}

	var nodes []string
	for _, d := range devices {
		if node := d.Devnode(); node != "" {
			nodes = append(nodes, node)
		}
	}
	return nodes, nil
}

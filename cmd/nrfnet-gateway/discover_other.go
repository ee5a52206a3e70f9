//go:build !linux

package main

import "errors"

// discoverSerialDevices is only available on Linux, where go-udev can talk
// to the running udev daemon.
func discoverSerialDevices() ([]string, error) {
	return nil, errors.New("nrfnet-gateway: device discovery requires linux")
}

//go:build !linux

package main

import (
	"errors"

	nrfnet "github.com/doismellburning/nrfnet/src"
)

// openGPIORadio is only available on Linux, where go-gpiocdev and spidev
// are both reachable.
func openGPIORadio(cfg nrfnet.FileConfig) (radioDevice, func() error, error) {
	return nil, nil, errors.New("nrfnet-gateway: gpio radio backend requires linux")
}

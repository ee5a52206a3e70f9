//go:build linux

package main

import (
	nrfnet "github.com/doismellburning/nrfnet/src"
)

// openGPIORadio builds a GPIORadio driving CE/IRQ over go-gpiocdev and the
// SPI payload path over a Linux spidev device named by cfg.
func openGPIORadio(cfg nrfnet.FileConfig) (radioDevice, func() error, error) {
	spiDev, err := nrfnet.OpenSPIDev(cfg.SPIDevice, cfg.SPIMaxSpeedHz)
	if err != nil {
		return nil, nil, err
	}

	radio, err := nrfnet.NewGPIORadio(cfg.GPIOChip, cfg.GPIOCELine, cfg.GPIOIRQLine, spiDev)
	if err != nil {
		_ = spiDev.Close()
		return nil, nil, err
	}

	return radio, func() error {
		closeErr := radio.Close()
		if spiErr := spiDev.Close(); spiErr != nil && closeErr == nil {
			closeErr = spiErr
		}
		return closeErr
	}, nil
}

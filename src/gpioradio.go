//go:build linux

package nrfnet

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// SPIBus is the minimal surface GPIORadio needs to exchange 32-byte
// physical frames with an nRF24L01+-style transceiver: a single transfer
// that clocks tx out and returns whatever came back on MISO. SPIDev in
// spidev_linux.go is the spidev-backed implementation; GPIORadio itself
// owns only the chip's CE and IRQ GPIO lines.
type SPIBus interface {
	Transfer(tx []byte) (rx []byte, err error)
}

// GPIORadio is a FrameSink/FrameSource backed by a real nRF24L01+ attached
// over SPI, with CE and IRQ driven through the Linux GPIO character device
// ABI rather than the deprecated sysfs GPIO interface.
type GPIORadio struct {
	spi SPIBus
	ce  *gpiocdev.Line
	irq *gpiocdev.Line
}

// NewGPIORadio requests the CE and IRQ lines on chip and wraps spi into a
// FrameSink/FrameSource.
func NewGPIORadio(chip string, ceLine, irqLine int, spi SPIBus) (*GPIORadio, error) {
	ce, err := gpiocdev.RequestLine(chip, ceLine, gpiocdev.AsOutput(0))
	if err != nil {
		return nil, fmt.Errorf("nrfnet: request CE line %d on %s: %w", ceLine, chip, err)
	}

	irq, err := gpiocdev.RequestLine(chip, irqLine, gpiocdev.AsInput)
	if err != nil {
		_ = ce.Close()
		return nil, fmt.Errorf("nrfnet: request IRQ line %d on %s: %w", irqLine, chip, err)
	}

	return &GPIORadio{spi: spi, ce: ce, irq: irq}, nil
}

// Send raises CE, clocks frame out over SPI, and drops CE again.
func (r *GPIORadio) Send(frame []byte) error {
	if len(frame) > PhysicalFrameSize {
		return ErrInvalidFrame
	}
	if err := r.ce.SetValue(1); err != nil {
		return fmt.Errorf("nrfnet: set CE: %w", err)
	}
	defer func() { _ = r.ce.SetValue(0) }()

	_, err := r.spi.Transfer(frame)
	return err
}

// Recv polls the IRQ line (active low) and, if asserted, reads one frame
// off the SPI bus. It returns (nil, nil) when nothing is pending.
func (r *GPIORadio) Recv() ([]byte, error) {
	v, err := r.irq.Value()
	if err != nil {
		return nil, fmt.Errorf("nrfnet: read IRQ: %w", err)
	}
	if v != 0 {
		return nil, nil
	}
	return r.spi.Transfer(make([]byte, PhysicalFrameSize))
}

// Close releases the CE and IRQ lines.
func (r *GPIORadio) Close() error {
	_ = r.ce.Close()
	return r.irq.Close()
}

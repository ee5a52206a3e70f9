//go:build linux

package nrfnet

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Linux spidev ioctl request numbers, computed from the kernel's
// _IOC(dir, type, nr, size) encoding for SPI_IOC_MAGIC ('k' = 0x6b):
// write-mode, 1-byte mode/bits-per-word, 4-byte max-speed, and a single
// full-duplex spi_ioc_transfer message.
const (
	spiIOCWrMode        = 0x40016b01
	spiIOCWrBitsPerWord = 0x40016b03
	spiIOCWrMaxSpeedHz  = 0x40046b04
	spiIOCMessage1      = 0x40206b00
)

// spiIOCTransfer mirrors Linux's struct spi_ioc_transfer for one
// SPI_IOC_MESSAGE(1) full-duplex transaction.
type spiIOCTransfer struct {
	txBuf       uint64
	rxBuf       uint64
	length      uint32
	speedHz     uint32
	delayUsecs  uint16
	bitsPerWord uint8
	csChange    uint8
	txNbits     uint8
	rxNbits     uint8
	pad         uint16
}

// SPIDev is an SPIBus backed by a Linux spidev character device
// (/dev/spidevB.C), driven directly over ioctl the same way the teacher
// talks to hidraw and tty devices in cm108.go and ptt.go, rather than
// through a higher-level SPI library.
type SPIDev struct {
	f *os.File
}

// OpenSPIDev opens devPath and configures SPI mode 0, 8 bits per word, at
// maxSpeedHz.
func OpenSPIDev(devPath string, maxSpeedHz uint32) (*SPIDev, error) {
	f, err := os.OpenFile(devPath, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("nrfnet: open %s: %w", devPath, err)
	}

	var mode uint8
	if err := spiIoctl(f.Fd(), spiIOCWrMode, unsafe.Pointer(&mode)); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("nrfnet: set spi mode on %s: %w", devPath, err)
	}

	bits := uint8(8)
	if err := spiIoctl(f.Fd(), spiIOCWrBitsPerWord, unsafe.Pointer(&bits)); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("nrfnet: set spi bits-per-word on %s: %w", devPath, err)
	}

	speed := maxSpeedHz
	if err := spiIoctl(f.Fd(), spiIOCWrMaxSpeedHz, unsafe.Pointer(&speed)); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("nrfnet: set spi speed on %s: %w", devPath, err)
	}

	return &SPIDev{f: f}, nil
}

func spiIoctl(fd uintptr, req uintptr, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, req, uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}

// Transfer clocks tx out over SPI as one full-duplex message and returns
// whatever came back on MISO, satisfying SPIBus.
func (s *SPIDev) Transfer(tx []byte) ([]byte, error) {
	if len(tx) == 0 {
		return nil, nil
	}

	rx := make([]byte, len(tx))
	xfer := spiIOCTransfer{
		txBuf:       uint64(uintptr(unsafe.Pointer(&tx[0]))),
		rxBuf:       uint64(uintptr(unsafe.Pointer(&rx[0]))),
		length:      uint32(len(tx)),
		bitsPerWord: 8,
	}
	if err := spiIoctl(s.f.Fd(), spiIOCMessage1, unsafe.Pointer(&xfer)); err != nil {
		return nil, fmt.Errorf("nrfnet: spi transfer: %w", err)
	}
	return rx, nil
}

// Close closes the underlying spidev file.
func (s *SPIDev) Close() error {
	return s.f.Close()
}

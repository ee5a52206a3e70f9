package nrfnet

import (
	"io"
	"os"

	"github.com/creack/pty"
)

// PtyPair opens a pseudo-terminal pair that two in-process Nodes can use as
// a loopback radio link, for exercising fragmentation and reassembly
// without real hardware.
type PtyPair struct {
	Master *os.File
	Slave  *os.File
}

// NewPtyPair allocates a pty master/slave pair.
func NewPtyPair() (*PtyPair, error) {
	master, slave, err := pty.Open()
	if err != nil {
		return nil, err
	}
	return &PtyPair{Master: master, Slave: slave}, nil
}

// Close closes both ends of the pair.
func (p *PtyPair) Close() error {
	err := p.Master.Close()
	if slaveErr := p.Slave.Close(); slaveErr != nil && err == nil {
		err = slaveErr
	}
	return err
}

// FileRadio adapts an *os.File (one end of a PtyPair, or any other raw byte
// stream) into a FrameSink/FrameSource, reading and writing fixed
// PhysicalFrameSize chunks.
type FileRadio struct {
	f *os.File
}

// NewFileRadio wraps f as a FrameSink/FrameSource.
func NewFileRadio(f *os.File) *FileRadio {
	return &FileRadio{f: f}
}

func (r *FileRadio) Send(frame []byte) error {
	var buf [PhysicalFrameSize]byte
	copy(buf[:], frame)
	_, err := r.f.Write(buf[:])
	return err
}

func (r *FileRadio) Recv() ([]byte, error) {
	var buf [PhysicalFrameSize]byte
	if _, err := io.ReadFull(r.f, buf[:]); err != nil {
		return nil, err
	}
	out := make([]byte, PhysicalFrameSize)
	copy(out, buf[:])
	return out, nil
}

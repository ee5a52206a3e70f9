package bridge

import (
	"io"

	"github.com/charmbracelet/log"

	nrfnet "github.com/doismellburning/nrfnet/src"
)

// Bridge relays physical frames between a locally attached radio transport
// and an arbitrary byte pipe, such as a TCP connection to a remote client
// that wants to observe or inject frames without its own radio.
type Bridge struct {
	Radio  nrfnet.FrameSource
	Sink   nrfnet.FrameSink
	Remote io.ReadWriter
	Logger *log.Logger
}

// RunRadioToRemote copies frames received from the radio to Remote until
// the radio returns an error.
func (b *Bridge) RunRadioToRemote() error {
	for {
		frame, err := b.Radio.Recv()
		if err != nil {
			return err
		}
		if frame == nil {
			continue
		}
		if _, err := b.Remote.Write(frame); err != nil {
			return err
		}
	}
}

// RunRemoteToRadio reads fixed-size physical frames from Remote and hands
// each to the radio sink, until Remote returns an error.
func (b *Bridge) RunRemoteToRadio() error {
	buf := make([]byte, nrfnet.PhysicalFrameSize)
	for {
		if _, err := io.ReadFull(b.Remote, buf); err != nil {
			return err
		}
		frame := make([]byte, len(buf))
		copy(frame, buf)
		if err := b.Sink.Send(frame); err != nil {
			return err
		}
	}
}

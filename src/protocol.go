package nrfnet

import (
	"errors"

	"github.com/charmbracelet/log"
)

var (
	// ErrInvalidFrame is returned for frames too short, too long, or with
	// an unparseable header.
	ErrInvalidFrame = errors.New("nrfnet: invalid frame")
	// ErrPayloadTooLarge is returned by SendDatagram for an empty payload
	// or one that would not fit in an 8-bit length field.
	ErrPayloadTooLarge = errors.New("nrfnet: payload must be 1..255 bytes")
)

// ForwardFunc is invoked with a frame addressed elsewhere, when a Node is
// configured to forward rather than drop it.
type ForwardFunc func(frame []byte, hdr Header) error

// Config sizes and tunes a Node's reassembly pool.
type Config struct {
	FragHeads    int
	FragHoles    int
	FragExpireMs uint32
}

// DefaultConfig returns the sizing used when a caller does not load one
// from a config file.
func DefaultConfig() Config {
	return Config{FragHeads: 16, FragHoles: 32, FragExpireMs: 10000}
}

// Node is one addressable point in the mesh: it validates and reassembles
// inbound frames, and fragments outbound datagrams for a FrameSink. A Node
// is not safe for concurrent use; callers serialize access the way they
// serialize access to a single socket.
type Node struct {
	Info AddrInfo

	rbuf     *RBuf
	clock    Clock
	sink     FrameSink
	forward  ForwardFunc
	expireMs uint32
	Stats    *Telemetry
	log      *log.Logger
}

// NewNode builds a Node for addr, backed by clock for timing and sink for
// outbound frames.
func NewNode(addr Addr, cfg Config, clock Clock, sink FrameSink, logger *log.Logger) *Node {
	if logger == nil {
		logger = log.Default()
	}
	return &Node{
		Info:     NewAddrInfo(addr),
		rbuf:     NewRBuf(cfg.FragHeads, cfg.FragHoles),
		clock:    clock,
		sink:     sink,
		expireMs: cfg.FragExpireMs,
		Stats:    NewTelemetry(),
		log:      logger,
	}
}

// SetForward installs the handler used for frames not addressed to this
// node. With no handler installed, such frames are dropped.
func (n *Node) SetForward(fn ForwardFunc) {
	n.forward = fn
}

// HandleFrame processes one inbound physical frame. ok is true only when a
// complete datagram is ready in datagram/hdr; otherwise the frame was
// dropped, forwarded, or is an incomplete fragment still awaiting the rest
// of its datagram.
func (n *Node) HandleFrame(frame []byte) (datagram []byte, hdr Header, ok bool) {
	if len(frame) < HeaderSize || len(frame) > PhysicalFrameSize {
		n.Stats.InvalidFrame.Add(1)
		n.log.Debug("dropping frame with bad length", "len", len(frame))
		return nil, Header{}, false
	}

	var raw [HeaderSize]byte
	copy(raw[:], frame[:HeaderSize])
	hdr = Uncompress(raw)

	if !hdr.Valid() {
		n.Stats.InvalidFrame.Add(1)
		n.log.Debug("dropping frame with invalid header", "from", hdr.From, "to", hdr.To)
		return nil, Header{}, false
	}

	if hdr.To != n.Info.Addr {
		n.Stats.NotForUs.Add(1)
		if n.forward != nil {
			if err := n.forward(frame, hdr); err != nil {
				n.log.Warn("forward failed", "err", err, "to", hdr.To)
			}
		}
		return nil, Header{}, false
	}

	now := n.clock.NowMs()
	n.rbuf.GC(now, n.expireMs)

	payload := frame[HeaderSize:]

	if !hdr.IsFragmented() {
		out := make([]byte, hdr.Length)
		copy(out, payload)
		return out, hdr, true
	}

	head := n.rbuf.Add(hdr, payload, now)
	if head == nil {
		n.Stats.PoolExhausted.Add(1)
		n.log.Debug("dropping fragment, reassembly pool exhausted", "id", hdr.ID)
		return nil, Header{}, false
	}

	if head.RemainingFragments() != 0 {
		return nil, Header{}, false
	}

	out := make([]byte, hdr.Length)
	n.rbuf.CopyOut(head, out)
	n.rbuf.Free(head)
	n.log.Debug("datagram reassembled", "id", hdr.ID, "length", hdr.Length, "from", hdr.From)
	return out, hdr, true
}

// SendDatagram fragments payload into one or more physical frames addressed
// to to, with routing field next, and writes each to the Node's sink in
// order.
func (n *Node) SendDatagram(to Addr, next uint8, id uint16, payload []byte) error {
	if len(payload) == 0 || len(payload) > 0xFF {
		return ErrPayloadTooLarge
	}

	fragments := (len(payload) + DataSize - 1) / DataSize
	for i := 0; i < fragments; i++ {
		start := i * DataSize
		end := start + DataSize
		if end > len(payload) {
			end = len(payload)
		}

		hdr := Header{
			From:   n.Info.Addr,
			To:     to,
			ID:     id,
			Length: uint8(len(payload)),
			Offset: uint8(i),
			Next:   next,
		}
		raw := hdr.Compress()

		frame := make([]byte, HeaderSize+(end-start))
		copy(frame, raw[:])
		copy(frame[HeaderSize:], payload[start:end])

		if err := n.sink.Send(frame); err != nil {
			return err
		}
	}
	return nil
}

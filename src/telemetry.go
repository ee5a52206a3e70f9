package nrfnet

import (
	"sync/atomic"
	"time"

	"github.com/lestrrat-go/strftime"
)

// Telemetry holds the drop/event counters a Node updates as it processes
// frames. All fields are safe for concurrent reads from a stats reporter
// goroutine even though the Node itself is single-owner.
type Telemetry struct {
	InvalidFrame  atomic.Uint64
	PoolExhausted atomic.Uint64
	NotForUs      atomic.Uint64
}

// NewTelemetry returns a zeroed counter set.
func NewTelemetry() *Telemetry {
	return &Telemetry{}
}

// Snapshot copies the current counter values into a map, handy for logging
// or serializing.
func (t *Telemetry) Snapshot() map[string]uint64 {
	return map[string]uint64{
		"invalid_frame":  t.InvalidFrame.Load(),
		"pool_exhausted": t.PoolExhausted.Load(),
		"not_for_us":     t.NotForUs.Load(),
	}
}

// telemetryFilePattern is the strftime pattern TelemetryFileName formats.
// Nothing in this module opens or rotates files under such names.
const telemetryFilePattern = "nrfnet-%Y%m%d-%H%M%S.log"

// TelemetryFileName returns a timestamped log file name for t.
func TelemetryFileName(t time.Time) (string, error) {
	f, err := strftime.New(telemetryFilePattern)
	if err != nil {
		return "", err
	}
	return f.FormatString(t), nil
}

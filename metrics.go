package actor

import "sync/atomic"

// Metrics is a small block of atomic counters kept per cell for
// observability. Nothing in the runtime's correctness depends on
// these values.
type Metrics struct {
	Name             string
	MessagesSent     atomic.Int64
	MessagesReceived atomic.Int64
	DroppedMessages  atomic.Int64
	InvalidMessages  atomic.Int64
	Panics           atomic.Int64
	Restarts         atomic.Int32
	Timeouts         atomic.Int64
}

// NewMetrics allocates a fresh, zeroed metrics block for a cell.
func NewMetrics(name string) *Metrics {
	return &Metrics{Name: name}
}

// Snapshot is a point-in-time copy of a Metrics block, safe to read
// without racing further updates.
type Snapshot struct {
	Name             string
	MessagesSent     int64
	MessagesReceived int64
	DroppedMessages  int64
	InvalidMessages  int64
	Panics           int64
	Restarts         int32
	Timeouts         int64
}

// Snapshot copies the current counter values.
func (m *Metrics) Snapshot() Snapshot {
	return Snapshot{
		Name:             m.Name,
		MessagesSent:     m.MessagesSent.Load(),
		MessagesReceived: m.MessagesReceived.Load(),
		DroppedMessages:  m.DroppedMessages.Load(),
		InvalidMessages:  m.InvalidMessages.Load(),
		Panics:           m.Panics.Load(),
		Restarts:         m.Restarts.Load(),
		Timeouts:         m.Timeouts.Load(),
	}
}

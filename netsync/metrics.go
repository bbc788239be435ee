package netsync

import (
	"sync/atomic"
)

// Metrics counts server activity for the admin endpoint.
type Metrics struct {
	ConnsAccepted int64
	ConnsActive   int64
	ConnsClosed   int64
	MessagesIn    int64
	RepliesOut    int64
	Malformed     int64
	Throttled     int64
	BytesIn       int64
	BytesOut      int64
}

func (m *Metrics) IncAccepted() {
	atomic.AddInt64(&m.ConnsAccepted, 1)
	atomic.AddInt64(&m.ConnsActive, 1)
}

func (m *Metrics) IncClosed() {
	atomic.AddInt64(&m.ConnsClosed, 1)
	atomic.AddInt64(&m.ConnsActive, -1)
}

func (m *Metrics) IncMalformed() { atomic.AddInt64(&m.Malformed, 1) }
func (m *Metrics) IncThrottled() { atomic.AddInt64(&m.Throttled, 1) }

func (m *Metrics) AddMessageIn(size int) {
	atomic.AddInt64(&m.MessagesIn, 1)
	atomic.AddInt64(&m.BytesIn, int64(HeaderSize+size))
}

func (m *Metrics) AddReplyOut(size int) {
	atomic.AddInt64(&m.RepliesOut, 1)
	atomic.AddInt64(&m.BytesOut, int64(HeaderSize+size))
}

// Snapshot returns a read-only copy for JSON output.
func (m *Metrics) Snapshot() map[string]any {
	return map[string]any{
		"conns_accepted": atomic.LoadInt64(&m.ConnsAccepted),
		"conns_active":   atomic.LoadInt64(&m.ConnsActive),
		"conns_closed":   atomic.LoadInt64(&m.ConnsClosed),
		"messages_in":    atomic.LoadInt64(&m.MessagesIn),
		"replies_out":    atomic.LoadInt64(&m.RepliesOut),
		"malformed":      atomic.LoadInt64(&m.Malformed),
		"throttled":      atomic.LoadInt64(&m.Throttled),
		"bytes_in":       atomic.LoadInt64(&m.BytesIn),
		"bytes_out":      atomic.LoadInt64(&m.BytesOut),
	}
}

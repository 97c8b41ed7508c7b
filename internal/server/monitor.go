package server

import (
	"sync"

	"github.com/ayusman/mudra/internal/session"
)

// Status is a read-only snapshot of the recording session, published by
// the tick loop once per tick.
type Status struct {
	State       string           `json:"state"`
	Label       string           `json:"label"`
	SavedCount  int              `json:"saved_count"`
	TargetCount int              `json:"target_count"`
	LastVerdict *session.Verdict `json:"last_verdict,omitempty"`
}

// Monitor mirrors the tick loop's state for the HTTP server. The tick
// loop publishes; handlers only read. Core session state is never
// mutated from here.
type Monitor struct {
	mu     sync.RWMutex
	status Status
	jpeg   []byte
}

// NewMonitor creates an empty Monitor.
func NewMonitor() *Monitor {
	return &Monitor{}
}

// Publish replaces the current snapshot. jpeg is the latest preview frame
// encoded as JPEG; it may be nil when no frame is available yet.
func (m *Monitor) Publish(status Status, jpeg []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status = status
	m.jpeg = jpeg
}

// Status returns the latest session snapshot.
func (m *Monitor) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// Frame returns the latest preview frame as JPEG bytes, or nil.
func (m *Monitor) Frame() []byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.jpeg
}

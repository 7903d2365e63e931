package renderer

import (
	"slices"
	"time"
)

// FrameID identifies a requested frame callback.
type FrameID uint64

// Scheduler is the host's animation-frame source. Callbacks run on the
// draw thread with the host's current time.
type Scheduler interface {
	Now() time.Duration
	RequestFrame(cb func(now time.Duration)) FrameID
	CancelFrame(id FrameID)
}

// ManualScheduler fires frames only when told to. The clock starts at zero.
type ManualScheduler struct {
	now     time.Duration
	next    FrameID
	pending map[FrameID]func(time.Duration)
}

func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{pending: make(map[FrameID]func(time.Duration))}
}

func (m *ManualScheduler) Now() time.Duration { return m.now }

func (m *ManualScheduler) RequestFrame(cb func(now time.Duration)) FrameID {
	m.next++
	m.pending[m.next] = cb
	return m.next
}

func (m *ManualScheduler) CancelFrame(id FrameID) {
	delete(m.pending, id)
}

// Pending is the number of callbacks waiting for the next frame.
func (m *ManualScheduler) Pending() int { return len(m.pending) }

// Advance moves the clock by d and fires every callback requested before
// the call, oldest first. Callbacks requested while firing wait for the
// next Advance. It returns how many callbacks ran.
func (m *ManualScheduler) Advance(d time.Duration) int {
	m.now += d
	ids := make([]FrameID, 0, len(m.pending))
	for id := range m.pending {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	fired := 0
	for _, id := range ids {
		cb, ok := m.pending[id]
		if !ok {
			continue
		}
		delete(m.pending, id)
		cb(m.now)
		fired++
	}
	return fired
}

package eventloop

import (
	"sort"
	"time"
)

// Manual is a virtual-time Deferrer. It is not safe for concurrent use; tests
// drive it from a single goroutine, which stands in for the loop.
type Manual struct {
	now     time.Duration
	seq     int
	pending []*manualTimer
}

type manualTimer struct {
	m        *Manual
	deadline time.Duration
	seq      int
	f        func()
	stopped  bool
}

// NewManual returns a Manual clock at virtual time zero.
func NewManual() *Manual { return &Manual{} }

// AfterFunc implements Deferrer.
func (m *Manual) AfterFunc(d time.Duration, f func()) Timer {
	m.seq++
	t := &manualTimer{m: m, deadline: m.now + d, seq: m.seq, f: f}
	m.pending = append(m.pending, t)
	return t
}

func (t *manualTimer) Stop() bool {
	if t.stopped {
		return false
	}
	t.stopped = true
	t.m.remove(t)
	return true
}

func (m *Manual) remove(t *manualTimer) {
	for i, p := range m.pending {
		if p == t {
			m.pending = append(m.pending[:i], m.pending[i+1:]...)
			return
		}
	}
}

// Now returns the elapsed virtual time.
func (m *Manual) Now() time.Duration { return m.now }

// Pending reports how many actions are scheduled.
func (m *Manual) Pending() int { return len(m.pending) }

// Advance moves virtual time forward by d, running every action that falls
// due in deadline order (ties in scheduling order). Actions scheduled by a
// callback run in the same call if they fall due within the window.
func (m *Manual) Advance(d time.Duration) {
	target := m.now + d
	for {
		next := m.nextDue(target)
		if next == nil {
			break
		}
		m.now = next.deadline
		next.stopped = true
		m.remove(next)
		next.f()
	}
	m.now = target
}

func (m *Manual) nextDue(limit time.Duration) *manualTimer {
	if len(m.pending) == 0 {
		return nil
	}
	sort.SliceStable(m.pending, func(i, j int) bool {
		if m.pending[i].deadline != m.pending[j].deadline {
			return m.pending[i].deadline < m.pending[j].deadline
		}
		return m.pending[i].seq < m.pending[j].seq
	})
	if m.pending[0].deadline > limit {
		return nil
	}
	return m.pending[0]
}

package scan

import (
	"sync"
	"time"
)

// ManualScheduler adalah jam virtual. Waktu hanya maju lewat Advance,
// dan callback dijalankan sinkron di goroutine pemanggil Advance.
type ManualScheduler struct {
	mu     sync.Mutex
	now    time.Time
	seq    int
	timers []*manualTimer
}

func NewManualScheduler(start time.Time) *ManualScheduler {
	return &ManualScheduler{now: start}
}

type manualTimer struct {
	s       *ManualScheduler
	id      int
	at      time.Time
	period  time.Duration
	fn      func()
	stopped bool
}

func (t *manualTimer) Stop() {
	t.s.mu.Lock()
	t.stopped = true
	t.s.mu.Unlock()
}

func (m *ManualScheduler) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *ManualScheduler) Every(d time.Duration, fn func()) Timer {
	return m.add(d, d, fn)
}

func (m *ManualScheduler) After(d time.Duration, fn func()) Timer {
	return m.add(d, 0, fn)
}

func (m *ManualScheduler) add(d, period time.Duration, fn func()) *manualTimer {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	t := &manualTimer{s: m, id: m.seq, at: m.now.Add(d), period: period, fn: fn}
	m.timers = append(m.timers, t)
	return t
}

// Advance memajukan jam sebesar d dan menjalankan semua timer yang jatuh tempo
// sesuai urutan waktu (seri diurutkan berdasarkan urutan pembuatan).
func (m *ManualScheduler) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)
	m.mu.Unlock()

	for {
		m.mu.Lock()
		next := m.nextDueLocked(target)
		if next == nil {
			m.now = target
			m.mu.Unlock()
			return
		}
		m.now = next.at
		if next.period > 0 {
			next.at = next.at.Add(next.period)
		} else {
			next.stopped = true
		}
		fn := next.fn
		m.mu.Unlock()

		fn()
	}
}

func (m *ManualScheduler) nextDueLocked(target time.Time) *manualTimer {
	var next *manualTimer
	live := m.timers[:0]
	for _, t := range m.timers {
		if t.stopped {
			continue
		}
		live = append(live, t)
		if t.at.After(target) {
			continue
		}
		if next == nil || t.at.Before(next.at) || (t.at.Equal(next.at) && t.id < next.id) {
			next = t
		}
	}
	m.timers = live
	return next
}

// Pending menghitung timer yang masih aktif.
func (m *ManualScheduler) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}

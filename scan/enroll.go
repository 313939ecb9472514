package scan

import (
	"fmt"
)

// enrollTick: timeout dicek sebelum deteksi. Deteksi pertama yang berhasil
// menghentikan polling dan memulai delay konfirmasi.
func (c *Controller) enrollTick(s *session) {
	var out []Result
	c.mu.Lock()
	defer func() {
		c.mu.Unlock()
		c.publish(out...)
	}()

	if c.enroll != s || s.state != StateScanning || s.inFlight {
		return
	}
	if c.sched.Now().Sub(s.startedAt) >= c.enrollT.Timeout {
		out = append(out, c.finishLocked(s, OutcomeTimedOut, ErrNoFace))
		return
	}

	s.inFlight = true
	ctx, frames := s.ctx, s.frames
	c.mu.Unlock()
	d, ok, err := c.detector.DetectOne(ctx, frames)
	c.mu.Lock()
	s.inFlight = false

	// Sesi bisa saja dibatalkan selama deteksi berjalan
	if c.enroll != s || s.state != StateScanning {
		return
	}
	switch {
	case err != nil:
		out = append(out, c.finishLocked(s, OutcomeFailed, fmt.Errorf("%w: %w", ErrDetector, err)))
	case ok && len(d) > 0:
		s.state = StateFound
		s.captured = d.Clone()
		s.poll.Stop()
		s.poll = nil
		s.state = StateConfirmDelay
		s.confirm = c.sched.After(c.enrollT.Delay, func() { c.enrollCommit(s) })
	}
}

func (c *Controller) enrollCommit(s *session) {
	var out []Result
	c.mu.Lock()
	defer func() {
		c.mu.Unlock()
		c.publish(out...)
	}()

	if c.enroll != s || s.state != StateConfirmDelay {
		return
	}
	s.confirm = nil
	if err := c.store.Enroll(s.ctx, s.name, s.captured); err != nil {
		out = append(out, c.finishLocked(s, OutcomeFailed, fmt.Errorf("%w: %w", ErrPersist, err)))
		return
	}
	s.committedAt = c.sched.Now()
	out = append(out, c.finishLocked(s, OutcomeSucceeded, nil))
}

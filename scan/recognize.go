package scan

import (
	"fmt"
)

// recognizeTick: hanya wajah pertama yang dievaluasi (check-in satu orang).
// Timeout dicek setelah deteksi, memakai waktu saat tick dimulai.
func (c *Controller) recognizeTick(s *session) {
	var out []Result
	c.mu.Lock()
	defer func() {
		c.mu.Unlock()
		c.publish(out...)
	}()

	if c.recog != s || s.state != StateScanning || s.inFlight {
		return
	}
	elapsed := c.sched.Now().Sub(s.startedAt)

	s.inFlight = true
	ctx, frames := s.ctx, s.frames
	c.mu.Unlock()
	faces, err := c.detector.DetectAll(ctx, frames)
	c.mu.Lock()
	s.inFlight = false

	if c.recog != s || s.state != StateScanning {
		return
	}
	if err != nil {
		out = append(out, c.finishLocked(s, OutcomeFailed, fmt.Errorf("%w: %w", ErrDetector, err)))
		return
	}

	if len(faces) > 0 {
		if m := c.store.Matcher(); m != nil {
			best := m.FindBestMatch(faces[0])
			if !best.IsUnknown() {
				s.state = StateMatched
				s.match = best
				s.poll.Stop()
				s.poll = nil
				s.state = StateConfirmDelay
				s.confirm = c.sched.After(c.recogT.Delay, func() { c.recognizeCommit(s) })
				return
			}
		}
	}

	if elapsed >= c.recogT.Timeout {
		out = append(out, c.finishLocked(s, OutcomeTimedOut, ErrNoMatch))
	}
}

func (c *Controller) recognizeCommit(s *session) {
	var out []Result
	c.mu.Lock()
	defer func() {
		c.mu.Unlock()
		c.publish(out...)
	}()

	if c.recog != s || s.state != StateConfirmDelay {
		return
	}
	s.confirm = nil
	entry, err := c.log.Append(s.ctx, s.match.Label, c.sched.Now())
	if err != nil {
		out = append(out, c.finishLocked(s, OutcomeFailed, fmt.Errorf("%w: %w", ErrPersist, err)))
		return
	}
	s.committedAt = entry.Time
	out = append(out, c.finishLocked(s, OutcomeSucceeded, nil))
}

package scan

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestReset_TearsDownAndClears(t *testing.T) {
	h := newHarness(t)
	h.enrollAlice(t)
	_, err := h.log.Append(context.Background(), "Alice", epoch)
	require.NoError(t, err)

	_, err = h.ctrl.ToggleRecognize(context.Background())
	require.NoError(t, err)

	require.NoError(t, h.ctrl.Reset(context.Background()))
	assert.Empty(t, h.store.Collection())
	assert.Nil(t, h.store.Matcher())
	assert.Empty(t, h.log.Entries())
	assert.Zero(t, h.sched.Pending())
	_, closes := h.camera.counts()
	assert.Equal(t, 1, closes)

	require.NoError(t, h.ctrl.Reset(context.Background()))
	assert.Empty(t, h.store.Collection())

	_, err = h.ctrl.ToggleRecognize(context.Background())
	assert.ErrorIs(t, err, ErrNoEnrollment)
}

func TestClose_RejectsNewSessions(t *testing.T) {
	h := newHarness(t)
	_, err := h.ctrl.StartEnroll(context.Background(), "Alice")
	require.NoError(t, err)

	h.ctrl.Close()
	assert.Zero(t, h.sched.Pending())
	_, closes := h.camera.counts()
	assert.Equal(t, 1, closes)

	_, err = h.ctrl.StartEnroll(context.Background(), "Alice")
	assert.ErrorIs(t, err, ErrClosed)
	_, err = h.ctrl.ToggleRecognize(context.Background())
	assert.ErrorIs(t, err, ErrClosed)
}

func TestCancel(t *testing.T) {
	h := newHarness(t)
	assert.False(t, h.ctrl.Cancel(ModeEnroll))

	_, err := h.ctrl.StartEnroll(context.Background(), "Alice")
	require.NoError(t, err)
	assert.True(t, h.ctrl.Cancel(ModeEnroll))
	assert.False(t, h.ctrl.Status().Enroll.Active)
}

func TestScenario_EnrollRecognizeTimeout(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.script(faces(d1))
	_, err := h.ctrl.StartEnroll(ctx, "Alice")
	require.NoError(t, err)
	h.sched.Advance(200 * time.Millisecond)
	h.sched.Advance(3 * time.Second)
	require.NotNil(t, h.store.Matcher())

	h.script(faces(near))
	_, err = h.ctrl.ToggleRecognize(ctx)
	require.NoError(t, err)
	h.sched.Advance(200 * time.Millisecond)
	h.sched.Advance(3 * time.Second)
	require.Len(t, h.log.Entries(), 1)

	h.script(faces(far))
	_, err = h.ctrl.ToggleRecognize(ctx)
	require.NoError(t, err)
	h.sched.Advance(5 * time.Second)
	assert.Len(t, h.log.Entries(), 1)

	results := h.resultList()
	require.Len(t, results, 3)
	assert.Equal(t, OutcomeSucceeded, results[0].Outcome)
	assert.Equal(t, OutcomeSucceeded, results[1].Outcome)
	assert.Equal(t, OutcomeTimedOut, results[2].Outcome)
}

func TestManualScheduler_OrderAndStop(t *testing.T) {
	s := NewManualScheduler(epoch)
	var got []string
	s.After(300*time.Millisecond, func() { got = append(got, "after") })
	tick := s.Every(100*time.Millisecond, func() { got = append(got, "tick") })
	s.Advance(300 * time.Millisecond)
	assert.Equal(t, []string{"tick", "tick", "after", "tick"}, got)

	tick.Stop()
	tick.Stop()
	s.Advance(time.Second)
	assert.Len(t, got, 4)
	assert.Zero(t, s.Pending())
	assert.Equal(t, epoch.Add(1300*time.Millisecond), s.Now())
}

func TestRealScheduler_EnrollEndToEnd(t *testing.T) {
	defer goleak.VerifyNone(t)

	h := newHarness(t)
	done := make(chan Result, 4)
	h.ctrl = NewController(h.camera, h.det, h.store, h.log, Options{
		Enroll:    Timing{Poll: 5 * time.Millisecond, Timeout: time.Second, Delay: 10 * time.Millisecond},
		Scheduler: RealScheduler{},
		OnResult:  func(r Result) { done <- r },
	})
	h.script(nil, faces(d1))

	_, err := h.ctrl.StartEnroll(context.Background(), "Alice")
	require.NoError(t, err)

	select {
	case r := <-done:
		assert.Equal(t, OutcomeSucceeded, r.Outcome)
	case <-time.After(5 * time.Second):
		t.Fatal("enroll tidak selesai")
	}
	assert.Len(t, h.store.Collection()["Alice"], 1)
	h.ctrl.Close()
}

func TestRealScheduler_StopReleasesGoroutines(t *testing.T) {
	defer goleak.VerifyNone(t)

	ticks := make(chan struct{}, 16)
	timer := RealScheduler{}.Every(time.Millisecond, func() {
		select {
		case ticks <- struct{}{}:
		default:
		}
	})
	<-ticks
	timer.Stop()
	timer.Stop()

	fired := make(chan struct{})
	after := RealScheduler{}.After(time.Hour, func() { close(fired) })
	after.Stop()
}

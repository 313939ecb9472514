// Package scan menjalankan state machine enroll dan recognize di atas kamera
// dan detector eksternal.
//
// Semua transisi state terjadi di bawah satu mutex Controller. Pemanggilan
// detector berjalan di luar lock, tapi tiap sesi hanya boleh punya satu
// deteksi yang sedang berjalan. Kamera dimiliki eksklusif oleh satu sesi:
// memulai mode lain saat kamera dipegang menghasilkan ErrCameraBusy.
package scan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Options struct {
	Enroll    Timing
	Recognize Timing
	Scheduler Scheduler
	Location  *time.Location
	Logger    *slog.Logger
	// OnResult dipanggil di luar lock untuk setiap sesi yang berakhir.
	OnResult func(Result)
}

type Controller struct {
	mu sync.Mutex

	camera   Camera
	detector Detector
	store    DescriptorStore
	log      AttendanceLog

	sched    Scheduler
	enrollT  Timing
	recogT   Timing
	loc      *time.Location
	logger   *slog.Logger
	onResult func(Result)

	enroll *session
	recog  *session
	last   map[Mode]*Result
	closed bool
}

func NewController(camera Camera, detector Detector, store DescriptorStore, log AttendanceLog, opts Options) *Controller {
	if opts.Scheduler == nil {
		opts.Scheduler = RealScheduler{}
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Controller{
		camera:   camera,
		detector: detector,
		store:    store,
		log:      log,
		sched:    opts.Scheduler,
		enrollT:  opts.Enroll.withDefaults(DefaultEnrollTiming),
		recogT:   opts.Recognize.withDefaults(DefaultRecognizeTiming),
		loc:      opts.Location,
		logger:   opts.Logger,
		onResult: opts.OnResult,
		last:     make(map[Mode]*Result),
	}
}

// StartEnroll memulai sesi enroll untuk name. Sesi enroll yang masih berjalan
// dibongkar dulu seluruhnya (timer poll, delay konfirmasi, kamera).
func (c *Controller) StartEnroll(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}

	var out []Result
	c.mu.Lock()
	defer func() {
		c.mu.Unlock()
		c.publish(out...)
	}()

	if c.closed {
		return "", ErrClosed
	}
	if c.recog != nil {
		return "", ErrCameraBusy
	}
	if c.enroll != nil {
		out = append(out, c.finishLocked(c.enroll, OutcomeCancelled, ErrCancelled))
	}

	s, err := c.openLocked(ctx, ModeEnroll, name)
	if err != nil {
		out = append(out, c.failedStartLocked(ModeEnroll, name, err))
		return "", err
	}
	c.enroll = s
	s.poll = c.sched.Every(c.enrollT.Poll, func() { c.enrollTick(s) })
	return s.id, nil
}

// RecognizeToggle adalah hasil ToggleRecognize.
type RecognizeToggle struct {
	SessionID string
	// Cancelled true berarti panggilan ini membatalkan sesi aktif, bukan memulai sesi baru.
	Cancelled bool
}

// ToggleRecognize memulai sesi recognize, atau membatalkan sesi yang sedang
// aktif. Tidak pernah ada dua sesi recognize sekaligus.
func (c *Controller) ToggleRecognize(ctx context.Context) (RecognizeToggle, error) {
	var out []Result
	c.mu.Lock()
	defer func() {
		c.mu.Unlock()
		c.publish(out...)
	}()

	if c.closed {
		return RecognizeToggle{}, ErrClosed
	}
	if active := c.recog; active != nil {
		out = append(out, c.finishLocked(active, OutcomeCancelled, ErrCancelled))
		return RecognizeToggle{SessionID: active.id, Cancelled: true}, nil
	}
	if c.store.Matcher() == nil {
		return RecognizeToggle{}, ErrNoEnrollment
	}
	if c.enroll != nil {
		return RecognizeToggle{}, ErrCameraBusy
	}

	s, err := c.openLocked(ctx, ModeRecognize, "")
	if err != nil {
		out = append(out, c.failedStartLocked(ModeRecognize, "", err))
		return RecognizeToggle{}, err
	}
	c.recog = s
	s.poll = c.sched.Every(c.recogT.Poll, func() { c.recognizeTick(s) })
	return RecognizeToggle{SessionID: s.id}, nil
}

// Cancel membatalkan sesi mode tertentu jika ada. Mengembalikan true jika ada yang dibatalkan.
func (c *Controller) Cancel(mode Mode) bool {
	var out []Result
	c.mu.Lock()
	defer func() {
		c.mu.Unlock()
		c.publish(out...)
	}()
	if s := c.slot(mode); s != nil {
		out = append(out, c.finishLocked(s, OutcomeCancelled, ErrCancelled))
		return true
	}
	return false
}

// Reset membatalkan semua sesi lalu mengosongkan descriptor dan log absen.
func (c *Controller) Reset(ctx context.Context) error {
	var out []Result
	c.mu.Lock()
	defer func() {
		c.mu.Unlock()
		c.publish(out...)
	}()

	out = append(out, c.teardownAllLocked()...)
	return errors.Join(c.store.Reset(ctx), c.log.Reset(ctx))
}

// Close membongkar semua sesi. Start setelah Close menghasilkan ErrClosed.
func (c *Controller) Close() {
	var out []Result
	c.mu.Lock()
	c.closed = true
	out = c.teardownAllLocked()
	c.mu.Unlock()
	c.publish(out...)
}

type ModeStatus struct {
	Mode      Mode       `json:"mode"`
	Active    bool       `json:"active"`
	State     State      `json:"state"`
	SessionID string     `json:"session_id,omitempty"`
	Name      string     `json:"name,omitempty"`
	StartedAt *time.Time `json:"started_at,omitempty"`
	Last      *Result    `json:"last,omitempty"`
}

type Status struct {
	Enroll     ModeStatus `json:"enroll"`
	Recognize  ModeStatus `json:"recognize"`
	CameraOpen bool       `json:"camera_open"`
	Enrolled   bool       `json:"enrolled"`
}

func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Status{
		Enroll:     c.modeStatusLocked(ModeEnroll),
		Recognize:  c.modeStatusLocked(ModeRecognize),
		CameraOpen: (c.enroll != nil && c.enroll.cameraOpen) || (c.recog != nil && c.recog.cameraOpen),
		Enrolled:   c.store.Matcher() != nil,
	}
}

func (c *Controller) modeStatusLocked(mode Mode) ModeStatus {
	ms := ModeStatus{Mode: mode, State: StateIdle}
	if r := c.last[mode]; r != nil {
		cp := *r
		ms.Last = &cp
	}
	if s := c.slot(mode); s != nil {
		started := s.startedAt
		ms.Active = true
		ms.State = s.state
		ms.SessionID = s.id
		ms.Name = s.name
		ms.StartedAt = &started
	}
	return ms
}

func (c *Controller) slot(mode Mode) *session {
	if mode == ModeEnroll {
		return c.enroll
	}
	return c.recog
}

func (c *Controller) clearSlot(s *session) {
	switch {
	case c.enroll == s:
		c.enroll = nil
	case c.recog == s:
		c.recog = nil
	}
}

func (c *Controller) openLocked(ctx context.Context, mode Mode, name string) (*session, error) {
	frames, err := c.camera.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCameraUnavailable, err)
	}
	sctx, cancel := context.WithCancel(context.Background())
	return &session{
		id:         uuid.NewString(),
		mode:       mode,
		name:       name,
		state:      StateScanning,
		startedAt:  c.sched.Now(),
		ctx:        sctx,
		cancel:     cancel,
		frames:     frames,
		cameraOpen: true,
	}, nil
}

func (c *Controller) failedStartLocked(mode Mode, name string, err error) Result {
	now := c.sched.Now()
	r := Result{
		Mode:      mode,
		Outcome:   OutcomeFailed,
		Name:      name,
		StartedAt: now,
		Time:      now,
		Err:       err,
	}
	r.Message = c.message(r)
	c.last[mode] = &r
	return r
}

// finishLocked membongkar sesi sepenuhnya: stop poll, stop delay konfirmasi,
// batalkan deteksi yang berjalan, lalu tutup kamera tepat sekali.
func (c *Controller) finishLocked(s *session, outcome Outcome, err error) Result {
	if s.poll != nil {
		s.poll.Stop()
		s.poll = nil
	}
	if s.confirm != nil {
		s.confirm.Stop()
		s.confirm = nil
	}
	s.cancel()
	if s.cameraOpen {
		s.cameraOpen = false
		if cerr := c.camera.Close(); cerr != nil {
			c.logger.Warn("Gagal menutup kamera", "session", s.id, "error", cerr)
		}
	}
	s.state = outcome.terminalState()
	c.clearSlot(s)

	r := Result{
		SessionID: s.id,
		Mode:      s.mode,
		Outcome:   outcome,
		Name:      s.name,
		StartedAt: s.startedAt,
		Time:      c.sched.Now(),
		Err:       err,
	}
	if !s.committedAt.IsZero() {
		r.Time = s.committedAt
	}
	if s.mode == ModeRecognize && outcome == OutcomeSucceeded {
		r.Name = s.match.Label
		r.Distance = s.match.Distance
	}
	r.Message = c.message(r)
	c.last[s.mode] = &r
	return r
}

func (c *Controller) teardownAllLocked() []Result {
	var out []Result
	if c.enroll != nil {
		out = append(out, c.finishLocked(c.enroll, OutcomeCancelled, ErrCancelled))
	}
	if c.recog != nil {
		out = append(out, c.finishLocked(c.recog, OutcomeCancelled, ErrCancelled))
	}
	return out
}

func (c *Controller) message(r Result) string {
	switch {
	case r.Outcome == OutcomeCancelled:
		if r.Mode == ModeRecognize {
			return "Absen dibatalkan"
		}
		return "Pendaftaran wajah dibatalkan"
	case r.Outcome == OutcomeSucceeded && r.Mode == ModeEnroll:
		return "Pendaftaran wajah berhasil: " + r.Name
	case r.Outcome == OutcomeSucceeded:
		return fmt.Sprintf("Absen berhasil: %s jam %s", r.Name, r.Time.In(c.loc).Format("15:04:05"))
	case r.Mode == ModeEnroll:
		return "Pendaftaran gagal: " + errText(r.Err)
	default:
		return "Absen gagal: " + errText(r.Err)
	}
}

func errText(err error) string {
	if err == nil {
		return "tidak diketahui"
	}
	return err.Error()
}

func (c *Controller) publish(results ...Result) {
	for _, r := range results {
		attrs := []any{
			"session", r.SessionID,
			"mode", r.Mode,
			"outcome", r.Outcome,
			"name", r.Name,
		}
		if r.Err != nil && r.Outcome != OutcomeCancelled {
			c.logger.Warn("Sesi scan selesai", append(attrs, "error", r.Err)...)
		} else {
			c.logger.Info("Sesi scan selesai", attrs...)
		}
		if c.onResult != nil {
			c.onResult(r)
		}
	}
}

package scan

import (
	"context"
	"errors"
	"time"

	"SIABSEN/descriptor"
	"SIABSEN/models"
)

var (
	ErrEmptyName         = errors.New("nama wajib diisi")
	ErrNoEnrollment      = errors.New("belum ada wajah yang terdaftar")
	ErrCameraBusy        = errors.New("kamera sedang dipakai proses lain")
	ErrCameraUnavailable = errors.New("kamera tidak bisa dibuka")
	ErrNoFace            = errors.New("wajah tidak terdeteksi")
	ErrNoMatch           = errors.New("wajah tidak cocok dengan data terdaftar")
	ErrCancelled         = errors.New("dibatalkan")
	ErrDetector          = errors.New("deteksi wajah gagal")
	ErrPersist           = errors.New("gagal menyimpan data")
	ErrClosed            = errors.New("controller sudah ditutup")
)

type Mode string

const (
	ModeEnroll    Mode = "enroll"
	ModeRecognize Mode = "recognize"
)

type State string

const (
	StateIdle         State = "idle"
	StateScanning     State = "scanning"
	StateFound        State = "found"
	StateMatched      State = "matched"
	StateConfirmDelay State = "confirm_delay"
	StateCommitted    State = "committed"
	StateTimedOut     State = "timed_out"
	StateCancelled    State = "cancelled"
	StateFailed       State = "failed"
)

type Outcome string

const (
	OutcomeSucceeded Outcome = "succeeded"
	OutcomeFailed    Outcome = "failed"
	OutcomeTimedOut  Outcome = "timed_out"
	OutcomeCancelled Outcome = "cancelled"
)

func (o Outcome) terminalState() State {
	switch o {
	case OutcomeSucceeded:
		return StateCommitted
	case OutcomeTimedOut:
		return StateTimedOut
	case OutcomeCancelled:
		return StateCancelled
	default:
		return StateFailed
	}
}

// Result dilaporkan tepat sekali untuk setiap sesi yang berakhir.
type Result struct {
	SessionID string    `json:"session_id,omitempty"`
	Mode      Mode      `json:"mode"`
	Outcome   Outcome   `json:"outcome"`
	Name      string    `json:"name,omitempty"`
	Distance  float64   `json:"distance,omitempty"`
	StartedAt time.Time `json:"started_at"`
	Time      time.Time `json:"time"`
	Message   string    `json:"message"`
	Err       error     `json:"-"`
}

// Timing adalah konstanta satu state machine: periode poll, batas waktu,
// dan delay konfirmasi setelah wajah ditemukan.
type Timing struct {
	Poll    time.Duration
	Timeout time.Duration
	Delay   time.Duration
}

var (
	DefaultEnrollTiming    = Timing{Poll: 200 * time.Millisecond, Timeout: 3 * time.Second, Delay: 3 * time.Second}
	DefaultRecognizeTiming = Timing{Poll: 200 * time.Millisecond, Timeout: 5 * time.Second, Delay: 3 * time.Second}
)

func (t Timing) withDefaults(def Timing) Timing {
	if t == (Timing{}) {
		return def
	}
	if t.Poll <= 0 {
		t.Poll = def.Poll
	}
	if t.Timeout <= 0 {
		t.Timeout = def.Timeout
	}
	if t.Delay < 0 {
		t.Delay = def.Delay
	}
	return t
}

type session struct {
	id        string
	mode      Mode
	name      string
	state     State
	startedAt time.Time

	ctx    context.Context
	cancel context.CancelFunc

	frames     FrameSource
	cameraOpen bool
	poll       Timer
	confirm    Timer
	inFlight   bool

	captured    models.Descriptor
	match       descriptor.Match
	committedAt time.Time
}

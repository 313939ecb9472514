// Package feed menjembatani perangkat kamera (browser/Android) dengan scan
// controller. Perangkat menjalankan detektor wajah sendiri lalu mengirim
// descriptor per frame; Feed menyimpan frame terakhir untuk dikonsumsi.
package feed

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"SIABSEN/models"
	"SIABSEN/scan"
)

var (
	ErrNoDevice    = errors.New("perangkat kamera tidak terhubung")
	ErrDimension   = errors.New("dimensi descriptor salah")
	ErrAlreadyOpen = errors.New("kamera sudah dibuka")
)

type frame struct {
	faces []models.Descriptor
	at    time.Time
}

// Feed mengimplementasikan scan.Camera dan scan.Detector.
type Feed struct {
	mu       sync.Mutex
	now      func() time.Time
	stale    time.Duration
	dim      int
	open     bool
	lastSeen time.Time
	latest   *frame
	frames   int
}

type Option func(*Feed)

// WithClock dipakai test untuk mengganti sumber waktu.
func WithClock(now func() time.Time) Option {
	return func(f *Feed) { f.now = now }
}

// New membuat feed. stale adalah batas umur heartbeat/frame; dim 0 mematikan cek dimensi.
func New(stale time.Duration, dim int, opts ...Option) *Feed {
	f := &Feed{now: time.Now, stale: stale, dim: dim}
	for _, o := range opts {
		o(f)
	}
	if f.stale <= 0 {
		f.stale = 2 * time.Second
	}
	return f
}

// Push menerima satu frame dari perangkat. Frame selalu dihitung sebagai
// heartbeat, tapi hanya disimpan jika kamera sedang dibuka.
// Mengembalikan status kamera supaya perangkat tahu kapan harus streaming.
func (f *Feed) Push(faces [][]float64) (bool, error) {
	batch := make([]models.Descriptor, 0, len(faces))
	for i, face := range faces {
		if len(face) == 0 {
			return f.IsOpen(), fmt.Errorf("%w: wajah ke-%d kosong", ErrDimension, i+1)
		}
		if f.dim > 0 && len(face) != f.dim {
			return f.IsOpen(), fmt.Errorf("%w: wajah ke-%d punya %d dimensi, harus %d", ErrDimension, i+1, len(face), f.dim)
		}
		batch = append(batch, models.Descriptor(face).Clone())
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	now := f.now()
	f.lastSeen = now
	if !f.open {
		return false, nil
	}
	f.latest = &frame{faces: batch, at: now}
	f.frames++
	return true, nil
}

// Heartbeat mencatat perangkat hidup tanpa mengirim frame.
func (f *Feed) Heartbeat() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastSeen = f.now()
	return f.open
}

func (f *Feed) Open(ctx context.Context) (scan.FrameSource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.open {
		return nil, ErrAlreadyOpen
	}
	if f.lastSeen.IsZero() || f.now().Sub(f.lastSeen) > f.stale {
		return nil, ErrNoDevice
	}
	f.open = true
	f.latest = nil
	return f, nil
}

// Close idempoten dan membuang frame yang belum terpakai.
func (f *Feed) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.open = false
	f.latest = nil
	return nil
}

func (f *Feed) IsOpen() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.open
}

// take mengambil frame terbaru yang belum dipakai dan masih segar.
func (f *Feed) take(ctx context.Context) ([]models.Descriptor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	fr := f.latest
	f.latest = nil
	if !f.open || fr == nil || f.now().Sub(fr.at) > f.stale {
		return nil, nil
	}
	return fr.faces, nil
}

// DetectOne mengembalikan wajah pertama dari frame terbaru.
func (f *Feed) DetectOne(ctx context.Context, _ scan.FrameSource) (models.Descriptor, bool, error) {
	faces, err := f.take(ctx)
	if err != nil || len(faces) == 0 {
		return nil, false, err
	}
	return faces[0], true, nil
}

func (f *Feed) DetectAll(ctx context.Context, _ scan.FrameSource) ([]models.Descriptor, error) {
	return f.take(ctx)
}

type Stats struct {
	Open      bool       `json:"camera_open"`
	Connected bool       `json:"device_connected"`
	LastSeen  *time.Time `json:"last_seen,omitempty"`
	Frames    int        `json:"frames_received"`
}

func (f *Feed) Stats() Stats {
	f.mu.Lock()
	defer f.mu.Unlock()
	st := Stats{Open: f.open, Frames: f.frames}
	if !f.lastSeen.IsZero() {
		seen := f.lastSeen
		st.LastSeen = &seen
		st.Connected = f.now().Sub(seen) <= f.stale
	}
	return st
}

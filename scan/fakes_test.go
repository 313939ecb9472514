package scan

import (
	"context"
	"sync"
	"testing"
	"time"

	"SIABSEN/attendance"
	"SIABSEN/descriptor"
	"SIABSEN/logger"
	"SIABSEN/models"
	"SIABSEN/storage"

	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

type fakeCamera struct {
	mu      sync.Mutex
	opens   int
	closes  int
	openErr error
}

func (f *fakeCamera) Open(context.Context) (FrameSource, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.openErr != nil {
		return nil, f.openErr
	}
	f.opens++
	return "frame", nil
}

func (f *fakeCamera) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closes++
	return nil
}

func (f *fakeCamera) counts() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.opens, f.closes
}

// fakeDetector mengembalikan frame dari script berurutan; setelah habis,
// elemen terakhir dipakai terus.
type fakeDetector struct {
	mu     sync.Mutex
	frames [][]models.Descriptor
	err    error
	calls  int
	// block jika diisi membuat deteksi menunggu sampai channel ditutup.
	block   chan struct{}
	entered chan struct{}
}

func (f *fakeDetector) next(ctx context.Context) ([]models.Descriptor, error) {
	f.mu.Lock()
	f.calls++
	block, entered := f.block, f.entered
	var faces []models.Descriptor
	if len(f.frames) > 0 {
		faces = f.frames[0]
		if len(f.frames) > 1 {
			f.frames = f.frames[1:]
		}
	}
	err := f.err
	f.mu.Unlock()

	if block != nil {
		if entered != nil {
			entered <- struct{}{}
		}
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return faces, err
}

func (f *fakeDetector) DetectOne(ctx context.Context, _ FrameSource) (models.Descriptor, bool, error) {
	faces, err := f.next(ctx)
	if err != nil || len(faces) == 0 {
		return nil, false, err
	}
	return faces[0], true, nil
}

func (f *fakeDetector) DetectAll(ctx context.Context, _ FrameSource) ([]models.Descriptor, error) {
	return f.next(ctx)
}

func (f *fakeDetector) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type harness struct {
	ctrl    *Controller
	sched   *ManualScheduler
	camera  *fakeCamera
	det     *fakeDetector
	store   *descriptor.Store
	log     *attendance.Log
	blobs   *storage.MemoryStore
	mu      sync.Mutex
	results []Result
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		sched:  NewManualScheduler(epoch),
		camera: &fakeCamera{},
		det:    &fakeDetector{},
		blobs:  storage.NewMemoryStore(),
	}
	h.store = descriptor.NewStore(h.blobs, 0.6, descriptor.StrategyNearest, logger.Discard())
	h.store.Load(context.Background())
	h.log = attendance.NewLog(h.blobs, logger.Discard())
	h.log.Load(context.Background())
	h.ctrl = NewController(h.camera, h.det, h.store, h.log, Options{
		Enroll:    DefaultEnrollTiming,
		Recognize: DefaultRecognizeTiming,
		Scheduler: h.sched,
		Location:  time.UTC,
		Logger:    logger.Discard(),
		OnResult: func(r Result) {
			h.mu.Lock()
			h.results = append(h.results, r)
			h.mu.Unlock()
		},
	})
	return h
}

func (h *harness) script(frames ...[]models.Descriptor) {
	h.det.mu.Lock()
	h.det.frames = frames
	h.det.mu.Unlock()
}

func (h *harness) resultList() []Result {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Result, len(h.results))
	copy(out, h.results)
	return out
}

func (h *harness) enrollAlice(t *testing.T) {
	t.Helper()
	require.NoError(t, h.store.Enroll(context.Background(), "Alice", d1))
}

var (
	d1   = models.Descriptor{0.1, 0.2, 0.3}
	near = models.Descriptor{0.12, 0.21, 0.29}
	far  = models.Descriptor{5, 5, 5}
)

func faces(ds ...models.Descriptor) []models.Descriptor {
	return ds
}

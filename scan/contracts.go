package scan

import (
	"context"
	"time"

	"SIABSEN/descriptor"
	"SIABSEN/models"
)

// FrameSource adalah sumber frame yang dikembalikan Camera.Open dan
// diteruskan apa adanya ke Detector.
type FrameSource interface{}

// Camera dipakai eksklusif oleh satu state machine pada satu waktu.
type Camera interface {
	Open(ctx context.Context) (FrameSource, error)
	Close() error
}

// Detector tidak mengembalikan error untuk "tidak ada wajah", hanya untuk
// kegagalan I/O yang sebenarnya.
type Detector interface {
	DetectOne(ctx context.Context, src FrameSource) (models.Descriptor, bool, error)
	DetectAll(ctx context.Context, src FrameSource) ([]models.Descriptor, error)
}

type DescriptorStore interface {
	Enroll(ctx context.Context, name string, d models.Descriptor) error
	Matcher() *descriptor.Matcher
	Reset(ctx context.Context) error
}

type AttendanceLog interface {
	Append(ctx context.Context, name string, at time.Time) (models.AttendanceEntry, error)
	Reset(ctx context.Context) error
}

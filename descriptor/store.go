// Package descriptor menyimpan koleksi descriptor wajah per nama dan
// membangun ulang Matcher setiap kali koleksi berubah.
package descriptor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"SIABSEN/models"
	"SIABSEN/storage"
)

var (
	ErrEmptyName       = errors.New("nama tidak boleh kosong")
	ErrEmptyDescriptor = errors.New("descriptor kosong")
	ErrDimension       = errors.New("dimensi descriptor salah")
)

// Store memegang koleksi dan Matcher aktif.
// Penulisan memakai pola write-then-confirm: koleksi baru disimpan dulu,
// baru dipasang ke memori dan Matcher dibangun ulang.
type Store struct {
	mu        sync.RWMutex
	blobs     storage.BlobStore
	coll      models.Collection
	matcher   *Matcher
	threshold float64
	strategy  Strategy
	dim       int
	log       *slog.Logger
}

type Option func(*Store)

// WithDimension mewajibkan setiap descriptor punya panjang dim. 0 berarti tidak dicek.
func WithDimension(dim int) Option {
	return func(s *Store) { s.dim = dim }
}

func NewStore(blobs storage.BlobStore, threshold float64, strategy Strategy, log *slog.Logger, opts ...Option) *Store {
	if log == nil {
		log = slog.Default()
	}
	s := &Store{
		blobs:     blobs,
		coll:      models.Collection{},
		threshold: threshold,
		strategy:  strategy,
		log:       log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) checkDescriptor(name string, d models.Descriptor) error {
	if len(d) == 0 {
		return fmt.Errorf("%w: %s", ErrEmptyDescriptor, name)
	}
	if s.dim > 0 && len(d) != s.dim {
		return fmt.Errorf("%w: %s punya %d dimensi, harus %d", ErrDimension, name, len(d), s.dim)
	}
	return nil
}

// Load membaca koleksi dari storage. Data hilang atau rusak menghasilkan
// koleksi kosong, error parse tidak pernah diteruskan ke pemanggil.
func (s *Store) Load(ctx context.Context) models.Collection {
	coll := models.Collection{}
	raw, err := s.blobs.LoadBlob(ctx, storage.KeyDescriptors)
	switch {
	case errors.Is(err, storage.ErrNotFound):
	case err != nil:
		s.log.Warn("Gagal membaca descriptors, mulai dengan koleksi kosong", "error", err)
	default:
		if decoded, derr := models.DecodeCollection(raw); derr != nil {
			s.log.Warn("Descriptors rusak, mulai dengan koleksi kosong", "error", derr)
		} else {
			coll = decoded
		}
	}

	s.mu.Lock()
	s.install(coll)
	s.mu.Unlock()

	s.log.Info("Descriptors dimuat", "names", len(coll), "samples", coll.Count())
	return coll.Clone()
}

// Enroll menambah satu descriptor ke nama (dibuat jika belum ada).
// Tidak ada dedup dan tidak ada batas jumlah sampel per nama.
func (s *Store) Enroll(ctx context.Context, name string, d models.Descriptor) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	if err := s.checkDescriptor(name, d); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.coll.Clone()
	next[name] = append(next[name], d.Clone())
	if err := s.persist(ctx, next); err != nil {
		return err
	}
	s.install(next)
	s.log.Info("Descriptor baru tersimpan", "name", name, "samples", len(next[name]))
	return nil
}

// Replace menimpa seluruh koleksi (endpoint saveDescriptors).
// Nama kosong dilewati, descriptor kosong atau salah dimensi membatalkan
// seluruh penulisan.
func (s *Store) Replace(ctx context.Context, c models.Collection) error {
	next := models.Collection{}
	for name, samples := range c.Clone() {
		name = strings.TrimSpace(name)
		if name == "" || len(samples) == 0 {
			continue
		}
		for _, d := range samples {
			if err := s.checkDescriptor(name, d); err != nil {
				return err
			}
		}
		next[name] = append(next[name], samples...)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.persist(ctx, next); err != nil {
		return err
	}
	s.install(next)
	return nil
}

// Reset mengosongkan koleksi dan menyimpan state kosong. Idempoten.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	empty := models.Collection{}
	if err := s.persist(ctx, empty); err != nil {
		return err
	}
	s.install(empty)
	return nil
}

// Matcher mengembalikan Matcher aktif, nil jika belum ada yang enroll.
func (s *Store) Matcher() *Matcher {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.matcher
}

// Collection mengembalikan salinan koleksi saat ini.
func (s *Store) Collection() models.Collection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.coll.Clone()
}

type NameCount struct {
	Name  string `json:"name"`
	Count int    `json:"face_count"`
}

// Names mengembalikan nama terdaftar beserta jumlah sampel, urut nama.
func (s *Store) Names() []NameCount {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]NameCount, 0, len(s.coll))
	for name, samples := range s.coll {
		out = append(out, NameCount{Name: name, Count: len(samples)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (s *Store) persist(ctx context.Context, c models.Collection) error {
	raw, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("gagal encode descriptors: %w", err)
	}
	if err := s.blobs.SaveBlob(ctx, storage.KeyDescriptors, raw); err != nil {
		return fmt.Errorf("gagal menyimpan descriptors: %w", err)
	}
	return nil
}

// install wajib dipanggil dengan s.mu terkunci.
func (s *Store) install(c models.Collection) {
	s.coll = c
	s.matcher = BuildMatcher(c, s.threshold, s.strategy)
}

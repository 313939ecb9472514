// Package attendance menyimpan log absen append-only dan menyediakan export.
package attendance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"SIABSEN/models"
	"SIABSEN/storage"
)

var ErrEmptyName = errors.New("nama absen tidak boleh kosong")

// Log memegang daftar absen sesuai urutan insert.
// Urutan tampilan (waktu menurun) hanya dihitung saat List dipanggil.
type Log struct {
	mu      sync.RWMutex
	blobs   storage.BlobStore
	entries []models.AttendanceEntry
	log     *slog.Logger
}

func NewLog(blobs storage.BlobStore, log *slog.Logger) *Log {
	if log == nil {
		log = slog.Default()
	}
	return &Log{blobs: blobs, entries: []models.AttendanceEntry{}, log: log}
}

// Load membaca log dari storage; hilang atau rusak berarti log kosong.
func (l *Log) Load(ctx context.Context) []models.AttendanceEntry {
	entries := []models.AttendanceEntry{}
	raw, err := l.blobs.LoadBlob(ctx, storage.KeyAttendance)
	switch {
	case errors.Is(err, storage.ErrNotFound):
	case err != nil:
		l.log.Warn("Gagal membaca attendance, mulai dengan log kosong", "error", err)
	default:
		if decoded, derr := models.DecodeAttendance(raw); derr != nil {
			l.log.Warn("Attendance rusak, mulai dengan log kosong", "error", derr)
		} else {
			entries = decoded
		}
	}

	l.mu.Lock()
	l.entries = entries
	l.mu.Unlock()
	return cloneEntries(entries)
}

// Append menambah satu entry dan menyimpan seluruh log.
// Jika penyimpanan gagal, entry tidak masuk ke memori.
func (l *Log) Append(ctx context.Context, name string, at time.Time) (models.AttendanceEntry, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.AttendanceEntry{}, ErrEmptyName
	}
	entry := models.AttendanceEntry{Name: name, Time: at}

	l.mu.Lock()
	defer l.mu.Unlock()

	next := make([]models.AttendanceEntry, len(l.entries), len(l.entries)+1)
	copy(next, l.entries)
	next = append(next, entry)
	if err := l.persist(ctx, next); err != nil {
		return models.AttendanceEntry{}, err
	}
	l.entries = next
	l.log.Info("Absen tercatat", "name", name, "time", at)
	return entry, nil
}

// Replace menimpa seluruh log (endpoint saveAttendance). Entry dengan nama
// kosong membatalkan seluruh penulisan, sama seperti Append.
func (l *Log) Replace(ctx context.Context, entries []models.AttendanceEntry) error {
	next := cloneEntries(entries)
	for i := range next {
		next[i].Name = strings.TrimSpace(next[i].Name)
		if next[i].Name == "" {
			return fmt.Errorf("%w: entry ke-%d", ErrEmptyName, i+1)
		}
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.persist(ctx, next); err != nil {
		return err
	}
	l.entries = next
	return nil
}

// Reset mengosongkan log. Idempoten.
func (l *Log) Reset(ctx context.Context) error {
	return l.Replace(ctx, nil)
}

// Entries mengembalikan salinan log sesuai urutan insert.
func (l *Log) Entries() []models.AttendanceEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return cloneEntries(l.entries)
}

// List memfilter berdasarkan nama (kosong = semua) lalu urut waktu menurun.
func (l *Log) List(name string) []models.AttendanceEntry {
	return Filter(l.Entries(), name)
}

// Names mengembalikan nama unik yang punya catatan, sesuai kemunculan pertama.
func (l *Log) Names() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	seen := make(map[string]struct{}, len(l.entries))
	names := []string{}
	for _, e := range l.entries {
		if _, ok := seen[e.Name]; ok {
			continue
		}
		seen[e.Name] = struct{}{}
		names = append(names, e.Name)
	}
	return names
}

// Filter tidak mengubah slice input.
func Filter(entries []models.AttendanceEntry, name string) []models.AttendanceEntry {
	out := make([]models.AttendanceEntry, 0, len(entries))
	for _, e := range entries {
		if name == "" || e.Name == name {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time.After(out[j].Time) })
	return out
}

func (l *Log) persist(ctx context.Context, entries []models.AttendanceEntry) error {
	raw, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("gagal encode attendance: %w", err)
	}
	if err := l.blobs.SaveBlob(ctx, storage.KeyAttendance, raw); err != nil {
		return fmt.Errorf("gagal menyimpan attendance: %w", err)
	}
	return nil
}

func cloneEntries(entries []models.AttendanceEntry) []models.AttendanceEntry {
	out := make([]models.AttendanceEntry, len(entries))
	copy(out, entries)
	return out
}

// Package jobs berisi pekerjaan terjadwal (gocron).
package jobs

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"SIABSEN/attendance"
	"SIABSEN/config"
	"SIABSEN/descriptor"

	"github.com/go-co-op/gocron"
)

const stampLayout = "20060102-150405"

// Backup menulis snapshot attendance CSV dan descriptors JSON ke direktori backup.
type Backup struct {
	dir    string
	log    *attendance.Log
	store  *descriptor.Store
	loc    *time.Location
	logger *slog.Logger
	now    func() time.Time
}

func NewBackup(dir string, log *attendance.Log, store *descriptor.Store, loc *time.Location, logger *slog.Logger) *Backup {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Backup{dir: dir, log: log, store: store, loc: loc, logger: logger, now: time.Now}
}

// Run menulis dua file dengan timestamp yang sama dan mengembalikan path-nya.
func (b *Backup) Run() ([]string, error) {
	if err := os.MkdirAll(b.dir, 0o755); err != nil {
		return nil, fmt.Errorf("gagal membuat direktori backup: %w", err)
	}
	stamp := b.now().In(b.loc).Format(stampLayout)

	csvPath := filepath.Join(b.dir, "attendance_"+stamp+".csv")
	csvBody := attendance.EncodeCSV(attendance.Filter(b.log.Entries(), ""), b.loc)
	if err := os.WriteFile(csvPath, csvBody, 0o644); err != nil {
		return nil, fmt.Errorf("gagal menulis backup attendance: %w", err)
	}

	jsonPath := filepath.Join(b.dir, "descriptors_"+stamp+".json")
	jsonBody, err := json.MarshalIndent(b.store.Collection(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("gagal encode descriptors: %w", err)
	}
	if err := os.WriteFile(jsonPath, jsonBody, 0o644); err != nil {
		return nil, fmt.Errorf("gagal menulis backup descriptors: %w", err)
	}
	return []string{csvPath, jsonPath}, nil
}

func (b *Backup) runLogged() {
	paths, err := b.Run()
	if err != nil {
		b.logger.Error("Backup gagal", "error", err)
		return
	}
	b.logger.Info("Backup selesai", "files", paths)
}

// Schedule mendaftarkan backup ke scheduler gocron baru dan menjalankannya async.
// Expression cron diutamakan; jika kosong dipakai interval.
func Schedule(cfg config.BackupConfig, b *Backup) (*gocron.Scheduler, error) {
	s := gocron.NewScheduler(b.loc)
	s.SingletonModeAll()

	var err error
	if cfg.Cron != "" {
		_, err = s.Cron(cfg.Cron).Do(b.runLogged)
	} else {
		_, err = s.Every(cfg.Interval).WaitForSchedule().Do(b.runLogged)
	}
	if err != nil {
		return nil, fmt.Errorf("jadwal backup tidak valid: %w", err)
	}

	s.StartAsync()
	return s, nil
}

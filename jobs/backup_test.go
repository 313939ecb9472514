package jobs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"SIABSEN/attendance"
	"SIABSEN/config"
	"SIABSEN/descriptor"
	"SIABSEN/logger"
	"SIABSEN/models"
	"SIABSEN/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBackup(t *testing.T) (*Backup, string) {
	t.Helper()
	ctx := context.Background()
	blobs := storage.NewMemoryStore()
	store := descriptor.NewStore(blobs, 0.6, descriptor.StrategyNearest, logger.Discard())
	store.Load(ctx)
	require.NoError(t, store.Enroll(ctx, "Alice", models.Descriptor{1, 2}))
	log := attendance.NewLog(blobs, logger.Discard())
	log.Load(ctx)
	_, err := log.Append(ctx, "Alice", time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "backup")
	b := NewBackup(dir, log, store, time.UTC, logger.Discard())
	b.now = func() time.Time { return time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC) }
	return b, dir
}

func TestBackupRun_WritesSnapshots(t *testing.T) {
	b, dir := newBackup(t)

	paths, err := b.Run()
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.Equal(t, filepath.Join(dir, "attendance_20240502-000000.csv"), paths[0])

	csv, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.Contains(t, string(csv), `"Alice","2024-05-01 08:00:00"`)

	raw, err := os.ReadFile(paths[1])
	require.NoError(t, err)
	coll, err := models.DecodeCollection(raw)
	require.NoError(t, err)
	assert.Len(t, coll["Alice"], 1)
}

func TestSchedule_InvalidCron(t *testing.T) {
	b, _ := newBackup(t)
	_, err := Schedule(config.BackupConfig{Cron: "not a cron"}, b)
	assert.Error(t, err)
}

func TestSchedule_Interval(t *testing.T) {
	b, _ := newBackup(t)
	s, err := Schedule(config.BackupConfig{Interval: time.Hour}, b)
	require.NoError(t, err)
	defer s.Stop()

	assert.True(t, s.IsRunning())
	assert.Len(t, s.Jobs(), 1)
}

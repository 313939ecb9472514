package attendance

import (
	"context"
	"testing"
	"time"

	"SIABSEN/logger"
	"SIABSEN/models"
	"SIABSEN/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

func newLog(t *testing.T) (*Log, *storage.MemoryStore) {
	t.Helper()
	blobs := storage.NewMemoryStore()
	l := NewLog(blobs, logger.Discard())
	l.Load(context.Background())
	return l, blobs
}

func TestLoad_FailSoft(t *testing.T) {
	ctx := context.Background()
	blobs := storage.NewMemoryStore()
	l := NewLog(blobs, logger.Discard())
	assert.Empty(t, l.Load(ctx))

	require.NoError(t, blobs.SaveBlob(ctx, storage.KeyAttendance, []byte("   ")))
	assert.Empty(t, l.Load(ctx))

	require.NoError(t, blobs.SaveBlob(ctx, storage.KeyAttendance, []byte(`[{"name":"Alice","time":"2024-05-01T08:00:00Z"}]`)))
	got := l.Load(ctx)
	require.Len(t, got, 1)
	assert.Equal(t, "Alice", got[0].Name)
}

func TestAppend_PersistsInInsertionOrder(t *testing.T) {
	ctx := context.Background()
	l, blobs := newLog(t)

	_, err := l.Append(ctx, "Bob", t0.Add(time.Hour))
	require.NoError(t, err)
	_, err = l.Append(ctx, "Alice", t0)
	require.NoError(t, err)

	entries := l.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "Bob", entries[0].Name)
	assert.Equal(t, "Alice", entries[1].Name)

	raw, err := blobs.LoadBlob(ctx, storage.KeyAttendance)
	require.NoError(t, err)
	persisted, err := models.DecodeAttendance(raw)
	require.NoError(t, err)
	assert.Len(t, persisted, 2)
}

func TestAppend_FailureLeavesLogUnchanged(t *testing.T) {
	ctx := context.Background()
	l, blobs := newLog(t)
	blobs.SetFailSave(assert.AnError)

	_, err := l.Append(ctx, "Alice", t0)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Empty(t, l.Entries())
}

func TestAppend_EmptyName(t *testing.T) {
	l, _ := newLog(t)
	_, err := l.Append(context.Background(), " ", t0)
	assert.ErrorIs(t, err, ErrEmptyName)
}

func TestList_FilterAndSortDescending(t *testing.T) {
	ctx := context.Background()
	l, _ := newLog(t)
	for i, name := range []string{"Alice", "Bob", "Alice"} {
		_, err := l.Append(ctx, name, t0.Add(time.Duration(i)*time.Minute))
		require.NoError(t, err)
	}

	all := l.List("")
	require.Len(t, all, 3)
	assert.True(t, all[0].Time.After(all[1].Time))
	assert.True(t, all[1].Time.After(all[2].Time))

	alice := l.List("Alice")
	require.Len(t, alice, 2)
	assert.Equal(t, t0.Add(2*time.Minute), alice[0].Time)

	// Urutan simpan tidak berubah oleh List
	assert.Equal(t, "Alice", l.Entries()[0].Name)
	assert.Equal(t, []string{"Alice", "Bob"}, l.Names())
}

func TestReset_Idempotent(t *testing.T) {
	ctx := context.Background()
	l, blobs := newLog(t)
	_, err := l.Append(ctx, "Alice", t0)
	require.NoError(t, err)

	require.NoError(t, l.Reset(ctx))
	require.NoError(t, l.Reset(ctx))
	assert.Empty(t, l.Entries())

	raw, err := blobs.LoadBlob(ctx, storage.KeyAttendance)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw))
}

func TestReplace_RejectsEmptyName(t *testing.T) {
	ctx := context.Background()
	blobs := storage.NewMemoryStore()
	l := NewLog(blobs, logger.Discard())
	l.Load(ctx)
	_, err := l.Append(ctx, "Alice", time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	err = l.Replace(ctx, []models.AttendanceEntry{
		{Name: "Bob", Time: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)},
		{Name: "  ", Time: time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC)},
	})
	assert.ErrorIs(t, err, ErrEmptyName)
	require.Len(t, l.Entries(), 1)
	assert.Equal(t, "Alice", l.Entries()[0].Name)

	require.NoError(t, l.Replace(ctx, []models.AttendanceEntry{{Name: " Bob ", Time: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}}))
	assert.Equal(t, "Bob", l.Entries()[0].Name)
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("MATCH_THRESHOLD", "")
	t.Setenv("ENROLL_TIMEOUT_MS", "")
	t.Setenv("JWT_KEY", "")

	cfg, err := Load("testdata/does-not-exist.env")
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "file", cfg.Storage.Driver)
	assert.InDelta(t, 0.6, cfg.Match.Threshold, 1e-9)
	assert.Equal(t, "nearest", cfg.Match.Strategy)
	assert.Equal(t, 128, cfg.Match.DescriptorDim)
	assert.Equal(t, 200*time.Millisecond, cfg.Enroll.Poll)
	assert.Equal(t, 3*time.Second, cfg.Enroll.Timeout)
	assert.Equal(t, 3*time.Second, cfg.Enroll.Delay)
	assert.Equal(t, 5*time.Second, cfg.Recog.Timeout)
	assert.Equal(t, 24*time.Hour, cfg.Backup.Interval)
	assert.ErrorIs(t, RequireJWTKey(), ErrMissingJWTKey)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("MATCH_THRESHOLD", "0.45")
	t.Setenv("MATCH_STRATEGY", "MEAN")
	t.Setenv("RECOGNIZE_TIMEOUT_MS", "7000")
	t.Setenv("DESCRIPTOR_DIM", "0")
	t.Setenv("JWT_KEY", "rahasia")

	cfg, err := Load("testdata/does-not-exist.env")
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.InDelta(t, 0.45, cfg.Match.Threshold, 1e-9)
	assert.Equal(t, "mean", cfg.Match.Strategy)
	assert.Equal(t, 7*time.Second, cfg.Recog.Timeout)
	assert.Equal(t, 0, cfg.Match.DescriptorDim)
	assert.NoError(t, RequireJWTKey())
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("ENROLL_POLL_MS", "abc")
	t.Setenv("MATCH_THRESHOLD", "-1")
	t.Setenv("BACKUP_INTERVAL", "soon")

	cfg, err := Load("testdata/does-not-exist.env")
	require.NoError(t, err)

	assert.Equal(t, 200*time.Millisecond, cfg.Enroll.Poll)
	assert.InDelta(t, 0.6, cfg.Match.Threshold, 1e-9)
	assert.Equal(t, 24*time.Hour, cfg.Backup.Interval)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown driver", map[string]string{"STORAGE_DRIVER": "redis"}},
		{"mysql without dsn", map[string]string{"STORAGE_DRIVER": "mysql", "DATABASE_URL": ""}},
		{"unknown strategy", map[string]string{"MATCH_STRATEGY": "knn"}},
		{"bad timezone", map[string]string{"TIMEZONE": "Mars/Olympus"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load("testdata/does-not-exist.env")
			assert.Error(t, err)
		})
	}
}

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/joho/godotenv"
)

// Variable global untuk menyimpan key agar bisa diakses di controller/middleware
var JWT_KEY []byte

// Struct untuk data yang disimpan di dalam Token
type JWTClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

var ErrMissingJWTKey = errors.New("JWT_KEY tidak ditemukan di environment variable")

type Config struct {
	Port      string
	StaticDir string
	Location  *time.Location

	Storage   StorageConfig
	Match     MatchConfig
	Enroll    TimingConfig
	Recog     TimingConfig
	FeedStale time.Duration

	Admin  AdminConfig
	Backup BackupConfig
	Log    LogConfig
}

type StorageConfig struct {
	Driver      string // file, mysql, sqlite
	DataDir     string // dipakai driver file
	DatabaseURL string // DSN mysql atau path sqlite
}

type MatchConfig struct {
	Threshold     float64
	Strategy      string // nearest atau mean
	DescriptorDim int    // 0 berarti tidak dicek
}

// TimingConfig berisi konstanta waktu satu state machine scan.
type TimingConfig struct {
	Poll    time.Duration
	Timeout time.Duration
	Delay   time.Duration
}

type AdminConfig struct {
	Username     string
	PasswordHash string
	TokenTTL     time.Duration
}

type BackupConfig struct {
	Dir      string
	Cron     string
	Interval time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

func envString(key, defaultVal string) string {
	if s := strings.TrimSpace(os.Getenv(key)); s != "" {
		return s
	}
	return defaultVal
}

// envInt membaca env sebagai integer >= 0, fallback ke default kalau kosong/rusak.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 0 {
		return n
	}
	return defaultVal
}

func envMillis(key string, defaultVal int) time.Duration {
	n := envInt(key, defaultVal)
	if n == 0 {
		n = defaultVal
	}
	return time.Duration(n) * time.Millisecond
}

func envFloat(key string, defaultVal float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f > 0 {
		return f
	}
	return defaultVal
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d
	}
	return defaultVal
}

// Load membaca konfigurasi dari file .env (opsional) lalu dari environment.
func Load(envFiles ...string) (*Config, error) {
	// 1. Coba load file .env (khusus local development).
	// Di production file ini biasanya tidak ada, jadi error-nya hanya info.
	if err := godotenv.Load(envFiles...); err != nil {
		slog.Debug("File .env tidak ditemukan, memakai system environment variable")
	}

	// 2. Timezone untuk tampilan dan export
	loc := time.Local
	if tz := envString("TIMEZONE", ""); tz != "" && tz != "Local" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("TIMEZONE tidak valid %q: %w", tz, err)
		}
		loc = l
	}

	cfg := &Config{
		Port:      envString("PORT", "8000"),
		StaticDir: os.Getenv("STATIC_DIR"),
		Location:  loc,
		Storage: StorageConfig{
			Driver:      strings.ToLower(envString("STORAGE_DRIVER", "file")),
			DataDir:     envString("DATA_DIR", "."),
			DatabaseURL: os.Getenv("DATABASE_URL"),
		},
		Match: MatchConfig{
			Threshold:     envFloat("MATCH_THRESHOLD", 0.6),
			Strategy:      strings.ToLower(envString("MATCH_STRATEGY", "nearest")),
			DescriptorDim: envInt("DESCRIPTOR_DIM", 128),
		},
		Enroll: TimingConfig{
			Poll:    envMillis("ENROLL_POLL_MS", 200),
			Timeout: envMillis("ENROLL_TIMEOUT_MS", 3000),
			Delay:   envMillis("ENROLL_DELAY_MS", 3000),
		},
		Recog: TimingConfig{
			Poll:    envMillis("RECOGNIZE_POLL_MS", 200),
			Timeout: envMillis("RECOGNIZE_TIMEOUT_MS", 5000),
			Delay:   envMillis("RECOGNIZE_DELAY_MS", 3000),
		},
		FeedStale: envMillis("FEED_STALE_MS", 2000),
		Admin: AdminConfig{
			Username:     envString("ADMIN_USERNAME", "admin"),
			PasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
			TokenTTL:     envDuration("ADMIN_TOKEN_TTL", 12*time.Hour),
		},
		Backup: BackupConfig{
			Dir:      os.Getenv("BACKUP_DIR"),
			Cron:     os.Getenv("BACKUP_CRON"),
			Interval: envDuration("BACKUP_INTERVAL", 24*time.Hour),
		},
		Log: LogConfig{
			Level:  strings.ToLower(envString("LOG_LEVEL", "info")),
			Format: strings.ToLower(envString("LOG_FORMAT", "text")),
		},
	}

	// 3. Validasi driver penyimpanan
	switch cfg.Storage.Driver {
	case "file":
	case "mysql", "sqlite":
		if cfg.Storage.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL wajib diisi untuk driver %s", cfg.Storage.Driver)
		}
	default:
		return nil, fmt.Errorf("STORAGE_DRIVER tidak dikenal: %q", cfg.Storage.Driver)
	}

	switch cfg.Match.Strategy {
	case "nearest", "mean":
	default:
		return nil, fmt.Errorf("MATCH_STRATEGY tidak dikenal: %q", cfg.Match.Strategy)
	}

	// 4. Simpan key JWT ke variable global sebagai byte slice
	JWT_KEY = []byte(os.Getenv("JWT_KEY"))

	return cfg, nil
}

// RequireJWTKey dipanggil oleh command yang membuka endpoint admin.
// Jika key kosong (kelupaan setting), aplikasi jangan jalan demi keamanan.
func RequireJWTKey() error {
	if len(JWT_KEY) == 0 {
		return ErrMissingJWTKey
	}
	return nil
}

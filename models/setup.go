package models

import (
	"fmt"
	"log/slog"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// ConnectDatabase membuka koneksi sesuai driver lalu migrasi tabel blobs.
func ConnectDatabase(driver, dsn string) (*gorm.DB, error) {
	// 1. Pilih dialector
	var dialector gorm.Dialector
	switch driver {
	case "mysql":
		dialector = mysql.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("driver database tidak didukung: %q", driver)
	}

	// 2. Konek ke Database
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("gagal terhubung ke database: %w", err)
	}

	// 3. Migrasi
	if err := db.AutoMigrate(&Blob{}); err != nil {
		return nil, fmt.Errorf("gagal migrasi tabel blobs: %w", err)
	}

	slog.Info("Koneksi database berhasil", "driver", driver)
	return db, nil
}

package storage

import (
	"context"
	"errors"
	"fmt"

	"SIABSEN/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore menyimpan blob di tabel blobs (mysql atau sqlite).
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (g *GormStore) SaveBlob(ctx context.Context, key string, blob []byte) error {
	row := models.Blob{Key: key, Value: blob}
	// Upsert: key yang sudah ada ditimpa seluruh isinya
	err := g.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "blob_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("gagal menyimpan blob %s: %w", key, err)
	}
	return nil
}

func (g *GormStore) LoadBlob(ctx context.Context, key string) ([]byte, error) {
	var row models.Blob
	err := g.db.WithContext(ctx).Where("blob_key = ?", key).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("gagal membaca blob %s: %w", key, err)
	}
	return row.Value, nil
}

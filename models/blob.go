package models

import (
	"time"
)

// Blob menyimpan satu dokumen JSON per key (descriptors, attendance).
type Blob struct {
	Key       string    `gorm:"column:blob_key;primaryKey;size:64" json:"key"`
	Value     []byte    `gorm:"type:longblob" json:"-"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Blob) TableName() string {
	return "blobs"
}

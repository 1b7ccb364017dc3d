package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// GenerationRecord is one completed generation. The request snapshot is kept
// so the archive can be rebuilt on demand.
type GenerationRecord struct {
	Id          string         `json:"id" gorm:"primaryKey;size:36"`
	ApiName     string         `json:"api_name" gorm:"size:128;index;not null"`
	TableName   string         `json:"table_name" gorm:"size:128;not null"`
	ApiVersion  string         `json:"api_version" gorm:"size:32;not null"`
	ModuleDir   string         `json:"module_dir" gorm:"size:255;index;not null"`
	HasCrud     bool           `json:"has_crud"`
	FieldCount  int            `json:"field_count"`
	Request     datatypes.JSON `json:"request" gorm:"not null"`
	ArchiveSize int64          `json:"archive_size"`
	CreatedAt   time.Time      `json:"created_at"`
}

func (rec *GenerationRecord) BeforeCreate(tx *gorm.DB) (err error) {
	if rec.Id == "" {
		rec.Id = uuid.NewString()
	}
	return
}

package database

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"apigen-backend/models"
)

var ErrGenerationNotFound = errors.New("generation not found")

// SaveGeneration stores a completed generation.
func SaveGeneration(db *gorm.DB, rec *models.GenerationRecord) error {
	if err := db.Create(rec).Error; err != nil {
		return fmt.Errorf("save generation: %w", err)
	}
	return nil
}

// ListGenerations returns one page of generations, newest first, and the
// total number of stored generations.
func ListGenerations(db *gorm.DB, limit, offset int) ([]models.GenerationRecord, int64, error) {
	var total int64
	if err := db.Model(&models.GenerationRecord{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count generations: %w", err)
	}

	var recs []models.GenerationRecord
	if err := db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&recs).Error; err != nil {
		return nil, 0, fmt.Errorf("list generations: %w", err)
	}
	return recs, total, nil
}

func FindGeneration(db *gorm.DB, id string) (*models.GenerationRecord, error) {
	var rec models.GenerationRecord
	if err := db.Where("id = ?", id).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGenerationNotFound
		}
		return nil, fmt.Errorf("find generation: %w", err)
	}
	return &rec, nil
}

package repository

import (
	"fmt"

	"gorm.io/gorm"

	"miniblog/internal/model"
)

type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Create(entry *model.ActivityLog) error {
	if err := r.db.Create(entry).Error; err != nil {
		return fmt.Errorf("create activity log failed: %w", err)
	}
	return nil
}

func (r *ActivityRepository) ListByPostID(postID uint) ([]model.ActivityLog, error) {
	var entries []model.ActivityLog
	if err := r.db.Where("post_id = ?", postID).Order("occurred_at ASC").Order("id ASC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list activity failed: %w", err)
	}
	return entries, nil
}

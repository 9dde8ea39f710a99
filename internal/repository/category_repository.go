package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"miniblog/internal/model"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) ListAll() ([]model.Category, error) {
	var categories []model.Category
	if err := r.db.Order("nombre ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("list categories failed: %w", err)
	}
	return categories, nil
}

// ListByIDs returns the categories whose id is in ids. Unknown ids are
// silently dropped.
func (r *CategoryRepository) ListByIDs(ids []uint) ([]model.Category, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var categories []model.Category
	if err := r.db.Where("id IN ?", ids).Order("nombre ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("list categories by ids failed: %w", err)
	}
	return categories, nil
}

func (r *CategoryRepository) GetByName(name string) (*model.Category, error) {
	var category model.Category
	if err := r.db.Where("nombre = ?", name).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query category by name failed: %w", err)
	}
	return &category, nil
}

func (r *CategoryRepository) Create(category *model.Category) error {
	if err := r.db.Create(category).Error; err != nil {
		if err = translate(err); errors.Is(err, ErrDuplicate) {
			return err
		}
		return fmt.Errorf("create category failed: %w", err)
	}
	return nil
}

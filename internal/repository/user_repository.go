package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"miniblog/internal/model"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts the account. A clash on username or email surfaces as ErrDuplicate.
func (r *UserRepository) Create(user *model.User) error {
	err := r.db.Create(user).Error
	switch {
	case err == nil:
		return nil
	case errors.Is(translate(err), ErrDuplicate):
		return ErrDuplicate
	default:
		return fmt.Errorf("insert user %q failed: %w", user.Username, err)
	}
}

// ExistsByUsernameOrEmail reports whether either identifier is already taken.
func (r *UserRepository) ExistsByUsernameOrEmail(username, email string) (bool, error) {
	var count int64
	if err := r.db.Model(&model.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("check user uniqueness failed: %w", err)
	}
	return count > 0, nil
}

func (r *UserRepository) GetByUsername(username string) (*model.User, error) {
	return r.findOne("username", r.db.Where("username = ?", username))
}

func (r *UserRepository) GetByID(id uint) (*model.User, error) {
	return r.findOne("id", r.db.Where("id = ?", id))
}

func (r *UserRepository) findOne(by string, query *gorm.DB) (*model.User, error) {
	var user model.User
	err := query.Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query user by %s failed: %w", by, err)
	}
	return &user, nil
}

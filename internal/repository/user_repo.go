package repository

import (
	"errors"

	"github.com/marketzone/marketzone-backend/internal/common"
	"github.com/marketzone/marketzone-backend/internal/domain"
	"gorm.io/gorm"
)

// UserRepository read-only user display lookup for the messaging core
type UserRepository interface {
	FindByID(userID string) (*domain.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// FindByID finds a user by ID
func (r *userRepository) FindByID(userID string) (*domain.User, error) {
	var user domain.User
	err := r.db.First(&user, "id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

package repository

import (
	"errors"

	"github.com/marketzone/marketzone-backend/internal/common"
	"github.com/marketzone/marketzone-backend/internal/domain"
	"gorm.io/gorm"
)

// AdRepository read-only ad lookup for the messaging core
type AdRepository interface {
	FindByID(adID int) (*domain.Ad, error)
}

type adRepository struct {
	db *gorm.DB
}

// NewAdRepository creates a new AdRepository
func NewAdRepository(db *gorm.DB) AdRepository {
	return &adRepository{db: db}
}

// FindByID finds an ad with its images
func (r *adRepository) FindByID(adID int) (*domain.Ad, error) {
	var ad domain.Ad
	err := r.db.
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("ad_images.id ASC")
		}).
		First(&ad, "id = ?", adID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrAdNotFound
		}
		return nil, err
	}
	return &ad, nil
}

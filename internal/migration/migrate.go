package migration

import (
	"github.com/marketzone/marketzone-backend/internal/domain"
	"gorm.io/gorm"
)

// Run applies schema migrations for the tables the messaging core owns.
// Ad and user tables belong to other services and are never migrated here.
func Run(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Message{},
		&domain.MessageImage{},
	)
}

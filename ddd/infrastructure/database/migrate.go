package database

import (
	"messaging-service/ddd/infrastructure/database/po"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// AutoMigrate creates or updates the tables owned by this service.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&po.Message{}, &po.Notification{}); err != nil {
		return errors.Wrap(err, "auto migrate messaging tables")
	}
	return nil
}

// AutoMigrateDirectory creates the users table. Production reads the table
// maintained by the identity service; this exists for local sqlite setups and tests.
func AutoMigrateDirectory(db *gorm.DB) error {
	if err := db.AutoMigrate(&po.User{}); err != nil {
		return errors.Wrap(err, "auto migrate users table")
	}
	return nil
}

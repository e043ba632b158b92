package db

import (
	"fmt"

	"github.com/learnloophq/learnloop-backend/internal/models"
	"gorm.io/gorm"
)

// Migrate creates or updates the schema for every application model.
func Migrate(conn *gorm.DB) error {
	if conn == nil {
		return fmt.Errorf("db: nil connection")
	}
	return conn.AutoMigrate(
		&models.User{},
		&models.Admin{},
		&models.PointTransaction{},
		&models.LeaderboardSnapshot{},
		&models.Reward{},
		&models.Redemption{},
		&models.Purchase{},
		&models.ShippingOrder{},
		&models.Course{},
		&models.Webinar{},
		&models.Career{},
	)
}

package db

import (
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"freelancehub/internal/models"
	"freelancehub/internal/utils"
)

func Connect(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{})
}

// Migrate creates or updates the full relational schema.
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Service{},
		&models.ServiceImage{},
		&models.Order{},
		&models.Review{},
		&models.Message{},
	)
}

// SeedAdmin makes sure at least one administrator account exists.
func SeedAdmin(gdb *gorm.DB, username, password string) error {
	var count int64
	if err := gdb.Model(&models.User{}).Where("is_admin = ?", true).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	admin := models.User{
		Username: username,
		Email:    "admin@freelancehub.local",
		Password: hash,
		Name:     "Administrator",
		IsAdmin:  true,
	}
	if err := gdb.Create(&admin).Error; err != nil {
		return err
	}
	log.Printf("seeded admin account %q", username)
	return nil
}

package database

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/mamosta-app/api/model"
	"github.com/mamosta-app/api/utils/auth"
	"gorm.io/gorm"
)

// RunSeeds seeds the admin account and, outside production, a small sample
// directory so the site is browsable immediately
func RunSeeds(db *gorm.DB) error {
	if err := seedAdminUser(db); err != nil {
		return err
	}

	if os.Getenv("GO_ENV") != "production" {
		if err := seedSampleDirectory(db); err != nil {
			return err
		}
	}

	return nil
}

// seedAdminUser creates the administrator from ADMIN_EMAIL / ADMIN_PASSWORD.
// Skipped when the variables are unset or the account already exists.
func seedAdminUser(db *gorm.DB) error {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")

	if email == "" || password == "" {
		log.Println("ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping admin user seed")
		return nil
	}

	var existing model.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		log.Printf("Admin user %s already exists, skipping", email)
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("check admin user: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	admin := model.User{
		Email:        email,
		PasswordHash: hash,
		Name:         "Administrator",
		Role:         "admin",
	}

	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}

	log.Printf("Created admin user %s", email)
	return nil
}

// seedSampleDirectory inserts a few schools and teachers for development
func seedSampleDirectory(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.School{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	schools := []model.School{
		{Name: "قوتابخانەی ئاراس", City: "هەولێر"},
		{Name: "قوتابخانەی زانست", City: "سلێمانی"},
		{Name: "قوتابخانەی ڕووناکی", City: "دهۆک"},
	}
	if err := db.Create(&schools).Error; err != nil {
		return fmt.Errorf("seed schools: %w", err)
	}

	teachers := []model.Teacher{
		{Name: "ئەحمەد محەمەد", Subject: "بیرکاری", SchoolID: &schools[0].ID},
		{Name: "ژیان کەریم", Subject: "ئینگلیزی", SchoolID: &schools[0].ID},
		{Name: "هێمن ڕەشید", Subject: "فیزیا", SchoolID: &schools[1].ID},
		{Name: "شیرین عەلی", Subject: "کیمیا", SchoolID: &schools[2].ID},
	}
	if err := db.Create(&teachers).Error; err != nil {
		return fmt.Errorf("seed teachers: %w", err)
	}

	log.Printf("Seeded %d schools and %d teachers", len(schools), len(teachers))
	return nil
}

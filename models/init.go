package models

import (
	"gorm.io/gorm"
	"golang.org/x/crypto/bcrypt"
)

// SeedDefaultAdmin makes sure at least one active admin account exists so the
// backoffice is reachable on a fresh database. Skipped when any admin is
// already present.
func SeedDefaultAdmin(db *gorm.DB, email, password string) error {
	if email == "" || password == "" {
		return nil
	}

	var count int64
	if err := db.Model(&User{}).Where("role = ?", RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := User{
		Email:        email,
		PasswordHash: string(hash),
		Name:         "Administrator",
		Role:         RoleAdmin,
		IsActive:     true,
	}
	return db.Create(&admin).Error
}

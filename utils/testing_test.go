package utils

import (
	"fmt"
	"testing"

	"estatedesk/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory database migrated with the full schema
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Property{},
		&models.PageView{},
		&models.Query{},
		&models.Lead{},
		&models.FollowUp{},
		&models.Notification{},
	))

	return db
}

func createTestLead(t *testing.T, db *gorm.DB, name string) *models.Lead {
	t.Helper()

	lead := &models.Lead{
		Name:   name,
		Email:  "lead@example.com",
		Phone:  "+12345678901",
		Source: models.LeadSourceManual,
	}
	require.NoError(t, db.Create(lead).Error)
	return lead
}

func createTestUser(t *testing.T, db *gorm.DB, email, role string, active bool) *models.User {
	t.Helper()

	user := &models.User{
		Email:        email,
		PasswordHash: "x",
		Name:         email,
		Role:         role,
		IsActive:     active,
	}
	require.NoError(t, db.Create(user).Error)
	if !active {
		// The column default is true, so a zero-value bool must be forced
		require.NoError(t, db.Model(user).Update("is_active", false).Error)
	}
	return user
}

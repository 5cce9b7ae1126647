package repository

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"bizdesk-api/internal/model"
	"bizdesk-api/internal/tenant"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	// every pooled connection would get its own in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(model.All()...))
	return db
}

func newCompany(t *testing.T, db *gorm.DB) tenant.Scope {
	t.Helper()
	c := &model.Company{Name: "Acme " + uuid.NewString()[:6]}
	require.NoError(t, db.Create(c).Error)
	return tenant.Scope{UserID: uuid.New(), CompanyID: c.ID}
}

package database

import (
	"testing"

	"backend_wrapshop/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db
}

func TestRunMigrations(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, RunMigrations(db))

	// Все версии записаны в журнал
	var applied int64
	require.NoError(t, db.Model(&SchemaMigration{}).Count(&applied).Error)
	assert.Equal(t, int64(len(migrations)), applied)

	// Схема рабочая
	require.NoError(t, db.Create(&models.Agent{Name: "Ahmed"}).Error)

	// Повторный запуск ничего не применяет заново
	require.NoError(t, RunMigrations(db))
	require.NoError(t, db.Model(&SchemaMigration{}).Count(&applied).Error)
	assert.Equal(t, int64(len(migrations)), applied)
}

func TestSeedDefaultAdmin(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, RunMigrations(db))

	require.NoError(t, SeedDefaultAdmin(db))
	require.NoError(t, SeedDefaultAdmin(db))

	var count int64
	require.NoError(t, db.Model(&models.Admin{}).Where("username = ?", "admin").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

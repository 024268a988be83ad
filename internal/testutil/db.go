package testutil

import (
	"path/filepath"
	"testing"

	"messaging-service/ddd/infrastructure/database"
	"messaging-service/ddd/infrastructure/database/po"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewTestDB opens a migrated sqlite database in a per-test temp dir.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	require.NoError(t, database.AutoMigrateDirectory(db))
	return db
}

// SeedUser inserts a user row and returns its id.
func SeedUser(t *testing.T, db *gorm.DB, name, role string, active bool) uint64 {
	t.Helper()
	u := &po.User{Name: name, Role: role, IsActive: true}
	require.NoError(t, db.Create(u).Error)
	if !active {
		// is_active has a column default, so a false value must be written explicitly
		require.NoError(t, db.Model(u).Update("is_active", false).Error)
	}
	return u.ID
}

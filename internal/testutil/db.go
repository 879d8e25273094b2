package testutil

import (
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"sinecarbon/internal/database"
)

// OpenTestDB opens a file-backed SQLite database in the test's temp dir and migrates
// every model. A single connection keeps transactions serialized the way a row lock would.
func OpenTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "sinecarbon.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(database.Models()...); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	return db
}

// TestDatabase wraps a test gorm handle in the service's database type, without caches.
func TestDatabase(t *testing.T) database.DB {
	t.Helper()
	return database.NewWithSQL(OpenTestDB(t))
}

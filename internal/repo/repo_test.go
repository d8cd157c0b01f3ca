package repo

import (
	"path/filepath"
	"testing"

	"gorm.io/gorm"
)

// newTestDB открывает SQLite (modernc.org/sqlite) во временном каталоге и прогоняет миграции.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := InitDB(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("failed to init sqlite (modernc): %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// Package testdb opens an isolated in-memory SQLite database with the application schema.
// Only tests import it.
package testdb

import (
	"fmt"
	"strings"
	"testing"

	"community-board/internal/repo/persistent"
	"community-board/pkg/database"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func New(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), database.GormConfig(nil))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := persistent.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

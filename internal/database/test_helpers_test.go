package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yishak-cs/coffees/internal/models"
)

// createTestDB opens a migrated SQLite database in a temp dir.
func createTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Open(Config{
		Driver:   DriverSQLite,
		DSN:      filepath.Join(t.TempDir(), "test.db"),
		LogLevel: "silent",
	})
	require.NoError(t, err)
	t.Cleanup(func() { Close(db) })
	require.NoError(t, Migrate(db))
	return db
}

// createTestCoffee saves a coffee with the given flavor names.
func createTestCoffee(t *testing.T, db *gorm.DB, title string, flavors ...string) *models.Coffee {
	t.Helper()
	coffee := &models.Coffee{Title: title, Brand: "Buddy Brew"}
	for _, name := range flavors {
		coffee.Flavors = append(coffee.Flavors, models.Flavor{Name: name})
	}
	require.NoError(t, db.Create(coffee).Error)
	return coffee
}

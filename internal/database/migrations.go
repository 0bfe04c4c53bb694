package database

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/yishak-cs/coffees/internal/models"
)

// Migration is a reversible schema change applied before the models are
// auto-migrated
type Migration struct {
	Version int
	Name    string
	Up      func(*gorm.DB) error
	Down    func(*gorm.DB) error
}

// Migrations lists every schema migration in version order
var Migrations = []Migration{
	{
		Version: 1,
		Name:    "coffee_refactor",
		Up:      renameCoffeeColumn("name", "title"),
		Down:    renameCoffeeColumn("title", "name"),
	},
}

// Migrate applies pending migrations and then brings the tables in line
// with the models
func Migrate(db *gorm.DB) error {
	log.Println("Starting schema migration...")

	if err := db.AutoMigrate(&models.SchemaMigration{}); err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	current, err := CurrentVersion(db)
	if err != nil {
		return err
	}

	for _, m := range Migrations {
		if m.Version <= current {
			continue
		}
		log.Printf("Applying migration %d_%s...", m.Version, m.Name)
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := m.Up(tx); err != nil {
				return err
			}
			return tx.Create(&models.SchemaMigration{Version: m.Version, Name: m.Name}).Error
		})
		if err != nil {
			return fmt.Errorf("failed to apply migration %d_%s: %w", m.Version, m.Name, err)
		}
	}

	if err := db.AutoMigrate(&models.Coffee{}, &models.Flavor{}, &models.Event{}); err != nil {
		return fmt.Errorf("failed to migrate models: %w", err)
	}

	log.Println("Schema migration completed successfully")
	return nil
}

// MigrateDown reverts applied migrations newer than target
func MigrateDown(db *gorm.DB, target int) error {
	if err := db.AutoMigrate(&models.SchemaMigration{}); err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	current, err := CurrentVersion(db)
	if err != nil {
		return err
	}

	for i := len(Migrations) - 1; i >= 0; i-- {
		m := Migrations[i]
		if m.Version <= target || m.Version > current {
			continue
		}
		log.Printf("Reverting migration %d_%s...", m.Version, m.Name)
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := m.Down(tx); err != nil {
				return err
			}
			return tx.Delete(&models.SchemaMigration{}, m.Version).Error
		})
		if err != nil {
			return fmt.Errorf("failed to revert migration %d_%s: %w", m.Version, m.Name, err)
		}
	}
	return nil
}

// CurrentVersion returns the highest applied migration version
func CurrentVersion(db *gorm.DB) (int, error) {
	var version int
	err := db.Model(&models.SchemaMigration{}).Select("COALESCE(MAX(version), 0)").Scan(&version).Error
	if err != nil {
		return 0, fmt.Errorf("failed to get current schema version: %w", err)
	}
	return version, nil
}

// renameCoffeeColumn renames a column of an existing coffees table. Fresh
// databases have no table yet and are left to AutoMigrate.
func renameCoffeeColumn(from, to string) func(*gorm.DB) error {
	return func(tx *gorm.DB) error {
		m := tx.Migrator()
		if !m.HasTable(&models.Coffee{}) {
			return nil
		}
		if !m.HasColumn(&models.Coffee{}, from) || m.HasColumn(&models.Coffee{}, to) {
			return nil
		}
		return m.RenameColumn(&models.Coffee{}, from, to)
	}
}

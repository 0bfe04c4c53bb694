package helper

import (
	"os"
	"strings"

	"github.com/yishak-cs/coffees/internal/database"
	"github.com/yishak-cs/coffees/internal/services"
)

// Config is the full application configuration
type Config struct {
	Port     string
	SeedFile string
	Database database.Config
	Neo4j    database.Neo4jConfig
	Catalog  services.CatalogConfig
}

// LoadConfigFromEnv loads the application configuration from environment variables
func LoadConfigFromEnv() Config {
	return Config{
		Port:     getEnvOrDefault("APP_PORT", "8080"),
		SeedFile: getEnvOrDefault("SEED_FILE", ""),
		Database: database.Config{
			Driver:   getEnvOrDefault("DB_DRIVER", database.DriverSQLite),
			DSN:      getEnvOrDefault("DB_DSN", "coffees.db"),
			LogLevel: getEnvOrDefault("DB_LOG_LEVEL", "warn"),
		},
		Neo4j: database.Neo4jConfig{
			URI:      getEnvOrDefault("NEO4J_URI", ""),
			Username: getEnvOrDefault("NEO4J_USERNAME", "neo4j"),
			Password: getEnvOrDefault("NEO4J_PASSWORD", ""),
			Database: getEnvOrDefault("NEO4J_DATABASE", "neo4j"),
		},
		Catalog: services.CatalogConfig{
			Brands: splitList(getEnvOrDefault("COFFEE_BRANDS", "buddy brew,nescafe")),
			Foo:    getEnvOrDefault("COFFEES_FOO", "bar"),
		},
	}
}

// getEnvOrDefault returns environment variable value or default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// splitList splits a comma separated value, dropping blank entries
func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

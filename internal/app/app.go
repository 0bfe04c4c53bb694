// Package app wires the stores and services shared by the server and the CLI.
package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/yishak-cs/coffees/internal/database"
	"github.com/yishak-cs/coffees/internal/models"
	"github.com/yishak-cs/coffees/internal/services"
	"github.com/yishak-cs/coffees/pkg/helper"
)

// App holds the wired application
type App struct {
	DB              *gorm.DB
	Graph           *database.Neo4jClient
	Coffees         *services.CoffeeService
	Recommendations *services.RecommendationService
	Similarity      *services.SimilarityService
	Importer        *services.CatalogImporter
}

// New opens the stores and builds the services. The schema is migrated
// unless skipMigrate is set.
func New(config helper.Config, skipMigrate bool) (*App, error) {
	db, err := database.Open(config.Database)
	if err != nil {
		return nil, err
	}
	if !skipMigrate {
		if err := database.Migrate(db); err != nil {
			database.Close(db)
			return nil, err
		}
	}

	a := &App{DB: db}

	var projector services.CatalogProjector
	var graph services.GraphClient
	if config.Neo4j.Enabled() {
		client, err := database.NewNeo4jClient(config.Neo4j)
		if err != nil {
			database.Close(db)
			return nil, fmt.Errorf("failed to connect to Neo4j: %w", err)
		}
		a.Graph = client
		graph = client
		projector = services.NewGraphProjector(client)
	} else {
		log.Println("NEO4J_URI not set, graph projection disabled")
	}

	flavors := services.NewFlavorResolver(database.NewRepository[models.Flavor](db))
	a.Coffees = services.NewCoffeeService(database.NewRepository[models.Coffee](db), flavors, projector, config.Catalog)
	a.Recommendations = services.NewRecommendationService(database.NewQueryRunnerFactory(db), projector)
	a.Similarity = services.NewSimilarityService(graph)
	a.Importer = services.NewCatalogImporter(a.Coffees)

	return a, nil
}

// Close releases the database and graph connections
func (a *App) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if a.Graph != nil {
		if err := a.Graph.Close(ctx); err != nil {
			log.Printf("Error closing Neo4j connection: %v", err)
		}
	}
	if err := database.Close(a.DB); err != nil {
		log.Printf("Error closing database connection: %v", err)
	}
}

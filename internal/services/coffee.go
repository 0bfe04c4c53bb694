package services

import (
	"context"
	"fmt"
	"log"

	"gorm.io/gorm/clause"

	"github.com/yishak-cs/coffees/internal/database"
	"github.com/yishak-cs/coffees/internal/models"
)

// CoffeeStore is the part of the coffee repository the catalog needs
type CoffeeStore interface {
	Find(ctx context.Context, filter map[string]any, opts database.FindOptions) ([]models.Coffee, error)
	FindByID(ctx context.Context, id uint, relations ...string) (*models.Coffee, error)
	Create(shape models.Coffee) *models.Coffee
	Save(ctx context.Context, entity *models.Coffee, replace ...string) error
	Remove(ctx context.Context, entity *models.Coffee) (*models.Coffee, error)
	Preload(ctx context.Context, id uint, patch func(*models.Coffee)) (*models.Coffee, error)
}

// CatalogConfig is passed to the catalog at construction. None of the
// catalog operations read it.
type CatalogConfig struct {
	Brands []string
	Foo    string
}

// CoffeeService handles the coffees catalog
type CoffeeService struct {
	coffees   CoffeeStore
	flavors   *FlavorResolver
	projector CatalogProjector
	config    CatalogConfig
}

// NewCoffeeService creates a new coffee service. A nil projector disables
// the graph projection.
func NewCoffeeService(coffees CoffeeStore, flavors *FlavorResolver, projector CatalogProjector, config CatalogConfig) *CoffeeService {
	if projector == nil {
		projector = NopProjector{}
	}
	log.Println("CoffeeService instantiated")
	return &CoffeeService{
		coffees:   coffees,
		flavors:   flavors,
		projector: projector,
		config:    config,
	}
}

// Config returns the configuration the service was built with
func (s *CoffeeService) Config() CatalogConfig {
	return s.config
}

// List returns a page of coffees with their flavors
func (s *CoffeeService) List(ctx context.Context, query models.PaginationQuery) ([]models.Coffee, error) {
	opts := database.FindOptions{Relations: []string{"Flavors"}}
	if query.Offset != nil {
		opts.Skip = *query.Offset
	}
	if query.Limit != nil {
		opts.Take = *query.Limit
	}

	coffees, err := s.coffees.Find(ctx, nil, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list coffees: %w", err)
	}
	return coffees, nil
}

// Get returns the coffee with its flavors
func (s *CoffeeService) Get(ctx context.Context, id uint) (*models.Coffee, error) {
	coffee, err := s.coffees.FindByID(ctx, id, "Flavors")
	if err != nil {
		return nil, fmt.Errorf("failed to get coffee %d: %w", id, err)
	}
	if coffee == nil {
		return nil, &NotFoundError{ID: id}
	}
	return coffee, nil
}

// Create stores a new coffee, reusing flavors that already exist by name
func (s *CoffeeService) Create(ctx context.Context, input models.CreateCoffeeInput) (*models.Coffee, error) {
	flavors, err := s.flavors.ResolveAll(ctx, input.Flavors)
	if err != nil {
		return nil, fmt.Errorf("failed to create coffee: %w", err)
	}

	coffee := s.coffees.Create(models.Coffee{
		Title:           input.Title,
		Brand:           input.Brand,
		Recommendations: 0,
		Flavors:         flavors,
	})
	if err := s.coffees.Save(ctx, coffee); err != nil {
		return nil, fmt.Errorf("failed to create coffee: %w", err)
	}

	s.project(ctx, coffee)
	return coffee, nil
}

// Update merges the supplied fields onto an existing coffee. Supplied
// flavors replace the coffee's flavors, omitted fields stay unchanged.
func (s *CoffeeService) Update(ctx context.Context, id uint, input models.UpdateCoffeeInput) (*models.Coffee, error) {
	var flavors []models.Flavor
	if input.Flavors != nil {
		resolved, err := s.flavors.ResolveAll(ctx, input.Flavors)
		if err != nil {
			return nil, fmt.Errorf("failed to update coffee %d: %w", id, err)
		}
		flavors = resolved
	}

	coffee, err := s.coffees.Preload(ctx, id, func(c *models.Coffee) {
		if input.Title != nil {
			c.Title = *input.Title
		}
		if input.Brand != nil {
			c.Brand = *input.Brand
		}
		if flavors != nil {
			c.Flavors = flavors
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update coffee %d: %w", id, err)
	}
	if coffee == nil {
		return nil, &NotFoundError{ID: id}
	}

	var replace []string
	if flavors != nil {
		replace = append(replace, "Flavors")
	}
	if err := s.coffees.Save(ctx, coffee, replace...); err != nil {
		return nil, fmt.Errorf("failed to update coffee %d: %w", id, err)
	}

	s.project(ctx, coffee)
	return coffee, nil
}

// Remove deletes a coffee and returns what was removed
func (s *CoffeeService) Remove(ctx context.Context, id uint) (*models.Coffee, error) {
	coffee, err := s.coffees.FindByID(ctx, id, clause.Associations)
	if err != nil {
		return nil, fmt.Errorf("failed to remove coffee %d: %w", id, err)
	}
	if coffee == nil {
		return nil, &NotFoundError{ID: id}
	}

	removed, err := s.coffees.Remove(ctx, coffee)
	if err != nil {
		return nil, fmt.Errorf("failed to remove coffee %d: %w", id, err)
	}

	if err := s.projector.RemoveCoffee(ctx, id); err != nil {
		log.Printf("Warning: Failed to remove coffee %d from graph: %v", id, err)
	}
	return removed, nil
}

func (s *CoffeeService) project(ctx context.Context, coffee *models.Coffee) {
	if err := s.projector.ProjectCoffee(ctx, *coffee); err != nil {
		log.Printf("Warning: Failed to project coffee %d to graph: %v", coffee.ID, err)
	}
}

package services

import (
	"context"
	"fmt"

	"github.com/yishak-cs/coffees/internal/models"
)

// FlavorStore is the part of the flavor repository the resolver needs
type FlavorStore interface {
	FindOne(ctx context.Context, filter map[string]any, relations ...string) (*models.Flavor, error)
	Create(shape models.Flavor) *models.Flavor
}

// FlavorResolver maps flavor names to stored or new flavors
type FlavorResolver struct {
	flavors FlavorStore
}

// NewFlavorResolver creates a new flavor resolver
func NewFlavorResolver(flavors FlavorStore) *FlavorResolver {
	return &FlavorResolver{flavors: flavors}
}

// Resolve returns the stored flavor with this exact name, or a new
// unsaved one that is inserted when its coffee is saved
func (r *FlavorResolver) Resolve(ctx context.Context, name string) (models.Flavor, error) {
	existing, err := r.flavors.FindOne(ctx, map[string]any{"name": name})
	if err != nil {
		return models.Flavor{}, fmt.Errorf("failed to look up flavor %q: %w", name, err)
	}
	if existing != nil {
		return *existing, nil
	}
	return *r.flavors.Create(models.Flavor{Name: name}), nil
}

// ResolveAll resolves names in order, once per distinct name
func (r *FlavorResolver) ResolveAll(ctx context.Context, names []string) ([]models.Flavor, error) {
	flavors := make([]models.Flavor, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true

		flavor, err := r.Resolve(ctx, name)
		if err != nil {
			return nil, err
		}
		flavors = append(flavors, flavor)
	}
	return flavors, nil
}

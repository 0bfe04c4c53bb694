package services

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yishak-cs/coffees/internal/database"
	"github.com/yishak-cs/coffees/internal/models"
)

// newTestDB opens a migrated SQLite database in a temp dir.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(database.Config{
		Driver:   database.DriverSQLite,
		DSN:      filepath.Join(t.TempDir(), "test.db"),
		LogLevel: "silent",
	})
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })
	require.NoError(t, database.Migrate(db))
	return db
}

// newTestCatalog builds a coffee service over db
func newTestCatalog(db *gorm.DB, projector CatalogProjector) *CoffeeService {
	flavors := NewFlavorResolver(database.NewRepository[models.Flavor](db))
	return NewCoffeeService(database.NewRepository[models.Coffee](db), flavors, projector, CatalogConfig{})
}

// fakeGraph records writes and serves canned reads
type fakeGraph struct {
	mu       sync.Mutex
	writes   []graphCall
	reads    []graphCall
	rows     []map[string]any
	writeErr error
	readErr  error
}

type graphCall struct {
	query  string
	params map[string]any
}

func (g *fakeGraph) ExecuteWrite(_ context.Context, query string, params map[string]any) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.writes = append(g.writes, graphCall{query: query, params: params})
	return g.writeErr
}

func (g *fakeGraph) ExecuteRead(_ context.Context, query string, params map[string]any) ([]map[string]any, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.reads = append(g.reads, graphCall{query: query, params: params})
	return g.rows, g.readErr
}

// recordingProjector keeps every projected change
type recordingProjector struct {
	coffees []models.Coffee
	removed []uint
	events  []models.Event
	err     error
}

func (p *recordingProjector) ProjectCoffee(_ context.Context, coffee models.Coffee) error {
	p.coffees = append(p.coffees, coffee)
	return p.err
}

func (p *recordingProjector) RemoveCoffee(_ context.Context, id uint) error {
	p.removed = append(p.removed, id)
	return p.err
}

func (p *recordingProjector) ProjectEvent(_ context.Context, event models.Event) error {
	p.events = append(p.events, event)
	return p.err
}

func strPtr(s string) *string { return &s }

func intPtr(n int) *int { return &n }

func flavorNames(coffee *models.Coffee) []string {
	names := make([]string, 0, len(coffee.Flavors))
	for _, flavor := range coffee.Flavors {
		names = append(names, flavor.Name)
	}
	return names
}

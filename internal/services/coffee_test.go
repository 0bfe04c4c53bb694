package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yishak-cs/coffees/internal/models"
)

func TestCoffeeService_CreateReusesFlavorsByName(t *testing.T) {
	db := newTestDB(t)
	catalog := newTestCatalog(db, nil)
	ctx := context.Background()

	first, err := catalog.Create(ctx, models.CreateCoffeeInput{Title: "A", Brand: "B", Flavors: []string{"Spicy", "Sweet"}})
	require.NoError(t, err)
	assert.NotZero(t, first.ID)
	assert.Zero(t, first.Recommendations)

	second, err := catalog.Create(ctx, models.CreateCoffeeInput{Title: "C", Brand: "D", Flavors: []string{"Spicy", "Bitter"}})
	require.NoError(t, err)

	var flavors int64
	require.NoError(t, db.Model(&models.Flavor{}).Count(&flavors).Error)
	assert.Equal(t, int64(3), flavors)

	require.Len(t, second.Flavors, 2)
	assert.Equal(t, first.Flavors[0].ID, second.Flavors[0].ID, "Spicy is shared")
	assert.NotZero(t, second.Flavors[1].ID)

	stored, err := catalog.Get(ctx, second.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Spicy", "Bitter"}, flavorNames(stored))
}

func TestCoffeeService_CreateWithoutFlavors(t *testing.T) {
	db := newTestDB(t)
	catalog := newTestCatalog(db, nil)
	ctx := context.Background()

	coffee, err := catalog.Create(ctx, models.CreateCoffeeInput{Title: "Plain", Brand: "B", Flavors: []string{}})
	require.NoError(t, err)

	stored, err := catalog.Get(ctx, coffee.ID)
	require.NoError(t, err)
	assert.Equal(t, "Plain", stored.Title)
	assert.Empty(t, stored.Flavors)
}

func TestCoffeeService_CreateDedupesFlavorNames(t *testing.T) {
	db := newTestDB(t)
	catalog := newTestCatalog(db, nil)

	coffee, err := catalog.Create(context.Background(), models.CreateCoffeeInput{Title: "A", Brand: "B", Flavors: []string{"Sweet", "Sweet"}})
	require.NoError(t, err)
	assert.Len(t, coffee.Flavors, 1)

	var flavors int64
	require.NoError(t, db.Model(&models.Flavor{}).Count(&flavors).Error)
	assert.Equal(t, int64(1), flavors)
}

func TestCoffeeService_GetMissing(t *testing.T) {
	catalog := newTestCatalog(newTestDB(t), nil)

	_, err := catalog.Get(context.Background(), 99)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "Coffee #99 not found", err.Error())

	var notFound *NotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, uint(99), notFound.ID)
}

func TestCoffeeService_ListPages(t *testing.T) {
	catalog := newTestCatalog(newTestDB(t), nil)
	ctx := context.Background()
	for _, title := range []string{"a", "b", "c"} {
		_, err := catalog.Create(ctx, models.CreateCoffeeInput{Title: title, Brand: "B", Flavors: []string{"Sweet"}})
		require.NoError(t, err)
	}

	all, err := catalog.List(ctx, models.PaginationQuery{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	for _, coffee := range all {
		assert.Len(t, coffee.Flavors, 1)
	}

	page, err := catalog.List(ctx, models.PaginationQuery{Offset: intPtr(1), Limit: intPtr(1)})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "b", page[0].Title)

	empty, err := catalog.List(ctx, models.PaginationQuery{Offset: intPtr(10)})
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestCoffeeService_UpdateTitleKeepsFlavors(t *testing.T) {
	catalog := newTestCatalog(newTestDB(t), nil)
	ctx := context.Background()

	created, err := catalog.Create(ctx, models.CreateCoffeeInput{Title: "Old", Brand: "B", Flavors: []string{"Spicy", "Sweet"}})
	require.NoError(t, err)

	updated, err := catalog.Update(ctx, created.ID, models.UpdateCoffeeInput{Title: strPtr("New")})
	require.NoError(t, err)
	assert.Equal(t, "New", updated.Title)
	assert.Equal(t, "B", updated.Brand)

	stored, err := catalog.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "New", stored.Title)
	assert.ElementsMatch(t, []string{"Spicy", "Sweet"}, flavorNames(stored))
}

func TestCoffeeService_UpdateReplacesFlavors(t *testing.T) {
	db := newTestDB(t)
	catalog := newTestCatalog(db, nil)
	ctx := context.Background()

	created, err := catalog.Create(ctx, models.CreateCoffeeInput{Title: "A", Brand: "B", Flavors: []string{"Spicy", "Sweet"}})
	require.NoError(t, err)

	_, err = catalog.Update(ctx, created.ID, models.UpdateCoffeeInput{Flavors: []string{"Sweet", "Bitter"}})
	require.NoError(t, err)

	stored, err := catalog.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Sweet", "Bitter"}, flavorNames(stored))

	var flavors int64
	require.NoError(t, db.Model(&models.Flavor{}).Count(&flavors).Error)
	assert.Equal(t, int64(3), flavors, "dropped flavors stay in the store")
}

func TestCoffeeService_UpdateWithEmptyFlavorsClearsThem(t *testing.T) {
	catalog := newTestCatalog(newTestDB(t), nil)
	ctx := context.Background()

	created, err := catalog.Create(ctx, models.CreateCoffeeInput{Title: "A", Brand: "B", Flavors: []string{"Spicy"}})
	require.NoError(t, err)

	_, err = catalog.Update(ctx, created.ID, models.UpdateCoffeeInput{Flavors: []string{}})
	require.NoError(t, err)

	stored, err := catalog.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Flavors)
}

func TestCoffeeService_UpdateMissing(t *testing.T) {
	catalog := newTestCatalog(newTestDB(t), nil)

	_, err := catalog.Update(context.Background(), 7, models.UpdateCoffeeInput{Title: strPtr("x")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCoffeeService_RemoveThenGet(t *testing.T) {
	db := newTestDB(t)
	projector := &recordingProjector{}
	catalog := newTestCatalog(db, projector)
	ctx := context.Background()

	created, err := catalog.Create(ctx, models.CreateCoffeeInput{Title: "A", Brand: "B", Flavors: []string{"Spicy"}})
	require.NoError(t, err)

	removed, err := catalog.Remove(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, removed.ID)
	assert.Equal(t, "A", removed.Title)

	_, err = catalog.Get(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = catalog.Remove(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	var flavors, links int64
	require.NoError(t, db.Model(&models.Flavor{}).Count(&flavors).Error)
	require.NoError(t, db.Table("coffee_flavors").Count(&links).Error)
	assert.Equal(t, int64(1), flavors)
	assert.Zero(t, links)

	assert.Equal(t, []uint{created.ID}, projector.removed)
}

func TestCoffeeService_ProjectsWritesAndIgnoresProjectionFailures(t *testing.T) {
	projector := &recordingProjector{err: errors.New("graph down")}
	catalog := newTestCatalog(newTestDB(t), projector)
	ctx := context.Background()

	created, err := catalog.Create(ctx, models.CreateCoffeeInput{Title: "A", Brand: "B", Flavors: []string{"Spicy"}})
	require.NoError(t, err)
	_, err = catalog.Update(ctx, created.ID, models.UpdateCoffeeInput{Brand: strPtr("C")})
	require.NoError(t, err)

	require.Len(t, projector.coffees, 2)
	assert.Equal(t, "B", projector.coffees[0].Brand)
	assert.Equal(t, "C", projector.coffees[1].Brand)
	assert.Equal(t, []string{"Spicy"}, flavorNames(&projector.coffees[1]))
}

func TestCoffeeService_ConfigIsKept(t *testing.T) {
	config := CatalogConfig{Brands: []string{"buddy brew", "nescafe"}, Foo: "bar"}
	catalog := NewCoffeeService(nil, nil, nil, config)
	assert.Equal(t, config, catalog.Config())
}

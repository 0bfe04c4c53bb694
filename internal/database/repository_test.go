package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yishak-cs/coffees/internal/models"
)

func TestRepository_FindPagesInIDOrder(t *testing.T) {
	db := createTestDB(t)
	for _, title := range []string{"a", "b", "c", "d", "e"} {
		createTestCoffee(t, db, title, "Sweet")
	}
	repo := NewRepository[models.Coffee](db)

	page, err := repo.Find(context.Background(), nil, FindOptions{Relations: []string{"Flavors"}, Skip: 1, Take: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "b", page[0].Title)
	assert.Equal(t, "c", page[1].Title)
	for _, coffee := range page {
		require.Len(t, coffee.Flavors, 1)
		assert.Equal(t, "Sweet", coffee.Flavors[0].Name)
	}

	all, err := repo.Find(context.Background(), nil, FindOptions{})
	require.NoError(t, err)
	assert.Len(t, all, 5)
	assert.Empty(t, all[0].Flavors, "relations are only loaded when asked for")
}

func TestRepository_FindEmptyReturnsEmptySlice(t *testing.T) {
	db := createTestDB(t)
	repo := NewRepository[models.Coffee](db)

	coffees, err := repo.Find(context.Background(), nil, FindOptions{})
	require.NoError(t, err)
	assert.NotNil(t, coffees)
	assert.Empty(t, coffees)
}

func TestRepository_FindOneAndFindByIDReturnNilWhenMissing(t *testing.T) {
	db := createTestDB(t)
	flavors := NewRepository[models.Flavor](db)
	coffees := NewRepository[models.Coffee](db)

	flavor, err := flavors.FindOne(context.Background(), map[string]any{"name": "Umami"})
	require.NoError(t, err)
	assert.Nil(t, flavor)

	coffee, err := coffees.FindByID(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, coffee)
}

func TestRepository_FindOneByName(t *testing.T) {
	db := createTestDB(t)
	createTestCoffee(t, db, "Roast", "Spicy", "Sweet")
	flavors := NewRepository[models.Flavor](db)

	flavor, err := flavors.FindOne(context.Background(), map[string]any{"name": "Sweet"})
	require.NoError(t, err)
	require.NotNil(t, flavor)
	assert.Equal(t, "Sweet", flavor.Name)
	assert.NotZero(t, flavor.ID)
}

func TestRepository_CreateDoesNotPersist(t *testing.T) {
	db := createTestDB(t)
	repo := NewRepository[models.Flavor](db)

	flavor := repo.Create(models.Flavor{Name: "Bitter"})
	assert.Equal(t, "Bitter", flavor.Name)
	assert.Zero(t, flavor.ID)

	var count int64
	require.NoError(t, db.Model(&models.Flavor{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRepository_SaveCascadesNewFlavors(t *testing.T) {
	db := createTestDB(t)
	existing := createTestCoffee(t, db, "First", "Spicy")
	repo := NewRepository[models.Coffee](db)

	coffee := repo.Create(models.Coffee{
		Title:   "Second",
		Brand:   "Nescafe",
		Flavors: []models.Flavor{existing.Flavors[0], {Name: "Bitter"}},
	})
	require.NoError(t, repo.Save(context.Background(), coffee))
	assert.NotZero(t, coffee.ID)

	var flavorCount int64
	require.NoError(t, db.Model(&models.Flavor{}).Count(&flavorCount).Error)
	assert.Equal(t, int64(2), flavorCount)

	loaded, err := repo.FindByID(context.Background(), coffee.ID, "Flavors")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Len(t, loaded.Flavors, 2)
}

func TestRepository_SaveReplacesNamedAssociations(t *testing.T) {
	db := createTestDB(t)
	coffee := createTestCoffee(t, db, "Roast", "Spicy", "Sweet")
	repo := NewRepository[models.Coffee](db)

	coffee.Flavors = []models.Flavor{{Name: "Bitter"}}
	require.NoError(t, repo.Save(context.Background(), coffee, "Flavors"))

	loaded, err := repo.FindByID(context.Background(), coffee.ID, "Flavors")
	require.NoError(t, err)
	require.Len(t, loaded.Flavors, 1)
	assert.Equal(t, "Bitter", loaded.Flavors[0].Name)

	var flavorCount int64
	require.NoError(t, db.Model(&models.Flavor{}).Count(&flavorCount).Error)
	assert.Equal(t, int64(3), flavorCount, "dropped flavors stay in the flavors table")
}

func TestRepository_SaveRejectsUnknownAssociation(t *testing.T) {
	db := createTestDB(t)
	coffee := createTestCoffee(t, db, "Roast")
	repo := NewRepository[models.Coffee](db)

	err := repo.Save(context.Background(), coffee, "Roasters")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Roasters")
}

func TestRepository_RemoveDeletesJoinRowsButKeepsFlavors(t *testing.T) {
	db := createTestDB(t)
	coffee := createTestCoffee(t, db, "Roast", "Spicy")
	repo := NewRepository[models.Coffee](db)

	removed, err := repo.Remove(context.Background(), coffee)
	require.NoError(t, err)
	assert.Equal(t, "Roast", removed.Title)
	assert.Len(t, removed.Flavors, 1)

	found, err := repo.FindByID(context.Background(), coffee.ID)
	require.NoError(t, err)
	assert.Nil(t, found)

	var joins, flavors int64
	require.NoError(t, db.Table("coffee_flavors").Count(&joins).Error)
	require.NoError(t, db.Model(&models.Flavor{}).Count(&flavors).Error)
	assert.Zero(t, joins)
	assert.Equal(t, int64(1), flavors)
}

func TestRepository_PreloadMergesOntoExisting(t *testing.T) {
	db := createTestDB(t)
	coffee := createTestCoffee(t, db, "Old", "Spicy")
	repo := NewRepository[models.Coffee](db)

	merged, err := repo.Preload(context.Background(), coffee.ID, func(c *models.Coffee) {
		c.Title = "New"
	})
	require.NoError(t, err)
	require.NotNil(t, merged)
	assert.Equal(t, "New", merged.Title)
	assert.Equal(t, "Buddy Brew", merged.Brand)
	require.Len(t, merged.Flavors, 1)

	stored, err := repo.FindByID(context.Background(), coffee.ID)
	require.NoError(t, err)
	assert.Equal(t, "Old", stored.Title, "preload only merges in memory")
}

func TestRepository_PreloadUnknownIDReturnsNil(t *testing.T) {
	db := createTestDB(t)
	repo := NewRepository[models.Coffee](db)

	called := false
	merged, err := repo.Preload(context.Background(), 99, func(*models.Coffee) { called = true })
	require.NoError(t, err)
	assert.Nil(t, merged)
	assert.False(t, called)
}

package catalog_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"foodbooking/internal/catalog"
	"foodbooking/internal/models"
)

func setupCatalogDB(t *testing.T) *catalog.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, "file::memory:?cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqldb.Close() })

	bunDB := bun.NewDB(sqldb, sqlitedialect.New())
	ctx := context.Background()
	for _, model := range []interface{}{
		(*models.Restaurant)(nil),
		(*models.Category)(nil),
		(*models.Dish)(nil),
	} {
		require.NoError(t, bunDB.ResetModel(ctx, model))
	}

	return &catalog.DB{Bun: bunDB}
}

func price(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// seedCatalog loads two active restaurants, one inactive one, and a
// spread of dishes covering every filter dimension.
func seedCatalog(t *testing.T, db *catalog.DB) {
	t.Helper()
	ctx := context.Background()

	restaurants := []models.Restaurant{
		{Name: "Spice Garden", IsActive: true},
		{Name: "Dosa Junction", IsActive: true},
		{Name: "Closed Corner", IsActive: false},
	}
	_, err := db.Bun.NewInsert().Model(&restaurants).Exec(ctx)
	require.NoError(t, err)

	categories := []models.Category{{Name: "Mains"}, {Name: "Starters"}}
	_, err = db.Bun.NewInsert().Model(&categories).Exec(ctx)
	require.NoError(t, err)

	mains, starters := categories[0].ID, categories[1].ID
	dishes := []models.Dish{
		{RestaurantID: restaurants[0].ID, CategoryID: &mains, Name: "Butter Chicken", Description: "tomato gravy", Price: price("320.00"), IsVeg: false, IsAvailable: true, Rating: price("4.6")},
		{RestaurantID: restaurants[0].ID, CategoryID: &starters, Name: "Paneer Tikka", Description: "grilled paneer", Price: price("180.00"), IsVeg: true, IsAvailable: true, Rating: price("4.3")},
		{RestaurantID: restaurants[0].ID, CategoryID: &mains, Name: "Royal Thali", Description: "festive platter", Price: price("450.00"), IsVeg: true, IsAvailable: true, Rating: price("3.8")},
		{RestaurantID: restaurants[0].ID, Name: "Secret Special", Description: "off the menu", Price: price("250.00"), IsVeg: true, IsAvailable: false, Rating: price("5.0")},
		{RestaurantID: restaurants[1].ID, CategoryID: &mains, Name: "Masala Dosa", Description: "potato filling", Price: price("120.00"), IsVeg: true, IsAvailable: true, Rating: price("4.5")},
		{RestaurantID: restaurants[1].ID, Name: "Boundary Bowl", Description: "exactly two hundred", Price: price("200.00"), IsVeg: true, IsAvailable: true, Rating: price("4.0")},
		{RestaurantID: restaurants[1].ID, Name: "Upper Bound", Description: "exactly four hundred", Price: price("400.00"), IsVeg: false, IsAvailable: true, Rating: price("4.1")},
		{RestaurantID: restaurants[2].ID, Name: "Ghost Dish", Description: "inactive restaurant", Price: price("90.00"), IsVeg: true, IsAvailable: true, Rating: price("4.9")},
	}
	_, err = db.Bun.NewInsert().Model(&dishes).Exec(ctx)
	require.NoError(t, err)
}

func dishNames(dishes []models.Dish) []string {
	names := make([]string, 0, len(dishes))
	for _, d := range dishes {
		names = append(names, d.Name)
	}
	return names
}

func TestSearchExcludesUnavailableAndInactive(t *testing.T) {
	db := setupCatalogDB(t)
	seedCatalog(t, db)

	dishes, err := db.SearchDishes(context.Background(), catalog.Filter{})
	require.NoError(t, err)

	names := dishNames(dishes)
	assert.NotContains(t, names, "Secret Special")
	assert.NotContains(t, names, "Ghost Dish")
	assert.Len(t, dishes, 6)
}

func TestSearchQueryMatchesNameDescriptionRestaurant(t *testing.T) {
	db := setupCatalogDB(t)
	seedCatalog(t, db)
	ctx := context.Background()

	byName, err := db.SearchDishes(ctx, catalog.Filter{Query: "BUTTER"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Butter Chicken"}, dishNames(byName))

	byDescription, err := db.SearchDishes(ctx, catalog.Filter{Query: "potato"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Masala Dosa"}, dishNames(byDescription))

	byRestaurant, err := db.SearchDishes(ctx, catalog.Filter{Query: "dosa junction"})
	require.NoError(t, err)
	assert.Len(t, byRestaurant, 3)
}

func TestSearchVegFilter(t *testing.T) {
	db := setupCatalogDB(t)
	seedCatalog(t, db)
	ctx := context.Background()

	veg, err := db.SearchDishes(ctx, catalog.Filter{Veg: catalog.VegOnly})
	require.NoError(t, err)
	for _, d := range veg {
		assert.True(t, d.IsVeg, "%s should be veg", d.Name)
	}

	nonveg, err := db.SearchDishes(ctx, catalog.Filter{Veg: catalog.NonVegOnly})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Butter Chicken", "Upper Bound"}, dishNames(nonveg))

	// Unknown values mean no filter.
	all, err := db.SearchDishes(ctx, catalog.Filter{Veg: "whatever"})
	require.NoError(t, err)
	assert.Len(t, all, 6)
}

func TestSearchPriceBands(t *testing.T) {
	db := setupCatalogDB(t)
	seedCatalog(t, db)
	ctx := context.Background()

	low, err := db.SearchDishes(ctx, catalog.Filter{PriceBand: catalog.PriceLow})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Paneer Tikka", "Masala Dosa", "Boundary Bowl"}, dishNames(low))

	mid, err := db.SearchDishes(ctx, catalog.Filter{PriceBand: catalog.PriceMid})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Butter Chicken", "Upper Bound"}, dishNames(mid))

	high, err := db.SearchDishes(ctx, catalog.Filter{PriceBand: catalog.PriceHigh})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Royal Thali"}, dishNames(high))
}

func TestSearchMinRatingLenientParsing(t *testing.T) {
	db := setupCatalogDB(t)
	seedCatalog(t, db)
	ctx := context.Background()

	rated, err := db.SearchDishes(ctx, catalog.Filter{MinRating: "4.5"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Butter Chicken", "Masala Dosa"}, dishNames(rated))

	// Garbage min_rating is ignored, not an error.
	all, err := db.SearchDishes(ctx, catalog.Filter{MinRating: "not-a-number"})
	require.NoError(t, err)
	assert.Len(t, all, 6)
}

func TestSearchSortByPrice(t *testing.T) {
	db := setupCatalogDB(t)
	seedCatalog(t, db)

	dishes, err := db.SearchDishes(context.Background(), catalog.Filter{Sort: catalog.SortPriceAsc})
	require.NoError(t, err)
	for i := 1; i < len(dishes); i++ {
		assert.True(t, dishes[i-1].Price.LessThanOrEqual(dishes[i].Price))
	}
}

func TestSearchScopedToRestaurant(t *testing.T) {
	db := setupCatalogDB(t)
	seedCatalog(t, db)

	restaurants, err := db.ActiveRestaurants(context.Background())
	require.NoError(t, err)
	require.Len(t, restaurants, 2)

	// Dosa Junction sorts first by name.
	dishes, err := db.SearchDishes(context.Background(), catalog.Filter{RestaurantID: restaurants[0].ID})
	require.NoError(t, err)
	assert.Len(t, dishes, 3)
	for _, d := range dishes {
		assert.Equal(t, restaurants[0].ID, d.RestaurantID)
	}
}

func TestActiveRestaurantByID(t *testing.T) {
	db := setupCatalogDB(t)
	seedCatalog(t, db)
	ctx := context.Background()

	restaurants, err := db.ActiveRestaurants(ctx)
	require.NoError(t, err)

	found, err := db.ActiveRestaurantByID(ctx, restaurants[0].ID)
	require.NoError(t, err)
	assert.Equal(t, restaurants[0].Name, found.Name)

	var inactive models.Restaurant
	err = db.Bun.NewSelect().Model(&inactive).Where("is_active = ?", false).Scan(ctx)
	require.NoError(t, err)

	_, err = db.ActiveRestaurantByID(ctx, inactive.ID)
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestAvailableDish(t *testing.T) {
	db := setupCatalogDB(t)
	seedCatalog(t, db)
	ctx := context.Background()

	var unavailable models.Dish
	err := db.Bun.NewSelect().Model(&unavailable).Where("is_available = ?", false).Limit(1).Scan(ctx)
	require.NoError(t, err)

	_, err = db.AvailableDish(ctx, unavailable.ID)
	assert.ErrorIs(t, err, catalog.ErrNotFound)

	_, err = db.AvailableDish(ctx, 99999)
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestCreateUpdateDeleteDish(t *testing.T) {
	db := setupCatalogDB(t)
	seedCatalog(t, db)
	ctx := context.Background()

	restaurants, err := db.ActiveRestaurants(ctx)
	require.NoError(t, err)

	dish := &models.Dish{
		RestaurantID: restaurants[0].ID,
		Name:         "New Dish",
		Price:        price("99.00"),
		IsAvailable:  true,
		Rating:       price("4.0"),
	}
	require.NoError(t, db.CreateDish(ctx, dish))
	require.NotZero(t, dish.ID)

	dish.Name = "Renamed Dish"
	dish.Price = price("109.00")
	require.NoError(t, db.UpdateDish(ctx, dish))

	loaded, err := db.GetDish(ctx, dish.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed Dish", loaded.Name)
	assert.True(t, loaded.Price.Equal(price("109.00")))

	require.NoError(t, db.DeleteDish(ctx, dish.ID))
	_, err = db.GetDish(ctx, dish.ID)
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

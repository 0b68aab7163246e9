package catalog_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodbooking/internal/auth"
	"foodbooking/internal/catalog"
	"foodbooking/internal/logger"
	"foodbooking/internal/models"
)

func newCatalogService(t *testing.T) (*catalog.Service, *catalog.DB) {
	t.Helper()
	db := setupCatalogDB(t)
	seedCatalog(t, db)
	return catalog.NewService(db, logger.NewTestLogger()), db
}

func staffCaller(restaurantID int64) auth.Caller {
	return auth.Caller{Kind: auth.CallerRestaurantStaff, UserID: 1, RestaurantID: restaurantID}
}

func TestSearchGroupsByCategoryWhenScoped(t *testing.T) {
	svc, db := newCatalogService(t)
	ctx := context.Background()

	restaurants, err := db.ActiveRestaurants(ctx)
	require.NoError(t, err)
	// Spice Garden has categorized and uncategorized-free dishes.
	spiceGarden := restaurants[1]

	result, err := svc.Search(ctx, catalog.Filter{RestaurantID: spiceGarden.ID})
	require.NoError(t, err)
	require.NotEmpty(t, result.Groups)

	// Category groups are sorted by name; none of them is nil here.
	var names []string
	for _, g := range result.Groups {
		require.NotNil(t, g.Category)
		names = append(names, g.Category.Name)
	}
	assert.Equal(t, []string{"Mains", "Starters"}, names)
}

func TestSearchUncategorizedGroupLast(t *testing.T) {
	svc, db := newCatalogService(t)
	ctx := context.Background()

	restaurants, err := db.ActiveRestaurants(ctx)
	require.NoError(t, err)
	dosaJunction := restaurants[0]

	result, err := svc.Search(ctx, catalog.Filter{RestaurantID: dosaJunction.ID})
	require.NoError(t, err)
	require.NotEmpty(t, result.Groups)

	last := result.Groups[len(result.Groups)-1]
	assert.Nil(t, last.Category)
	assert.NotEmpty(t, last.Dishes)
}

func TestSearchUnscopedHasNoGroups(t *testing.T) {
	svc, _ := newCatalogService(t)

	result, err := svc.Search(context.Background(), catalog.Filter{})
	require.NoError(t, err)
	assert.Empty(t, result.Groups)
	assert.NotEmpty(t, result.Dishes)
}

func TestAddDishesRequiresProfile(t *testing.T) {
	svc, _ := newCatalogService(t)

	_, err := svc.AddDishes(context.Background(), auth.Caller{Kind: auth.CallerRestaurantStaff}, []catalog.DishInput{
		{Name: "X", Price: decimal.RequireFromString("10")},
	})
	assert.ErrorIs(t, err, auth.ErrNoProfile)
}

func TestAddDishesValidation(t *testing.T) {
	svc, _ := newCatalogService(t)
	caller := staffCaller(1)

	_, err := svc.AddDishes(context.Background(), caller, []catalog.DishInput{{Price: decimal.RequireFromString("10")}})
	assert.Error(t, err, "nameless dish must be rejected")

	_, err = svc.AddDishes(context.Background(), caller, []catalog.DishInput{
		{Name: "Bad Price", Price: decimal.RequireFromString("-1")},
	})
	assert.Error(t, err)

	_, err = svc.AddDishes(context.Background(), caller, []catalog.DishInput{
		{Name: "Bad Rating", Price: decimal.RequireFromString("10"), Rating: decimal.RequireFromString("5.5")},
	})
	assert.Error(t, err)
}

func TestAddDishesAssignsCallerRestaurant(t *testing.T) {
	svc, db := newCatalogService(t)
	ctx := context.Background()

	restaurants, err := db.ActiveRestaurants(ctx)
	require.NoError(t, err)
	caller := staffCaller(restaurants[0].ID)

	created, err := svc.AddDishes(ctx, caller, []catalog.DishInput{
		{Name: "Batch One", Price: decimal.RequireFromString("50.005"), IsAvailable: true},
		{Name: "Batch Two", Price: decimal.RequireFromString("75.00"), IsAvailable: true},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, created)

	dishes, err := svc.DishesForRestaurant(ctx, caller)
	require.NoError(t, err)

	var found *models.Dish
	for i := range dishes {
		if dishes[i].Name == "Batch One" {
			found = &dishes[i]
		}
	}
	require.NotNil(t, found)
	assert.Equal(t, caller.RestaurantID, found.RestaurantID)
	// Prices are normalized to two decimal places.
	assert.True(t, found.Price.Equal(decimal.RequireFromString("50.01")), "price %s", found.Price)
}

func TestUpdateDishScopedToOwnRestaurant(t *testing.T) {
	svc, db := newCatalogService(t)
	ctx := context.Background()

	restaurants, err := db.ActiveRestaurants(ctx)
	require.NoError(t, err)

	victim, err := db.DishesByRestaurant(ctx, restaurants[1].ID)
	require.NoError(t, err)
	require.NotEmpty(t, victim)

	outsider := staffCaller(restaurants[0].ID)
	_, err = svc.UpdateDish(ctx, outsider, victim[0].ID, catalog.DishInput{
		Name: "Hijacked", Price: decimal.RequireFromString("1.00"),
	})
	assert.ErrorIs(t, err, catalog.ErrForbidden)

	err = svc.DeleteDish(ctx, outsider, victim[0].ID)
	assert.ErrorIs(t, err, catalog.ErrForbidden)
}

func TestAdminCanManageAnyRestaurant(t *testing.T) {
	svc, db := newCatalogService(t)
	ctx := context.Background()

	restaurants, err := db.ActiveRestaurants(ctx)
	require.NoError(t, err)
	dishes, err := db.DishesByRestaurant(ctx, restaurants[1].ID)
	require.NoError(t, err)
	require.NotEmpty(t, dishes)

	admin := auth.Caller{Kind: auth.CallerAdmin, UserID: 1}
	updated, err := svc.UpdateDish(ctx, admin, dishes[0].ID, catalog.DishInput{
		Name:        "Admin Edit",
		Price:       decimal.RequireFromString("42.00"),
		IsAvailable: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Admin Edit", updated.Name)
}

package dashboard_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"foodbooking/internal/dashboard"
	"foodbooking/internal/models"
)

func setupDashboardDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, "file::memory:?cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqldb.Close() })

	bunDB := bun.NewDB(sqldb, sqlitedialect.New())
	ctx := context.Background()
	for _, model := range []interface{}{
		(*models.Restaurant)(nil),
		(*models.Dish)(nil),
		(*models.Order)(nil),
		(*models.OrderItem)(nil),
	} {
		require.NoError(t, bunDB.ResetModel(ctx, model))
	}
	return bunDB
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type dashboardFixture struct {
	db           *bun.DB
	svc          *dashboard.Service
	restaurantID int64
	now          time.Time
}

// seedDashboard builds one restaurant with two dishes, an order from
// today, an order from yesterday, and a competing restaurant that must
// never show up in the rollups.
func seedDashboard(t *testing.T) *dashboardFixture {
	t.Helper()
	db := setupDashboardDB(t)
	ctx := context.Background()
	now := time.Date(2026, 8, 28, 13, 0, 0, 0, time.UTC)

	restaurants := []models.Restaurant{
		{Name: "Spice Garden", IsActive: true},
		{Name: "Rival Kitchen", IsActive: true},
	}
	_, err := db.NewInsert().Model(&restaurants).Exec(ctx)
	require.NoError(t, err)

	dishes := []models.Dish{
		{RestaurantID: restaurants[0].ID, Name: "Butter Chicken", Price: d("100.00"), IsAvailable: true, Rating: d("4.0")},
		{RestaurantID: restaurants[0].ID, Name: "Garlic Naan", Price: d("50.00"), IsAvailable: true, Rating: d("3.0")},
		{RestaurantID: restaurants[1].ID, Name: "Rival Dish", Price: d("500.00"), IsAvailable: true, Rating: d("5.0")},
	}
	_, err = db.NewInsert().Model(&dishes).Exec(ctx)
	require.NoError(t, err)

	orders := []models.Order{
		{CustomerName: "Today A", TotalAmount: d("200.00"), CreatedAt: now.Add(-2 * time.Hour)},
		{CustomerName: "Today B", TotalAmount: d("100.00"), CreatedAt: now.Add(-1 * time.Hour)},
		{CustomerName: "Yesterday", TotalAmount: d("250.00"), CreatedAt: now.Add(-26 * time.Hour)},
		{CustomerName: "Rival", TotalAmount: d("500.00"), CreatedAt: now.Add(-1 * time.Hour)},
	}
	_, err = db.NewInsert().Model(&orders).Exec(ctx)
	require.NoError(t, err)

	items := []models.OrderItem{
		{OrderID: orders[0].ID, DishID: dishes[0].ID, Quantity: 2, Price: d("100.00")},
		{OrderID: orders[1].ID, DishID: dishes[1].ID, Quantity: 2, Price: d("50.00")},
		{OrderID: orders[2].ID, DishID: dishes[1].ID, Quantity: 5, Price: d("50.00")},
		{OrderID: orders[3].ID, DishID: dishes[2].ID, Quantity: 1, Price: d("500.00")},
	}
	_, err = db.NewInsert().Model(&items).Exec(ctx)
	require.NoError(t, err)

	return &dashboardFixture{
		db:           db,
		svc:          dashboard.NewService(db),
		restaurantID: restaurants[0].ID,
		now:          now,
	}
}

func TestStatsTodayOrdersAndRevenue(t *testing.T) {
	f := seedDashboard(t)

	stats, err := f.svc.RestaurantStats(context.Background(), f.restaurantID, f.now)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.TodayOrders)
	// 2x100 + 2x50, yesterday's order excluded.
	assert.True(t, stats.Revenue.Equal(d("300.00")), "revenue %s", stats.Revenue)
}

func TestStatsAverageRatingRounded(t *testing.T) {
	f := seedDashboard(t)

	stats, err := f.svc.RestaurantStats(context.Background(), f.restaurantID, f.now)
	require.NoError(t, err)

	// (4.0 + 3.0) / 2; the rival's 5.0 stays out of scope.
	assert.True(t, stats.AvgRating.Equal(d("3.5")), "avg rating %s", stats.AvgRating)
}

func TestStatsPopularItemsAllTime(t *testing.T) {
	f := seedDashboard(t)

	stats, err := f.svc.RestaurantStats(context.Background(), f.restaurantID, f.now)
	require.NoError(t, err)

	// Naan sold 7 all-time (2 today + 5 yesterday), chicken 2.
	require.Len(t, stats.PopularItems, 2)
	assert.Equal(t, "Garlic Naan", stats.PopularItems[0].Name)
	assert.Equal(t, int64(7), stats.PopularItems[0].Quantity)
	assert.Equal(t, "Butter Chicken", stats.PopularItems[1].Name)
	assert.Equal(t, int64(2), stats.PopularItems[1].Quantity)
}

func TestStatsEmptyRestaurant(t *testing.T) {
	db := setupDashboardDB(t)
	svc := dashboard.NewService(db)

	restaurant := &models.Restaurant{Name: "Brand New", IsActive: true}
	_, err := db.NewInsert().Model(restaurant).Exec(context.Background())
	require.NoError(t, err)

	stats, err := svc.RestaurantStats(context.Background(), restaurant.ID, time.Now())
	require.NoError(t, err)

	assert.Equal(t, 0, stats.TodayOrders)
	assert.True(t, stats.Revenue.IsZero())
	assert.True(t, stats.AvgRating.IsZero())
	assert.Empty(t, stats.PopularItems)
	assert.Empty(t, stats.Dishes)
}

package dashboard

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	"foodbooking/internal/models"
)

// Service computes the read-only rollups of the restaurant dashboard.
// Every query is scoped to one restaurant id; the caller resolves that
// scope from the authenticated staff profile.
type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db: db}
}

// PopularItem is one row of the all-time top dish list.
type PopularItem struct {
	Name     string `bun:"name" json:"name"`
	Quantity int64  `bun:"qty" json:"qty"`
}

// Stats is the daily dashboard payload.
type Stats struct {
	TodayOrders  int             `json:"today_orders"`
	Revenue      decimal.Decimal `json:"revenue"`
	AvgRating    decimal.Decimal `json:"avg_rating"`
	PopularItems []PopularItem   `json:"popular_items"`
	Dishes       []models.Dish   `json:"dishes"`
}

// RestaurantStats aggregates today's order count and revenue, the
// average current dish rating, and the all-time top five dishes by
// quantity. "Today" is the local calendar date of now.
func (s *Service) RestaurantStats(ctx context.Context, restaurantID int64, now time.Time) (*Stats, error) {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	stats := &Stats{Revenue: decimal.Zero, AvgRating: decimal.Zero, PopularItems: []PopularItem{}}

	var todayOrders int
	err := s.db.NewSelect().
		Model((*models.OrderItem)(nil)).
		ColumnExpr("COUNT(DISTINCT order_item.order_id)").
		Join("JOIN dishes AS dish ON dish.id = order_item.dish_id").
		Join("JOIN orders AS o ON o.id = order_item.order_id").
		Where("dish.restaurant_id = ?", restaurantID).
		Where("o.created_at >= ? AND o.created_at < ?", dayStart, dayEnd).
		Scan(ctx, &todayOrders)
	if err != nil {
		return nil, fmt.Errorf("today's order count: %w", err)
	}
	stats.TodayOrders = todayOrders

	var revenue decimal.NullDecimal
	err = s.db.NewSelect().
		Model((*models.OrderItem)(nil)).
		ColumnExpr("SUM(order_item.price * order_item.quantity)").
		Join("JOIN dishes AS dish ON dish.id = order_item.dish_id").
		Join("JOIN orders AS o ON o.id = order_item.order_id").
		Where("dish.restaurant_id = ?", restaurantID).
		Where("o.created_at >= ? AND o.created_at < ?", dayStart, dayEnd).
		Scan(ctx, &revenue)
	if err != nil {
		return nil, fmt.Errorf("today's revenue: %w", err)
	}
	if revenue.Valid {
		stats.Revenue = revenue.Decimal
	}

	var avgRating sql.NullFloat64
	err = s.db.NewSelect().
		Model((*models.Dish)(nil)).
		ColumnExpr("AVG(rating)").
		Where("restaurant_id = ?", restaurantID).
		Scan(ctx, &avgRating)
	if err != nil {
		return nil, fmt.Errorf("average rating: %w", err)
	}
	if avgRating.Valid {
		stats.AvgRating = decimal.NewFromFloat(avgRating.Float64).Round(1)
	}

	// Ties on quantity resolve by name so the list stays stable.
	err = s.db.NewSelect().
		Model((*models.OrderItem)(nil)).
		ColumnExpr("dish.name AS name").
		ColumnExpr("SUM(order_item.quantity) AS qty").
		Join("JOIN dishes AS dish ON dish.id = order_item.dish_id").
		Where("dish.restaurant_id = ?", restaurantID).
		GroupExpr("dish.name").
		OrderExpr("qty DESC, dish.name ASC").
		Limit(5).
		Scan(ctx, &stats.PopularItems)
	if err != nil {
		return nil, fmt.Errorf("popular items: %w", err)
	}

	var dishes []models.Dish
	err = s.db.NewSelect().
		Model(&dishes).
		Where("restaurant_id = ?", restaurantID).
		Order("name ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("restaurant dishes: %w", err)
	}
	stats.Dishes = dishes

	return stats, nil
}

package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/uptrace/bun"

	"foodbooking/internal/models"
)

// ErrNotFound covers missing or unavailable dishes and inactive
// restaurants; handlers map it to a generic not-found response.
var ErrNotFound = errors.New("not found")

type DB struct {
	Bun *bun.DB
}

// SearchDishes returns the available dishes of active restaurants
// matching the filter. Malformed numeric filter values are ignored.
func (d *DB) SearchDishes(ctx context.Context, f Filter) ([]models.Dish, error) {
	var dishes []models.Dish
	q := d.Bun.NewSelect().
		Model(&dishes).
		Relation("Restaurant").
		Relation("Category").
		Where("dish.is_available = ?", true).
		Where("restaurant.is_active = ?", true)

	if f.RestaurantID != 0 {
		q = q.Where("dish.restaurant_id = ?", f.RestaurantID)
	}

	if f.Query != "" {
		pattern := "%" + strings.ToLower(f.Query) + "%"
		q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				Where("LOWER(dish.name) LIKE ?", pattern).
				WhereOr("LOWER(dish.description) LIKE ?", pattern).
				WhereOr("LOWER(restaurant.name) LIKE ?", pattern)
		})
	}

	switch f.Veg {
	case VegOnly:
		q = q.Where("dish.is_veg = ?", true)
	case NonVegOnly:
		q = q.Where("dish.is_veg = ?", false)
	}

	if f.MinRating != "" {
		if minRating, err := strconv.ParseFloat(f.MinRating, 64); err == nil {
			q = q.Where("dish.rating >= ?", minRating)
		}
	}

	switch f.PriceBand {
	case PriceLow:
		q = q.Where("dish.price <= ?", 200)
	case PriceMid:
		q = q.Where("dish.price > ? AND dish.price <= ?", 200, 400)
	case PriceHigh:
		q = q.Where("dish.price > ?", 400)
	}

	switch f.Sort {
	case SortPriceAsc:
		q = q.Order("dish.price ASC")
	case SortPriceDesc:
		q = q.Order("dish.price DESC")
	case SortRating:
		q = q.Order("dish.rating DESC")
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("search dishes: %w", err)
	}
	return dishes, nil
}

// ActiveRestaurants lists the restaurants shown in the public catalog,
// ordered by name.
func (d *DB) ActiveRestaurants(ctx context.Context) ([]models.Restaurant, error) {
	var restaurants []models.Restaurant
	err := d.Bun.NewSelect().
		Model(&restaurants).
		Where("is_active = ?", true).
		Order("name ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("active restaurants: %w", err)
	}
	return restaurants, nil
}

// ActiveRestaurantByID fetches one active restaurant.
func (d *DB) ActiveRestaurantByID(ctx context.Context, id int64) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	err := d.Bun.NewSelect().
		Model(&restaurant).
		Where("id = ?", id).
		Where("is_active = ?", true).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("restaurant %d: %w", id, err)
	}
	return &restaurant, nil
}

// Categories lists all categories ordered by name.
func (d *DB) Categories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := d.Bun.NewSelect().
		Model(&categories).
		Order("name ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("categories: %w", err)
	}
	return categories, nil
}

// AvailableDish fetches a dish that can currently be ordered.
func (d *DB) AvailableDish(ctx context.Context, id int64) (*models.Dish, error) {
	var dish models.Dish
	err := d.Bun.NewSelect().
		Model(&dish).
		Where("dish.id = ?", id).
		Where("dish.is_available = ?", true).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("dish %d: %w", id, err)
	}
	return &dish, nil
}

// GetDish fetches a dish regardless of availability.
func (d *DB) GetDish(ctx context.Context, id int64) (*models.Dish, error) {
	var dish models.Dish
	err := d.Bun.NewSelect().
		Model(&dish).
		Where("dish.id = ?", id).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("dish %d: %w", id, err)
	}
	return &dish, nil
}

// DishesByIDs fetches dishes with their restaurant, regardless of
// availability; callers decide how to treat unavailable rows.
func (d *DB) DishesByIDs(ctx context.Context, ids []int64) ([]models.Dish, error) {
	if len(ids) == 0 {
		return []models.Dish{}, nil
	}
	var dishes []models.Dish
	err := d.Bun.NewSelect().
		Model(&dishes).
		Relation("Restaurant").
		Where("dish.id IN (?)", bun.In(ids)).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("dishes by ids: %w", err)
	}
	return dishes, nil
}

// DishesByRestaurant lists all dishes of one restaurant (management
// view, includes unavailable ones), ordered by name.
func (d *DB) DishesByRestaurant(ctx context.Context, restaurantID int64) ([]models.Dish, error) {
	var dishes []models.Dish
	err := d.Bun.NewSelect().
		Model(&dishes).
		Relation("Category").
		Where("dish.restaurant_id = ?", restaurantID).
		Order("dish.name ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("dishes by restaurant: %w", err)
	}
	return dishes, nil
}

func (d *DB) CreateDish(ctx context.Context, dish *models.Dish) error {
	if _, err := d.Bun.NewInsert().Model(dish).Exec(ctx); err != nil {
		return fmt.Errorf("create dish: %w", err)
	}
	return nil
}

func (d *DB) UpdateDish(ctx context.Context, dish *models.Dish) error {
	_, err := d.Bun.NewUpdate().
		Model(dish).
		Column("category_id", "name", "description", "price", "is_veg", "is_available", "image", "rating").
		Where("id = ?", dish.ID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update dish: %w", err)
	}
	return nil
}

func (d *DB) DeleteDish(ctx context.Context, id int64) error {
	_, err := d.Bun.NewDelete().
		Model((*models.Dish)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete dish: %w", err)
	}
	return nil
}

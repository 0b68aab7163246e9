package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"foodbooking/internal/models"
)

// ErrNotFound covers orders that do not exist or belong to someone else.
var ErrNotFound = errors.New("order not found")

type DB struct {
	Bun *bun.DB
}

// CreateOrderWithItems inserts the order and all of its line items in
// one transaction so a partially created order can never be observed.
func (d *DB) CreateOrderWithItems(ctx context.Context, order *models.Order, items []models.OrderItem) error {
	err := d.Bun.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(order).Exec(ctx); err != nil {
			return fmt.Errorf("insert order: %w", err)
		}
		for i := range items {
			items[i].OrderID = order.ID
		}
		if _, err := tx.NewInsert().Model(&items).Exec(ctx); err != nil {
			return fmt.Errorf("insert order items: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("create order: %w", err)
	}
	return nil
}

// GetOrderByID loads an order with its items, each item's dish and the
// dish's restaurant.
func (d *DB) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	err := d.Bun.NewSelect().
		Model(&order).
		Relation("Items").
		Relation("Items.Dish").
		Relation("Items.Dish.Restaurant").
		Where("\"order\".id = ?", id).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("order %d: %w", id, err)
	}
	return &order, nil
}

// OrdersByUser returns the user's order history, newest first, with
// items and dishes attached.
func (d *DB) OrdersByUser(ctx context.Context, userID int64) ([]models.Order, error) {
	var orders []models.Order
	err := d.Bun.NewSelect().
		Model(&orders).
		Relation("Items").
		Relation("Items.Dish").
		Where("\"order\".user_id = ?", userID).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("orders by user: %w", err)
	}
	return orders, nil
}

// MarkPaid flips the only mutable order field.
func (d *DB) MarkPaid(ctx context.Context, id int64) error {
	res, err := d.Bun.NewUpdate().
		Model((*models.Order)(nil)).
		Set("is_paid = ?", true).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("mark paid: %w", err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return ErrNotFound
	}
	return nil
}

package support

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"foodbooking/internal/models"
)

var ErrNotFound = errors.New("ticket not found")

type DB struct {
	Bun *bun.DB
}

func (d *DB) CreateTicket(ctx context.Context, ticket *models.SupportTicket) error {
	if _, err := d.Bun.NewInsert().Model(ticket).Exec(ctx); err != nil {
		return fmt.Errorf("create ticket: %w", err)
	}
	return nil
}

func (d *DB) TicketsByUser(ctx context.Context, userID int64) ([]models.SupportTicket, error) {
	var tickets []models.SupportTicket
	err := d.Bun.NewSelect().
		Model(&tickets).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("tickets by user: %w", err)
	}
	return tickets, nil
}

func (d *DB) GetTicket(ctx context.Context, id int64) (*models.SupportTicket, error) {
	var ticket models.SupportTicket
	err := d.Bun.NewSelect().
		Model(&ticket).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ticket %d: %w", id, err)
	}
	return &ticket, nil
}

func (d *DB) UpdateStatus(ctx context.Context, id int64, status string) error {
	res, err := d.Bun.NewUpdate().
		Model((*models.SupportTicket)(nil)).
		Set("status = ?", status).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update ticket status: %w", err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return ErrNotFound
	}
	return nil
}

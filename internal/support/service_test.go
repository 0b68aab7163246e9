package support_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodbooking/internal/auth"
	"foodbooking/internal/logger"
	"foodbooking/internal/models"
	"foodbooking/internal/support"
)

type mockTicketDB struct {
	tickets map[int64]*models.SupportTicket
	nextID  int64
}

func newMockTicketDB() *mockTicketDB {
	return &mockTicketDB{tickets: make(map[int64]*models.SupportTicket), nextID: 1}
}

func (m *mockTicketDB) CreateTicket(ctx context.Context, ticket *models.SupportTicket) error {
	ticket.ID = m.nextID
	m.nextID++
	stored := *ticket
	m.tickets[ticket.ID] = &stored
	return nil
}

func (m *mockTicketDB) TicketsByUser(ctx context.Context, userID int64) ([]models.SupportTicket, error) {
	var out []models.SupportTicket
	for _, t := range m.tickets {
		if t.UserID == userID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (m *mockTicketDB) GetTicket(ctx context.Context, id int64) (*models.SupportTicket, error) {
	t, ok := m.tickets[id]
	if !ok {
		return nil, support.ErrNotFound
	}
	return t, nil
}

func (m *mockTicketDB) UpdateStatus(ctx context.Context, id int64, status string) error {
	t, ok := m.tickets[id]
	if !ok {
		return support.ErrNotFound
	}
	t.Status = status
	return nil
}

func newSupportService() (*support.Service, *mockTicketDB) {
	db := newMockTicketDB()
	return support.NewService(db, logger.NewTestLogger()), db
}

func TestSubmitTicket(t *testing.T) {
	svc, _ := newSupportService()

	ticket, err := svc.Submit(context.Background(), 7, "  Refund  ", "  Order arrived cold.  ")
	require.NoError(t, err)

	assert.Equal(t, "Refund", ticket.Subject)
	assert.Equal(t, "Order arrived cold.", ticket.Message)
	assert.Equal(t, models.TicketOpen, ticket.Status)
	assert.Equal(t, int64(7), ticket.UserID)
}

func TestSubmitRequiresBothFields(t *testing.T) {
	svc, _ := newSupportService()
	ctx := context.Background()

	_, err := svc.Submit(ctx, 7, "", "body")
	assert.ErrorIs(t, err, support.ErrMissingFields)

	_, err = svc.Submit(ctx, 7, "subject", "   ")
	assert.ErrorIs(t, err, support.ErrMissingFields)
}

func TestTicketsScopedToUser(t *testing.T) {
	svc, _ := newSupportService()
	ctx := context.Background()

	_, err := svc.Submit(ctx, 7, "Mine", "body")
	require.NoError(t, err)
	_, err = svc.Submit(ctx, 8, "Theirs", "body")
	require.NoError(t, err)

	mine, err := svc.ForUser(ctx, 7)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Mine", mine[0].Subject)
}

func TestUpdateStatusAdminOnly(t *testing.T) {
	svc, db := newSupportService()
	ctx := context.Background()

	ticket, err := svc.Submit(ctx, 7, "Refund", "body")
	require.NoError(t, err)

	staff := auth.Caller{Kind: auth.CallerRestaurantStaff, UserID: 2, RestaurantID: 1}
	err = svc.UpdateStatus(ctx, staff, ticket.ID, models.TicketResolved)
	assert.ErrorIs(t, err, support.ErrForbidden)

	admin := auth.Caller{Kind: auth.CallerAdmin, UserID: 1}
	require.NoError(t, svc.UpdateStatus(ctx, admin, ticket.ID, models.TicketResolved))
	assert.Equal(t, models.TicketResolved, db.tickets[ticket.ID].Status)
}

func TestUpdateStatusValidation(t *testing.T) {
	svc, _ := newSupportService()
	ctx := context.Background()
	admin := auth.Caller{Kind: auth.CallerAdmin, UserID: 1}

	ticket, err := svc.Submit(ctx, 7, "Refund", "body")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.UpdateStatus(ctx, admin, ticket.ID, "bogus"), support.ErrBadStatus)
	assert.ErrorIs(t, svc.UpdateStatus(ctx, admin, 4242, models.TicketResolved), support.ErrNotFound)
}

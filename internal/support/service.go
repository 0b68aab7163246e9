package support

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"foodbooking/internal/auth"
	"foodbooking/internal/logger"
	"foodbooking/internal/models"
)

var (
	ErrMissingFields = errors.New("please fill all fields")
	ErrBadStatus     = errors.New("invalid ticket status")
	ErrForbidden     = errors.New("only platform staff can change ticket status")
)

type DBLayer interface {
	CreateTicket(ctx context.Context, ticket *models.SupportTicket) error
	TicketsByUser(ctx context.Context, userID int64) ([]models.SupportTicket, error)
	GetTicket(ctx context.Context, id int64) (*models.SupportTicket, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
}

type Service struct {
	DB     DBLayer
	Logger *logger.Logger
}

func NewService(db DBLayer, log *logger.Logger) *Service {
	return &Service{DB: db, Logger: log}
}

// Submit files a ticket for the user. Tickets are immutable after
// creation except for staff-driven status transitions.
func (s *Service) Submit(ctx context.Context, userID int64, subject, message string) (*models.SupportTicket, error) {
	subject = strings.TrimSpace(subject)
	message = strings.TrimSpace(message)
	if subject == "" || message == "" {
		return nil, ErrMissingFields
	}

	ticket := &models.SupportTicket{
		UserID:  userID,
		Subject: subject,
		Message: message,
		Status:  models.TicketOpen,
	}
	if err := s.DB.CreateTicket(ctx, ticket); err != nil {
		return nil, err
	}

	s.Logger.Info("SUPPORT", fmt.Sprintf("ticket #%d filed by user %d", ticket.ID, userID))
	return ticket, nil
}

// ForUser lists the caller's tickets, newest first.
func (s *Service) ForUser(ctx context.Context, userID int64) ([]models.SupportTicket, error) {
	return s.DB.TicketsByUser(ctx, userID)
}

// UpdateStatus transitions a ticket; only platform administrators may
// do this.
func (s *Service) UpdateStatus(ctx context.Context, caller auth.Caller, id int64, status string) error {
	if caller.Kind != auth.CallerAdmin {
		return ErrForbidden
	}
	if !models.ValidTicketStatus(status) {
		return ErrBadStatus
	}
	if _, err := s.DB.GetTicket(ctx, id); err != nil {
		return err
	}
	return s.DB.UpdateStatus(ctx, id, status)
}

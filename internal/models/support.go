package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	TicketOpen       = "open"
	TicketInProgress = "in_progress"
	TicketResolved   = "resolved"
)

// SupportTicket is immutable after creation except for staff-driven
// status transitions.
type SupportTicket struct {
	bun.BaseModel `bun:"table:support_tickets"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	UserID    int64     `bun:"user_id,notnull" json:"user_id"`
	Subject   string    `bun:"subject,notnull" json:"subject"`
	Message   string    `bun:"message,notnull" json:"message"`
	Status    string    `bun:"status,notnull,default:'open'" json:"status"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

// ValidTicketStatus reports whether s is one of the allowed ticket states.
func ValidTicketStatus(s string) bool {
	switch s {
	case TicketOpen, TicketInProgress, TicketResolved:
		return true
	}
	return false
}

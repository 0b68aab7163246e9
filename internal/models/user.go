package models

import (
	"time"

	"github.com/uptrace/bun"
)

type User struct {
	bun.BaseModel `bun:"table:users"`

	ID           int64     `bun:"id,pk,autoincrement" json:"id"`
	Username     string    `bun:"username,unique,notnull" json:"username"`
	Email        string    `bun:"email,nullzero" json:"email,omitempty"`
	PasswordHash string    `bun:"password_hash,notnull" json:"-"`
	IsAdmin      bool      `bun:"is_admin" json:"is_admin"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

// RestaurantProfile links a staff user to the single restaurant they manage.
// A user has at most one profile; its presence is the authorization boundary
// for all restaurant-side features.
type RestaurantProfile struct {
	bun.BaseModel `bun:"table:restaurant_profiles"`

	ID           int64  `bun:"id,pk,autoincrement" json:"id"`
	UserID       int64  `bun:"user_id,unique,notnull" json:"user_id"`
	RestaurantID int64  `bun:"restaurant_id,notnull" json:"restaurant_id"`
	Role         string `bun:"role,notnull,default:'owner'" json:"role"`

	User       *User       `bun:"rel:belongs-to,join:user_id=id" json:"-"`
	Restaurant *Restaurant `bun:"rel:belongs-to,join:restaurant_id=id" json:"restaurant,omitempty"`
}

const (
	RoleOwner   = "owner"
	RoleManager = "manager"
	RoleStaff   = "staff"
)

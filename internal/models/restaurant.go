package models

import (
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

type Restaurant struct {
	bun.BaseModel `bun:"table:restaurants"`

	ID        int64            `bun:"id,pk,autoincrement" json:"id"`
	Name      string           `bun:"name,notnull" json:"name"`
	Address   string           `bun:"address,nullzero" json:"address,omitempty"`
	IsActive  bool             `bun:"is_active,notnull,default:true" json:"is_active"`
	Image     string           `bun:"image,nullzero" json:"image,omitempty"`
	Latitude  *decimal.Decimal `bun:"latitude,nullzero" json:"latitude,omitempty"`
	Longitude *decimal.Decimal `bun:"longitude,nullzero" json:"longitude,omitempty"`
}

type Category struct {
	bun.BaseModel `bun:"table:categories"`

	ID   int64  `bun:"id,pk,autoincrement" json:"id"`
	Name string `bun:"name,unique,notnull" json:"name"`
}

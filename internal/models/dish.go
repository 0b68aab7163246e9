package models

import (
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// Dish belongs to exactly one restaurant and optionally one category.
// Price carries two decimal places, rating one.
type Dish struct {
	bun.BaseModel `bun:"table:dishes"`

	ID           int64           `bun:"id,pk,autoincrement" json:"id"`
	RestaurantID int64           `bun:"restaurant_id,notnull" json:"restaurant_id"`
	CategoryID   *int64          `bun:"category_id,nullzero" json:"category_id,omitempty"`
	Name         string          `bun:"name,notnull" json:"name"`
	Description  string          `bun:"description,nullzero" json:"description,omitempty"`
	Price        decimal.Decimal `bun:"price,notnull" json:"price"`
	IsVeg        bool            `bun:"is_veg,notnull,default:true" json:"is_veg"`
	IsAvailable  bool            `bun:"is_available,notnull,default:true" json:"is_available"`
	Image        string          `bun:"image,nullzero" json:"image,omitempty"`
	Rating       decimal.Decimal `bun:"rating,notnull" json:"rating"`

	Restaurant *Restaurant `bun:"rel:belongs-to,join:restaurant_id=id" json:"restaurant,omitempty"`
	Category   *Category   `bun:"rel:belongs-to,join:category_id=id" json:"category,omitempty"`
}

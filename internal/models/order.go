package models

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

const (
	PaymentCOD    = "COD"
	PaymentOnline = "ONLINE"
)

// Order is a snapshot of a checkout. Immutable once created except for
// the payment status.
type Order struct {
	bun.BaseModel `bun:"table:orders"`

	ID                int64            `bun:"id,pk,autoincrement" json:"id"`
	UserID            *int64           `bun:"user_id,nullzero" json:"user_id,omitempty"`
	CustomerName      string           `bun:"customer_name,notnull" json:"customer_name"`
	CustomerPhone     string           `bun:"customer_phone,nullzero" json:"customer_phone,omitempty"`
	Address           string           `bun:"address,notnull" json:"address"`
	DeliveryLatitude  *decimal.Decimal `bun:"delivery_latitude,nullzero" json:"delivery_latitude,omitempty"`
	DeliveryLongitude *decimal.Decimal `bun:"delivery_longitude,nullzero" json:"delivery_longitude,omitempty"`
	PaymentMethod     string           `bun:"payment_method,notnull,default:'COD'" json:"payment_method"`
	TotalAmount       decimal.Decimal  `bun:"total_amount,notnull" json:"total_amount"`
	IsPaid            bool             `bun:"is_paid,notnull,default:false" json:"is_paid"`
	CreatedAt         time.Time        `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`

	Items []OrderItem `bun:"rel:has-many,join:id=order_id" json:"items,omitempty"`
}

// OrderItem freezes the dish price at the time of ordering; later price
// changes on the dish do not affect past orders.
type OrderItem struct {
	bun.BaseModel `bun:"table:order_items"`

	ID       int64           `bun:"id,pk,autoincrement" json:"id"`
	OrderID  int64           `bun:"order_id,notnull" json:"order_id"`
	DishID   int64           `bun:"dish_id,notnull" json:"dish_id"`
	Quantity int             `bun:"quantity,notnull" json:"quantity"`
	Price    decimal.Decimal `bun:"price,notnull" json:"price"`

	Dish *Dish `bun:"rel:belongs-to,join:dish_id=id" json:"dish,omitempty"`
}

// LineTotal returns price multiplied by quantity.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

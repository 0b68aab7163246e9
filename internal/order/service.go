package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"foodbooking/internal/cart"
	"foodbooking/internal/logger"
	"foodbooking/internal/models"
	orderdb "foodbooking/internal/order/db"
)

var (
	// ErrEmptyCart aborts a checkout before anything is written; the
	// handler sends the customer back to the catalog.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrMixedRestaurants means the cart invariant was violated; the
	// order is rejected before creation rather than silently invoicing
	// whichever restaurant came first.
	ErrMixedRestaurants = errors.New("order items must all belong to one restaurant")
	// ErrPDFUnavailable marks invoice rendering as a degraded feature,
	// not a failure of the order itself.
	ErrPDFUnavailable = errors.New("PDF generation unavailable")
)

type DBLayer interface {
	CreateOrderWithItems(ctx context.Context, order *models.Order, items []models.OrderItem) error
	GetOrderByID(ctx context.Context, id int64) (*models.Order, error)
	OrdersByUser(ctx context.Context, userID int64) ([]models.Order, error)
	MarkPaid(ctx context.Context, id int64) error
}

type CartStore interface {
	Get(ctx context.Context, sessionID string) (cart.Cart, error)
	Clear(ctx context.Context, sessionID string) error
}

type CatalogReader interface {
	DishesByIDs(ctx context.Context, ids []int64) ([]models.Dish, error)
}

type InvoiceRenderer interface {
	Generate(order *models.Order, items []models.OrderItem, restaurant *models.Restaurant) ([]byte, error)
}

type Mailer interface {
	Configured() bool
	SendInvoice(to string, orderID int64, pdf []byte) error
}

type EventPublisher interface {
	PublishOrderCreated(order models.Order) error
}

type Service struct {
	DB       DBLayer
	Carts    CartStore
	Catalog  CatalogReader
	Invoices InvoiceRenderer
	Mailer   Mailer
	Events   EventPublisher
	Logger   *logger.Logger
}

func NewService(db DBLayer, carts CartStore, catalog CatalogReader, invoices InvoiceRenderer, mailer Mailer, events EventPublisher, log *logger.Logger) *Service {
	return &Service{DB: db, Carts: carts, Catalog: catalog, Invoices: invoices, Mailer: mailer, Events: events, Logger: log}
}

// CheckoutRequest carries the customer-supplied fields of the checkout
// form. Coordinates arrive as raw strings and are parsed leniently.
type CheckoutRequest struct {
	Name              string `json:"name"`
	Phone             string `json:"phone"`
	Address           string `json:"address"`
	DeliveryLatitude  string `json:"delivery_latitude"`
	DeliveryLongitude string `json:"delivery_longitude"`
	PaymentMethod     string `json:"payment"`
}

// Checkout converts the session's cart into a persisted order. The
// order and all items are written in one transaction; the cart is
// cleared afterwards, and the invoice email plus the order event are
// fired best-effort.
func (s *Service) Checkout(ctx context.Context, sessionID string, user *models.User, req CheckoutRequest) (*models.Order, error) {
	c, err := s.Carts.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(c) == 0 {
		return nil, ErrEmptyCart
	}

	dishes, err := s.Catalog.DishesByIDs(ctx, c.IDs())
	if err != nil {
		return nil, err
	}

	items, restaurant, err := buildItems(c, dishes)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		// Every dish was removed or taken off the menu since it was
		// added; nothing left to order.
		return nil, ErrEmptyCart
	}

	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}

	newOrder := &models.Order{
		CustomerName:  orDefault(req.Name, "Guest"),
		CustomerPhone: req.Phone,
		Address:       req.Address,
		PaymentMethod: orDefault(req.PaymentMethod, models.PaymentCOD),
		TotalAmount:   total,
		IsPaid:        req.PaymentMethod == models.PaymentOnline,
	}
	if user != nil {
		newOrder.UserID = &user.ID
	}
	if lat, err := decimal.NewFromString(req.DeliveryLatitude); err == nil && req.DeliveryLatitude != "" {
		newOrder.DeliveryLatitude = &lat
	}
	if lng, err := decimal.NewFromString(req.DeliveryLongitude); err == nil && req.DeliveryLongitude != "" {
		newOrder.DeliveryLongitude = &lng
	}

	if err := s.DB.CreateOrderWithItems(ctx, newOrder, items); err != nil {
		return nil, err
	}
	s.Logger.LogOrder("CREATED", newOrder.ID, fmt.Sprintf("total %s via %s", total.StringFixed(2), newOrder.PaymentMethod))

	if err := s.Carts.Clear(ctx, sessionID); err != nil {
		s.Logger.Error("ORDER", fmt.Sprintf("failed to clear cart for session %s: %v", sessionID, err))
	}

	if s.Events != nil {
		if err := s.Events.PublishOrderCreated(*newOrder); err != nil {
			s.Logger.Error("ORDER", fmt.Sprintf("order event publish failed: %v", err))
		}
	}

	s.sendInvoiceEmail(newOrder, items, restaurant, user)

	return newOrder, nil
}

// buildItems freezes current prices into line items and enforces the
// single-restaurant invariant. Dishes deleted or made unavailable since
// they were added to the cart are dropped.
func buildItems(c cart.Cart, dishes []models.Dish) ([]models.OrderItem, *models.Restaurant, error) {
	var items []models.OrderItem
	var restaurant *models.Restaurant
	var restaurantID int64

	for _, dish := range dishes {
		if !dish.IsAvailable {
			continue
		}
		qty := c[dish.ID]
		if qty <= 0 {
			continue
		}

		if restaurantID == 0 {
			restaurantID = dish.RestaurantID
			restaurant = dish.Restaurant
		} else if dish.RestaurantID != restaurantID {
			return nil, nil, ErrMixedRestaurants
		}

		items = append(items, models.OrderItem{
			DishID:   dish.ID,
			Quantity: qty,
			Price:    dish.Price,
		})
	}
	return items, restaurant, nil
}

// sendInvoiceEmail renders and mails the invoice. Every failure here is
// logged and discarded; checkout already succeeded.
func (s *Service) sendInvoiceEmail(order *models.Order, items []models.OrderItem, restaurant *models.Restaurant, user *models.User) {
	if user == nil || user.Email == "" || s.Mailer == nil || !s.Mailer.Configured() {
		return
	}

	pdf, err := s.Invoices.Generate(order, items, restaurant)
	if err != nil {
		s.Logger.Error("ORDER", fmt.Sprintf("invoice render failed for order %d: %v", order.ID, err))
		return
	}
	if err := s.Mailer.SendInvoice(user.Email, order.ID, pdf); err != nil {
		s.Logger.Error("ORDER", fmt.Sprintf("invoice mail failed for order %d: %v", order.ID, err))
	}
}

// OrderForUser loads an order only when it belongs to the given user.
func (s *Service) OrderForUser(ctx context.Context, orderID, userID int64) (*models.Order, error) {
	ord, err := s.DB.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if ord.UserID == nil || *ord.UserID != userID {
		return nil, orderdb.ErrNotFound
	}
	return ord, nil
}

// History returns the user's orders, newest first.
func (s *Service) History(ctx context.Context, userID int64) ([]models.Order, error) {
	return s.DB.OrdersByUser(ctx, userID)
}

// RenderInvoice produces the invoice PDF for an order already loaded
// through OrderForUser.
func (s *Service) RenderInvoice(ord *models.Order) ([]byte, error) {
	var restaurant *models.Restaurant
	for _, item := range ord.Items {
		if item.Dish != nil && item.Dish.Restaurant != nil {
			restaurant = item.Dish.Restaurant
			break
		}
	}

	pdf, err := s.Invoices.Generate(ord, ord.Items, restaurant)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFUnavailable, err)
	}
	return pdf, nil
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"foodbooking/internal/logger"
	"foodbooking/internal/models"
)

// ErrCrossRestaurant rejects additions that would mix dishes from two
// restaurants in one cart. The guard is active on add only; update keeps
// the historical asymmetry.
var ErrCrossRestaurant = errors.New("you can only order from one restaurant at a time, clear the cart to switch")

type CatalogReader interface {
	AvailableDish(ctx context.Context, id int64) (*models.Dish, error)
	DishesByIDs(ctx context.Context, ids []int64) ([]models.Dish, error)
}

type CartStore interface {
	Get(ctx context.Context, sessionID string) (Cart, error)
	Save(ctx context.Context, sessionID string, c Cart) error
	Clear(ctx context.Context, sessionID string) error
}

type Service struct {
	Store   CartStore
	Catalog CatalogReader
	Logger  *logger.Logger
}

func NewService(store CartStore, catalog CatalogReader, log *logger.Logger) *Service {
	return &Service{Store: store, Catalog: catalog, Logger: log}
}

// MutationResult is the payload of the JSON cart endpoints.
type MutationResult struct {
	DishID    int64 `json:"dish_id"`
	Qty       int   `json:"qty"`
	CartCount int   `json:"cart_count"`
}

// Line is one resolved cart entry priced at the dish's current price.
type Line struct {
	Dish      models.Dish     `json:"dish"`
	Qty       int             `json:"qty"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// View is the cart resolved against the current catalog.
type View struct {
	Items []Line          `json:"items"`
	Total decimal.Decimal `json:"total"`
}

// Add puts one more unit of dishID into the session's cart. The dish
// must currently be available, and a non-empty cart must already belong
// to the dish's restaurant.
func (s *Service) Add(ctx context.Context, sessionID string, dishID int64) (*MutationResult, error) {
	dish, err := s.Catalog.AvailableDish(ctx, dishID)
	if err != nil {
		return nil, err
	}

	c, err := s.Store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if len(c) > 0 {
		existing, err := s.Catalog.DishesByIDs(ctx, c.IDs())
		if err != nil {
			return nil, err
		}
		for _, d := range existing {
			if d.RestaurantID != dish.RestaurantID {
				return nil, ErrCrossRestaurant
			}
		}
	}

	qty := c.Add(dishID)
	if err := s.Store.Save(ctx, sessionID, c); err != nil {
		return nil, err
	}

	s.Logger.LogCart("ADD", sessionID, fmt.Sprintf("dish %d qty %d", dishID, qty))
	return &MutationResult{DishID: dishID, Qty: qty, CartCount: c.Count()}, nil
}

// Update sets the quantity for dishID; qty <= 0 removes the entry.
// No restaurant-consistency check here, only add enforces it.
func (s *Service) Update(ctx context.Context, sessionID string, dishID int64, qty int) (*MutationResult, error) {
	c, err := s.Store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	c.Set(dishID, qty)
	if qty < 0 {
		qty = 0
	}
	if err := s.Store.Save(ctx, sessionID, c); err != nil {
		return nil, err
	}

	s.Logger.LogCart("UPDATE", sessionID, fmt.Sprintf("dish %d qty %d", dishID, qty))
	return &MutationResult{DishID: dishID, Qty: qty, CartCount: c.Count()}, nil
}

// Remove deletes the entry if present; no-op otherwise.
func (s *Service) Remove(ctx context.Context, sessionID string, dishID int64) error {
	c, err := s.Store.Get(ctx, sessionID)
	if err != nil {
		return err
	}

	c.Remove(dishID)
	if err := s.Store.Save(ctx, sessionID, c); err != nil {
		return err
	}

	s.Logger.LogCart("REMOVE", sessionID, fmt.Sprintf("dish %d", dishID))
	return nil
}

// Clear empties the session's cart.
func (s *Service) Clear(ctx context.Context, sessionID string) error {
	if err := s.Store.Clear(ctx, sessionID); err != nil {
		return err
	}
	s.Logger.LogCart("CLEAR", sessionID, "cart emptied")
	return nil
}

// Count returns the badge count for the session.
func (s *Service) Count(ctx context.Context, sessionID string) (int, error) {
	c, err := s.Store.Get(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	return c.Count(), nil
}

// View resolves the cart against current dish availability and prices.
// Dishes deleted or made unavailable since they were added are silently
// dropped from the computed totals.
func (s *Service) View(ctx context.Context, sessionID string) (*View, error) {
	c, err := s.Store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	view := &View{Items: []Line{}, Total: decimal.Zero}
	if len(c) == 0 {
		return view, nil
	}

	dishes, err := s.Catalog.DishesByIDs(ctx, c.IDs())
	if err != nil {
		return nil, err
	}

	for _, dish := range dishes {
		if !dish.IsAvailable {
			continue
		}
		qty := c[dish.ID]
		if qty <= 0 {
			continue
		}
		lineTotal := dish.Price.Mul(decimal.NewFromInt(int64(qty)))
		view.Items = append(view.Items, Line{Dish: dish, Qty: qty, LineTotal: lineTotal})
		view.Total = view.Total.Add(lineTotal)
	}
	return view, nil
}

package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"foodbooking/internal/auth"
	"foodbooking/internal/logger"
	"foodbooking/internal/models"
)

// Filter values arrive straight from query parameters; unknown or
// malformed values fall back to unfiltered rather than erroring.
type Filter struct {
	Query        string
	Veg          string
	MinRating    string
	PriceBand    string
	RestaurantID int64
	Sort         string
}

const (
	VegOnly    = "veg"
	NonVegOnly = "nonveg"

	PriceLow  = "low"
	PriceMid  = "mid"
	PriceHigh = "high"

	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortRating    = "rating"
)

// ErrForbidden rejects management operations outside the caller's
// restaurant scope.
var ErrForbidden = errors.New("dish belongs to another restaurant")

// Group collects one restaurant's dishes under a category; a nil
// category marks the trailing uncategorized group.
type Group struct {
	Category *models.Category `json:"category"`
	Dishes   []models.Dish    `json:"dishes"`
}

// Result carries the flat match list, plus category groups when the
// search was scoped to a single restaurant.
type Result struct {
	Dishes []models.Dish `json:"dishes"`
	Groups []Group       `json:"grouped,omitempty"`
}

type DBLayer interface {
	SearchDishes(ctx context.Context, f Filter) ([]models.Dish, error)
	ActiveRestaurants(ctx context.Context) ([]models.Restaurant, error)
	ActiveRestaurantByID(ctx context.Context, id int64) (*models.Restaurant, error)
	Categories(ctx context.Context) ([]models.Category, error)
	GetDish(ctx context.Context, id int64) (*models.Dish, error)
	DishesByRestaurant(ctx context.Context, restaurantID int64) ([]models.Dish, error)
	CreateDish(ctx context.Context, dish *models.Dish) error
	UpdateDish(ctx context.Context, dish *models.Dish) error
	DeleteDish(ctx context.Context, id int64) error
}

type Service struct {
	DB     DBLayer
	Logger *logger.Logger
}

func NewService(db DBLayer, log *logger.Logger) *Service {
	return &Service{DB: db, Logger: log}
}

// Search runs the catalog query. When scoped to one restaurant the
// dishes are additionally grouped by category name, uncategorized last.
func (s *Service) Search(ctx context.Context, f Filter) (*Result, error) {
	dishes, err := s.DB.SearchDishes(ctx, f)
	if err != nil {
		return nil, err
	}

	result := &Result{Dishes: dishes}
	if f.RestaurantID != 0 {
		result.Groups = groupByCategory(dishes)
	}
	return result, nil
}

func groupByCategory(dishes []models.Dish) []Group {
	byCategory := make(map[int64][]models.Dish)
	categories := make(map[int64]*models.Category)
	var uncategorized []models.Dish

	for _, dish := range dishes {
		if dish.CategoryID == nil || dish.Category == nil {
			uncategorized = append(uncategorized, dish)
			continue
		}
		byCategory[*dish.CategoryID] = append(byCategory[*dish.CategoryID], dish)
		categories[*dish.CategoryID] = dish.Category
	}

	ordered := make([]*models.Category, 0, len(categories))
	for _, category := range categories {
		ordered = append(ordered, category)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Name < ordered[j].Name })

	groups := make([]Group, 0, len(ordered)+1)
	for _, category := range ordered {
		groups = append(groups, Group{Category: category, Dishes: byCategory[category.ID]})
	}
	if len(uncategorized) > 0 {
		groups = append(groups, Group{Category: nil, Dishes: uncategorized})
	}
	return groups
}

// ActiveRestaurants lists the restaurants of the public catalog.
func (s *Service) ActiveRestaurants(ctx context.Context) ([]models.Restaurant, error) {
	return s.DB.ActiveRestaurants(ctx)
}

// Categories feeds the management selection widgets.
func (s *Service) Categories(ctx context.Context) ([]models.Category, error) {
	return s.DB.Categories(ctx)
}

// DishInput is one row of the management add/edit form.
type DishInput struct {
	CategoryID  *int64          `json:"category_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	IsVeg       bool            `json:"is_veg"`
	IsAvailable bool            `json:"is_available"`
	Image       string          `json:"image"`
	Rating      decimal.Decimal `json:"rating"`
}

func (in DishInput) validate() error {
	if in.Name == "" {
		return errors.New("dish name is required")
	}
	if in.Price.IsNegative() {
		return errors.New("price must not be negative")
	}
	if in.Rating.IsNegative() || in.Rating.GreaterThan(decimal.NewFromInt(5)) {
		return errors.New("rating must be between 0 and 5")
	}
	return nil
}

// AddDishes creates dishes for the caller's restaurant. Rows that fail
// validation abort the whole batch. Returns the number created.
func (s *Service) AddDishes(ctx context.Context, caller auth.Caller, inputs []DishInput) (int, error) {
	if caller.RestaurantID == 0 {
		return 0, auth.ErrNoProfile
	}

	created := 0
	for _, in := range inputs {
		if err := in.validate(); err != nil {
			return 0, err
		}
		dish := &models.Dish{
			RestaurantID: caller.RestaurantID,
			CategoryID:   in.CategoryID,
			Name:         in.Name,
			Description:  in.Description,
			Price:        in.Price.Round(2),
			IsVeg:        in.IsVeg,
			IsAvailable:  in.IsAvailable,
			Image:        in.Image,
			Rating:       in.Rating.Round(1),
		}
		if err := s.DB.CreateDish(ctx, dish); err != nil {
			return created, err
		}
		created++
	}

	s.Logger.Info("CATALOG", fmt.Sprintf("restaurant %d added %d dish(es)", caller.RestaurantID, created))
	return created, nil
}

// UpdateDish edits a dish inside the caller's restaurant scope.
func (s *Service) UpdateDish(ctx context.Context, caller auth.Caller, id int64, in DishInput) (*models.Dish, error) {
	dish, err := s.DB.GetDish(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.CanManage(dish.RestaurantID) {
		return nil, ErrForbidden
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	dish.CategoryID = in.CategoryID
	dish.Name = in.Name
	dish.Description = in.Description
	dish.Price = in.Price.Round(2)
	dish.IsVeg = in.IsVeg
	dish.IsAvailable = in.IsAvailable
	dish.Image = in.Image
	dish.Rating = in.Rating.Round(1)

	if err := s.DB.UpdateDish(ctx, dish); err != nil {
		return nil, err
	}
	return dish, nil
}

// DeleteDish removes a dish inside the caller's restaurant scope.
func (s *Service) DeleteDish(ctx context.Context, caller auth.Caller, id int64) error {
	dish, err := s.DB.GetDish(ctx, id)
	if err != nil {
		return err
	}
	if !caller.CanManage(dish.RestaurantID) {
		return ErrForbidden
	}
	return s.DB.DeleteDish(ctx, id)
}

// DishesForRestaurant is the management listing, scoped to the caller.
func (s *Service) DishesForRestaurant(ctx context.Context, caller auth.Caller) ([]models.Dish, error) {
	if caller.RestaurantID == 0 {
		return nil, auth.ErrNoProfile
	}
	return s.DB.DishesByRestaurant(ctx, caller.RestaurantID)
}

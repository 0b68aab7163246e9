package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"foodbooking/internal/logger"
	"foodbooking/internal/models"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrMissingFields      = errors.New("username and password are required")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrUsernameTaken      = errors.New("username already exists")
	// ErrNoProfile means the user has no restaurant association; every
	// restaurant-side feature fails closed on it.
	ErrNoProfile = errors.New("no restaurant access for this user")
)

type DBLayer interface {
	CreateUser(ctx context.Context, user *models.User) error
	UserByUsername(ctx context.Context, username string) (*models.User, error)
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	UserByID(ctx context.Context, id int64) (*models.User, error)
	ProfileByUserID(ctx context.Context, userID int64) (*models.RestaurantProfile, error)
}

type Service struct {
	DB       DBLayer
	Sessions *SessionStore
	Logger   *logger.Logger
}

func NewService(db DBLayer, sessions *SessionStore, log *logger.Logger) *Service {
	return &Service{DB: db, Sessions: sessions, Logger: log}
}

// Register creates an account and returns the user. Validation errors
// surface as user-visible messages.
func (s *Service) Register(ctx context.Context, username, email, password, confirm string) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	password = strings.TrimSpace(password)

	if username == "" || password == "" {
		return nil, ErrMissingFields
	}
	if password != strings.TrimSpace(confirm) {
		return nil, ErrPasswordMismatch
	}
	if existing, err := s.DB.UserByUsername(ctx, username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrUsernameTaken
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{Username: username, Email: email, PasswordHash: hash}
	if err := s.DB.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.Logger.Info("AUTH", fmt.Sprintf("registered user %s", username))
	return user, nil
}

// Login accepts a username or an email address in the identity field.
func (s *Service) Login(ctx context.Context, identity, password string) (*models.User, error) {
	identity = strings.TrimSpace(identity)
	password = strings.TrimSpace(password)

	username := identity
	if strings.Contains(identity, "@") {
		if byEmail, err := s.DB.UserByEmail(ctx, identity); err != nil {
			return nil, err
		} else if byEmail != nil {
			username = byEmail.Username
		}
	}

	user, err := s.DB.UserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil || !CheckPassword(user.PasswordHash, password) {
		s.Logger.LogSecurity("LOGIN_FAILED", fmt.Sprintf("identity %q", identity))
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// RestaurantLogin additionally requires a restaurant profile; users
// without one are rejected before any session is bound.
func (s *Service) RestaurantLogin(ctx context.Context, identity, password string) (*models.User, *models.RestaurantProfile, error) {
	user, err := s.Login(ctx, identity, password)
	if err != nil {
		return nil, nil, err
	}
	profile, err := s.DB.ProfileByUserID(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	if profile == nil {
		return nil, nil, ErrNoProfile
	}
	return user, profile, nil
}

// BindUser associates the user with the session after a login.
func (s *Service) BindUser(ctx context.Context, session *Session, userID int64) error {
	session.UserID = userID
	return s.Sessions.Save(ctx, session)
}

// Logout drops the session entirely; the next request starts a fresh
// anonymous one.
func (s *Service) Logout(ctx context.Context, session *Session) error {
	return s.Sessions.Delete(ctx, session.ID)
}

// ResolveCaller maps a user to the tagged Caller variant: platform
// admins are unrestricted, staff are scoped to their one restaurant,
// anyone else gets ErrNoProfile.
func (s *Service) ResolveCaller(ctx context.Context, user *models.User) (Caller, error) {
	profile, err := s.DB.ProfileByUserID(ctx, user.ID)
	if err != nil {
		return Caller{}, err
	}
	if user.IsAdmin {
		caller := Caller{Kind: CallerAdmin, UserID: user.ID}
		if profile != nil {
			caller.RestaurantID = profile.RestaurantID
			caller.Role = profile.Role
		}
		return caller, nil
	}
	if profile == nil {
		return Caller{}, ErrNoProfile
	}
	return Caller{
		Kind:         CallerRestaurantStaff,
		UserID:       user.ID,
		RestaurantID: profile.RestaurantID,
		Role:         profile.Role,
	}, nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/safar/armigera-store/internal/logkey"
	"github.com/safar/armigera-store/internal/models"
	"github.com/safar/armigera-store/internal/store"
)

type RegisterInput struct {
	Name            string `validate:"required"`
	Email           string `validate:"required,email"`
	Password        string `validate:"required,min=6"`
	ConfirmPassword string `validate:"eqfield=Password"`
	Phone           string
	Address         string
}

// AccountService registers customers and checks their credentials. Passwords
// are stored and compared as entered; there is no hashing.
type AccountService struct {
	db  *store.DB
	log *slog.Logger
}

func NewAccountService(db *store.DB, log *slog.Logger) *AccountService {
	return &AccountService{db: db, log: log}
}

// Register creates a customer account. The email must not belong to any
// existing user.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (models.User, error) {
	if err := check(in); err != nil {
		return models.User{}, err
	}

	_, err := s.db.UserByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return models.User{}, ErrEmailTaken
	case !errors.Is(err, store.ErrNotFound):
		return models.User{}, fmt.Errorf("register: %w", err)
	}

	u, err := s.db.Users().Create(ctx, models.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: in.Password,
		Role:     models.RoleUser,
		Phone:    in.Phone,
		Address:  in.Address,
	})
	if err != nil {
		return models.User{}, fmt.Errorf("register: %w", err)
	}

	s.log.Info("user registered", slog.String(logkey.ID, u.ID))
	return u, nil
}

// Authenticate returns the user with email and password and records the
// login time. Unknown emails and wrong passwords both yield
// ErrInvalidCredentials.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	u, err := s.db.UserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return models.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.User{}, fmt.Errorf("authenticate: %w", err)
	}
	if u.Password != password {
		s.log.Warn("login rejected", slog.String(logkey.ID, u.ID))
		return models.User{}, ErrInvalidCredentials
	}

	now := s.db.Now()
	u, err = s.db.Users().Update(ctx, u.ID, models.UserPatch{LastLogin: &now})
	if err != nil {
		return models.User{}, fmt.Errorf("authenticate: %w", err)
	}
	return u, nil
}

// Admins returns the users allowed into the admin area.
func (s *AccountService) Admins(ctx context.Context) ([]models.User, error) {
	users, err := s.db.Users().GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	admins := users[:0]
	for _, u := range users {
		if u.Role == models.RoleAdmin {
			admins = append(admins, u)
		}
	}
	return admins, nil
}

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"vitrin/models"
	"vitrin/store"
	"vitrin/utils"
)

// ErrUserExists is returned when registering an email that is already taken.
var ErrUserExists = errors.New("user already exists")

// Service manages user accounts. Every user record leaving this package is
// sanitized: no password hash, no refresh token material.
type Service struct {
	users store.UserRepository
}

func NewService(users store.UserRepository) *Service {
	return &Service{users: users}
}

// Register creates a new account with a bcrypt-hashed password and returns
// the sanitized user.
func (s *Service) Register(ctx context.Context, email, password, name string) (models.User, error) {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return models.User{}, ErrUserExists
	} else if !errors.Is(err, store.ErrNotFound) {
		return models.User{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	u := models.User{
		UserID:       utils.GenerateID(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hashed),
		CreatedAt:    time.Now(),
	}
	if err := s.users.Put(ctx, u); err != nil {
		return models.User{}, fmt.Errorf("put user: %w", err)
	}
	return sanitize(u), nil
}

// Login checks the credentials. A wrong email or password is not an error:
// it returns ok=false so the caller can answer 401 without a stack trace.
func (s *Service) Login(ctx context.Context, email, password string) (models.User, bool, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.User{}, false, nil
		}
		return models.User{}, false, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return models.User{}, false, nil
	}
	return sanitize(u), true, nil
}

func (s *Service) GetUserByID(ctx context.Context, userID string) (models.User, error) {
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return models.User{}, err
	}
	return sanitize(u), nil
}

func (s *Service) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return models.User{}, err
	}
	return sanitize(u), nil
}

func sanitize(u models.User) models.User {
	u.PasswordHash = ""
	u.RefreshToken = ""
	u.RefreshExpiry = time.Time{}
	return u
}

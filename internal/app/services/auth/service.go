// Package auth resolves users at the session boundary. The core services
// never authenticate; they receive the user id this package resolves.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/verdeviva/plantcare/internal/app/domain/user"
	"github.com/verdeviva/plantcare/internal/app/storage"
	"github.com/verdeviva/plantcare/pkg/logger"
)

// ErrInvalidCredentials is returned for a bad email/password pair. Unknown
// email and wrong password are indistinguishable to the caller.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Service registers and authenticates users.
type Service struct {
	store storage.UserStore
	log   *logger.Logger
}

// New constructs an auth service.
func New(store storage.UserStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("auth")
	}
	return &Service{store: store, log: log}
}

// Register creates an account with a bcrypt password hash.
func (s *Service) Register(ctx context.Context, name, email, password string) (user.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	if name == "" || email == "" {
		return user.User{}, fmt.Errorf("name and email are required")
	}
	if len(password) < 6 {
		return user.User{}, fmt.Errorf("password must be at least 6 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return user.User{}, fmt.Errorf("hash password: %w", err)
	}

	created, err := s.store.CreateUser(ctx, user.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
	})
	if err != nil {
		if errors.Is(err, storage.ErrDuplicateEmail) {
			return user.User{}, err
		}
		s.log.WithError(err).Error("create user failed")
		return user.User{}, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

// Authenticate verifies an email/password pair.
func (s *Service) Authenticate(ctx context.Context, email, password string) (user.User, error) {
	u, err := s.store.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return user.User{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return user.User{}, ErrInvalidCredentials
	}
	return u, nil
}

// Get returns a user by id.
func (s *Service) Get(ctx context.Context, id int64) (user.User, error) {
	return s.store.GetUser(ctx, id)
}

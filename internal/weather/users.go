package weather

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// LoginResult reports the logged-in user and whether the account was created.
type LoginResult struct {
	User    User
	Created bool
}

// UserService implements email-only login.
type UserService struct {
	store  UserStore
	logger *zap.Logger
	now    func() time.Time
}

func NewUserService(store UserStore, logger *zap.Logger) *UserService {
	return &UserService{store: store, logger: logger, now: time.Now}
}

// ValidateEmail applies the minimal format check used at login.
func ValidateEmail(email string) error {
	if email == "" {
		return NewError(ErrValidation, "Email is required")
	}
	if !strings.Contains(email, "@") || !strings.Contains(email, ".") {
		return NewError(ErrValidation, "Invalid email format")
	}
	return nil
}

// Login creates the user on first login and refreshes last-login otherwise.
func (s *UserService) Login(ctx context.Context, email string) (LoginResult, error) {
	if err := ValidateEmail(email); err != nil {
		return LoginResult{}, err
	}
	now := s.now().UTC()

	user, err := s.store.FindUserByEmail(ctx, email)
	switch {
	case err == nil:
		user, err = s.store.TouchLastLogin(ctx, user.ID, now)
		if err != nil {
			return LoginResult{}, fmt.Errorf("update last login: %w", err)
		}
		return LoginResult{User: user}, nil
	case !errors.Is(err, ErrNotFound):
		return LoginResult{}, fmt.Errorf("find user: %w", err)
	}

	user, err = s.store.CreateUser(ctx, email, now)
	if errors.Is(err, ErrConflict) {
		// A concurrent login created the account first.
		existing, findErr := s.store.FindUserByEmail(ctx, email)
		if findErr != nil {
			return LoginResult{}, fmt.Errorf("find user after conflict: %w", findErr)
		}
		user, err = s.store.TouchLastLogin(ctx, existing.ID, now)
		if err != nil {
			return LoginResult{}, fmt.Errorf("update last login: %w", err)
		}
		return LoginResult{User: user}, nil
	}
	if err != nil {
		return LoginResult{}, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("created user", zap.Int64("user_id", user.ID))
	return LoginResult{User: user, Created: true}, nil
}

// UserIDByEmail resolves an email to a user id.
func (s *UserService) UserIDByEmail(ctx context.Context, email string) (int64, error) {
	if email == "" {
		return 0, NewError(ErrValidation, "Email is required")
	}
	user, err := s.store.FindUserByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return 0, NewError(ErrNotFound, "User not found")
	}
	if err != nil {
		return 0, fmt.Errorf("find user: %w", err)
	}
	return user.ID, nil
}

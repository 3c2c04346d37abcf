package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/AchilleasB/campus-hub/campus-service/internal/core/domain"
	"github.com/AchilleasB/campus-hub/campus-service/internal/core/ports"
	"github.com/AchilleasB/campus-hub/campus-service/internal/core/validation"
)

// AuthService checks credentials against stored users. Passwords are stored
// and compared in plaintext to stay compatible with existing accounts.
type AuthService struct {
	users    ports.UserRepository
	throttle ports.LoginThrottle
	now      func() time.Time
	log      *zap.Logger
}

var _ ports.AuthService = (*AuthService)(nil)

// NewAuthService builds the service. throttle may be nil, in which case
// failed logins are not limited.
func NewAuthService(users ports.UserRepository, throttle ports.LoginThrottle, opts ...Option) *AuthService {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &AuthService{
		users:    users,
		throttle: throttle,
		now:      o.now,
		log:      o.logger.Named("auth"),
	}
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, domain.NewValidationError("Email and password are required")
	}

	if s.throttle != nil {
		allowed, err := s.throttle.Allow(ctx, email)
		if err != nil {
			s.log.Warn("login throttle unavailable, allowing attempt", zap.Error(err))
		} else if !allowed {
			loginAttempts.WithLabelValues("throttled").Inc()
			return nil, domain.ErrTooManyAttempts
		}
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("login: %w", err)
	}
	if user == nil || subtle.ConstantTimeCompare([]byte(user.Password), []byte(password)) != 1 {
		s.recordFailure(ctx, email)
		loginAttempts.WithLabelValues("invalid").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	if s.throttle != nil {
		if err := s.throttle.Reset(ctx, email); err != nil {
			s.log.Warn("failed to reset login throttle", zap.Error(err))
		}
	}

	loginAttempts.WithLabelValues("success").Inc()
	return user, nil
}

func (s *AuthService) recordFailure(ctx context.Context, email string) {
	if s.throttle == nil {
		return
	}
	if err := s.throttle.RecordFailure(ctx, email); err != nil {
		s.log.Warn("failed to record login failure", zap.Error(err))
	}
}

// Verify resolves a user id presented as a bearer credential.
func (s *AuthService) Verify(ctx context.Context, userID string) (*domain.User, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrUnauthenticated
	}
	if err != nil {
		return nil, fmt.Errorf("verify: %w", err)
	}
	return user, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	if userID == "" || oldPassword == "" || newPassword == "" {
		return domain.NewValidationError("All fields are required")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("change password: %w", err)
	}

	if subtle.ConstantTimeCompare([]byte(user.Password), []byte(oldPassword)) != 1 {
		return domain.ErrInvalidCredentials
	}

	if !validation.Password(newPassword) {
		return domain.NewValidationError("New password does not meet security requirements")
	}

	if err := s.users.UpdatePassword(ctx, userID, newPassword, s.now().UTC()); err != nil {
		return fmt.Errorf("change password: %w", err)
	}

	s.log.Info("password changed", zap.String("user_id", userID))
	return nil
}

func (s *AuthService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

package ports

import (
	"context"

	"github.com/AchilleasB/campus-hub/campus-service/internal/core/domain"
	"github.com/AchilleasB/campus-hub/campus-service/internal/core/validation"
)

// ResourceService is the create/list/delete contract shared by every kind.
type ResourceService[T any] interface {
	Kind() domain.Kind
	Create(ctx context.Context, fields validation.Fields, caller domain.Caller) (*T, error)
	List(ctx context.Context) ([]T, error)
	Delete(ctx context.Context, id string, caller domain.Caller) error
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (*domain.User, error)
	Verify(ctx context.Context, userID string) (*domain.User, error)
	ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error
	ListUsers(ctx context.Context) ([]domain.User, error)
}

type RegistrationInput struct {
	Name       string
	Email      string
	Password   string
	Phone      string
	Department string
}

type RegistrationService interface {
	Register(ctx context.Context, in RegistrationInput) (*domain.User, error)
}

// LoginThrottle counts failed logins per key (the email address).
type LoginThrottle interface {
	Allow(ctx context.Context, key string) (bool, error)
	RecordFailure(ctx context.Context, key string) error
	Reset(ctx context.Context, key string) error
}

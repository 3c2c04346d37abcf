package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/AchilleasB/campus-hub/campus-service/internal/core/domain"
	"github.com/AchilleasB/campus-hub/campus-service/internal/core/ports"
	"github.com/AchilleasB/campus-hub/campus-service/internal/core/validation"
)

type registrationRequest struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email,nowhitespace"`
	Password   string `json:"password" validate:"required,password"`
	Department string `json:"department" validate:"required"`
}

// checkRegistration reports the first failing rule in the order the client
// form presents them.
func checkRegistration(in ports.RegistrationInput) error {
	problems := validation.Check(&registrationRequest{
		Name:       in.Name,
		Email:      in.Email,
		Password:   in.Password,
		Department: in.Department,
	})
	if len(problems) == 0 {
		return nil
	}
	switch p := problems[0]; {
	case p.Tag == "required":
		return domain.NewValidationError("Name, email, password, and department are required")
	case p.Field == "email":
		return domain.NewValidationError("Invalid email format")
	default:
		return domain.NewValidationError(validation.PasswordPolicyText)
	}
}

type RegistrationService struct {
	users ports.UserRepository
	newID func() string
	now   func() time.Time
	log   *zap.Logger
}

var _ ports.RegistrationService = (*RegistrationService)(nil)

func NewRegistrationService(users ports.UserRepository, opts ...Option) *RegistrationService {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &RegistrationService{
		users: users,
		newID: o.newID,
		now:   o.now,
		log:   o.logger.Named("registration"),
	}
}

// Register creates a student account. Self-registration never grants the
// admin role.
func (s *RegistrationService) Register(ctx context.Context, in ports.RegistrationInput) (*domain.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Department = strings.TrimSpace(in.Department)
	in.Phone = strings.TrimSpace(in.Phone)

	if err := checkRegistration(in); err != nil {
		return nil, err
	}

	existing, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("register: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrEmailTaken
	}

	now := s.now().UTC().Truncate(time.Microsecond)
	user := domain.User{
		Name:       in.Name,
		Email:      in.Email,
		Password:   in.Password,
		Role:       domain.RoleStudent,
		Department: in.Department,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if in.Phone != "" {
		phone := in.Phone
		user.Phone = &phone
	}

	for attempt := 1; ; attempt++ {
		user.ID = s.newID()

		err := s.users.Create(ctx, user)
		if err == nil {
			break
		}
		// a concurrent registration may win the unique email between the
		// lookup and the insert
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil, domain.ErrEmailTaken
		}
		if attempt == 1 && errors.Is(err, domain.ErrDuplicateKey) {
			s.log.Warn("generated user id already taken, retrying", zap.String("id", user.ID))
			continue
		}
		return nil, fmt.Errorf("register: %w", err)
	}

	s.log.Info("user registered", zap.String("user_id", user.ID))
	return &user, nil
}

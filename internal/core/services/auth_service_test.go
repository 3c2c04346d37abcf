package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/AchilleasB/campus-hub/campus-service/internal/core/domain"
	"github.com/AchilleasB/campus-hub/campus-service/internal/core/services"
	"github.com/AchilleasB/campus-hub/campus-service/internal/mocks"
)

func seededUsers() *mocks.MockUserRepository {
	repo := mocks.NewMockUserRepository()
	repo.SeedUser(domain.User{
		ID: "admin_1", Name: "Admin User", Email: "admin@campushub.com",
		Password: "Admin@123", Role: domain.RoleAdmin, Department: "Administration",
	})
	repo.SeedUser(domain.User{
		ID: "student_1", Name: "Raj Kumar", Email: "raj@student.com",
		Password: "Student@123", Role: domain.RoleStudent, Department: "Computer Science",
	})
	return repo
}

func TestAuthService_Login(t *testing.T) {
	tests := []struct {
		name      string
		email     string
		password  string
		expectErr error
		expectID  string
	}{
		{"valid_admin", "admin@campushub.com", "Admin@123", nil, "admin_1"},
		{"valid_student_with_padding", "  raj@student.com ", "Student@123", nil, "student_1"},
		{"wrong_password", "raj@student.com", "Student@124", domain.ErrInvalidCredentials, ""},
		{"unknown_email", "ghost@student.com", "Student@123", domain.ErrInvalidCredentials, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := services.NewAuthService(seededUsers(), nil)

			user, err := svc.Login(context.Background(), tt.email, tt.password)

			if tt.expectErr != nil {
				assert.ErrorIs(t, err, tt.expectErr)
				assert.Nil(t, user)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectID, user.ID)
		})
	}
}

func TestAuthService_Login_MissingFields(t *testing.T) {
	svc := services.NewAuthService(seededUsers(), nil)

	_, err := svc.Login(context.Background(), "", "Admin@123")
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Email and password are required", verr.Error())
}

func TestAuthService_Login_StoreUnavailable(t *testing.T) {
	repo := seededUsers()
	repo.FindByEmailError = domain.ErrStoreUnavailable
	svc := services.NewAuthService(repo, nil)

	_, err := svc.Login(context.Background(), "raj@student.com", "Student@123")
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

func TestAuthService_Login_Throttle(t *testing.T) {
	throttle := mocks.NewMockLoginThrottle(2)
	svc := services.NewAuthService(seededUsers(), throttle)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := svc.Login(ctx, "raj@student.com", "wrong")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	}
	assert.Equal(t, 2, throttle.Failures("raj@student.com"))

	_, err := svc.Login(ctx, "raj@student.com", "Student@123")
	assert.ErrorIs(t, err, domain.ErrTooManyAttempts, "correct password is refused while locked out")

	// other accounts are unaffected
	_, err = svc.Login(ctx, "admin@campushub.com", "Admin@123")
	assert.NoError(t, err)
	assert.Equal(t, []string{"admin@campushub.com"}, throttle.ResetCalls)
}

func TestAuthService_Login_ThrottleFailsOpen(t *testing.T) {
	throttle := mocks.NewMockLoginThrottle(1)
	throttle.AllowError = errors.New("redis down")
	svc := services.NewAuthService(seededUsers(), throttle)

	user, err := svc.Login(context.Background(), "raj@student.com", "Student@123")
	require.NoError(t, err)
	assert.Equal(t, "student_1", user.ID)
}

func TestAuthService_Login_ThrottleWriteErrorsLoggedOnce(t *testing.T) {
	throttle := mocks.NewMockLoginThrottle(5)
	throttle.RecordError = errors.New("redis down")
	throttle.ResetError = errors.New("redis down")
	core, logs := observer.New(zap.WarnLevel)
	svc := services.NewAuthService(seededUsers(), throttle, services.WithLogger(zap.New(core)))
	ctx := context.Background()

	_, err := svc.Login(ctx, "raj@student.com", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.Equal(t, 1, logs.FilterMessage("failed to record login failure").Len())

	_, err = svc.Login(ctx, "raj@student.com", "Student@123")
	require.NoError(t, err)
	assert.Equal(t, 1, logs.FilterMessage("failed to reset login throttle").Len())
	assert.Equal(t, 2, logs.Len())
}

func TestAuthService_Verify(t *testing.T) {
	svc := services.NewAuthService(seededUsers(), nil)
	ctx := context.Background()

	user, err := svc.Verify(ctx, "student_1")
	require.NoError(t, err)
	assert.Equal(t, "raj@student.com", user.Email)

	_, err = svc.Verify(ctx, "student_99")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	_, err = svc.Verify(ctx, "")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestAuthService_ChangePassword(t *testing.T) {
	tests := []struct {
		name        string
		userID      string
		oldPassword string
		newPassword string
		expectErr   error
		expectValid bool
	}{
		{"success", "student_1", "Student@123", "NewPass@456", nil, false},
		{"missing_field", "student_1", "", "NewPass@456", nil, true},
		{"unknown_user", "student_99", "Student@123", "NewPass@456", domain.ErrNotFound, false},
		{"wrong_old_password", "student_1", "Nope@1234", "NewPass@456", domain.ErrInvalidCredentials, false},
		{"weak_new_password", "student_1", "Student@123", "weak", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := seededUsers()
			svc := services.NewAuthService(repo, nil, services.WithClock(fixedClock))

			err := svc.ChangePassword(context.Background(), tt.userID, tt.oldPassword, tt.newPassword)

			switch {
			case tt.expectValid:
				var verr *domain.ValidationError
				assert.ErrorAs(t, err, &verr)
				assert.Empty(t, repo.UpdatePasswordCalls)
			case tt.expectErr != nil:
				assert.ErrorIs(t, err, tt.expectErr)
				assert.Empty(t, repo.UpdatePasswordCalls)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.newPassword, repo.Password(tt.userID))
			}
		})
	}
}

func TestAuthService_ListUsers(t *testing.T) {
	svc := services.NewAuthService(seededUsers(), nil)

	users, err := svc.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

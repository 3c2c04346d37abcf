package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AchilleasB/campus-hub/campus-service/internal/core/domain"
)

func testUser(id, email string) domain.User {
	phone := "9876543211"
	return domain.User{
		ID:         id,
		Name:       "Raj Kumar",
		Email:      email,
		Password:   "Student@123",
		Role:       domain.RoleStudent,
		Phone:      &phone,
		Department: "Computer Science",
		CreatedAt:  utc(8, 0),
		UpdatedAt:  utc(8, 0),
	}
}

func TestUserRepository_CreateAndFind(t *testing.T) {
	repo := NewUserRepository(newTestStore(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testUser("student_1", "raj@student.com")))

	byEmail, err := repo.FindByEmail(ctx, "raj@student.com")
	require.NoError(t, err)
	assert.Equal(t, "student_1", byEmail.ID)
	assert.Equal(t, domain.RoleStudent, byEmail.Role)
	require.NotNil(t, byEmail.Phone)
	assert.Equal(t, "9876543211", *byEmail.Phone)

	byID, err := repo.FindByID(ctx, "student_1")
	require.NoError(t, err)
	assert.Equal(t, "Student@123", byID.Password)

	_, err = repo.FindByEmail(ctx, "ghost@student.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserRepository_NullPhone(t *testing.T) {
	repo := NewUserRepository(newTestStore(t))
	ctx := context.Background()

	u := testUser("student_9", "nophone@student.com")
	u.Phone = nil
	require.NoError(t, repo.Create(ctx, u))

	got, err := repo.FindByID(ctx, "student_9")
	require.NoError(t, err)
	assert.Nil(t, got.Phone)
}

func TestUserRepository_Duplicates(t *testing.T) {
	repo := NewUserRepository(newTestStore(t))
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, testUser("student_1", "raj@student.com")))

	err := repo.Create(ctx, testUser("student_2", "raj@student.com"))
	assert.ErrorIs(t, err, domain.ErrEmailTaken)

	err = repo.Create(ctx, testUser("student_1", "other@student.com"))
	assert.ErrorIs(t, err, domain.ErrDuplicateKey)
	assert.NotErrorIs(t, err, domain.ErrEmailTaken)
}

func TestUserRepository_UpdatePassword(t *testing.T) {
	repo := NewUserRepository(newTestStore(t))
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, testUser("student_1", "raj@student.com")))

	require.NoError(t, repo.UpdatePassword(ctx, "student_1", "NewPass@456", utc(12, 30)))

	got, err := repo.FindByID(ctx, "student_1")
	require.NoError(t, err)
	assert.Equal(t, "NewPass@456", got.Password)
	assert.True(t, got.UpdatedAt.Equal(utc(12, 30)))

	assert.ErrorIs(t, repo.UpdatePassword(ctx, "student_99", "x", utc(12, 30)), domain.ErrNotFound)
}

func TestUserRepository_ListAndCount(t *testing.T) {
	repo := NewUserRepository(newTestStore(t))
	ctx := context.Background()

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, repo.Create(ctx, testUser("student_1", "raj@student.com")))
	require.NoError(t, repo.Create(ctx, testUser("student_2", "priya@student.com")))

	n, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	users, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

package services

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"

	"github.com/AchilleasB/campus-hub/campus-service/internal/core/domain"
	"github.com/AchilleasB/campus-hub/campus-service/internal/core/ports"
)

//go:embed default_users.toml
var defaultUsersTOML string

type seedFile struct {
	Users []seedUser `toml:"users"`
}

type seedUser struct {
	ID         string `toml:"id"`
	Name       string `toml:"name"`
	Email      string `toml:"email"`
	Password   string `toml:"password"`
	Role       string `toml:"role"`
	Phone      string `toml:"phone"`
	Department string `toml:"department"`
}

// LoadSeedUsers reads seed accounts from path, or the embedded defaults when
// path is empty.
func LoadSeedUsers(path string) ([]domain.User, error) {
	var f seedFile
	var err error
	if path == "" {
		_, err = toml.Decode(defaultUsersTOML, &f)
	} else {
		_, err = toml.DecodeFile(path, &f)
	}
	if err != nil {
		return nil, fmt.Errorf("decode seed users: %w", err)
	}

	users := make([]domain.User, 0, len(f.Users))
	for i, u := range f.Users {
		if u.ID == "" || u.Email == "" || u.Password == "" {
			return nil, fmt.Errorf("seed user %d: id, email and password are required", i)
		}
		user := domain.User{
			ID:         u.ID,
			Name:       u.Name,
			Email:      u.Email,
			Password:   u.Password,
			Role:       domain.ParseRole(u.Role),
			Department: u.Department,
		}
		if u.Phone != "" {
			phone := u.Phone
			user.Phone = &phone
		}
		users = append(users, user)
	}
	return users, nil
}

// SeedUsers inserts users only when the store holds no accounts yet. It
// returns how many were created.
func SeedUsers(ctx context.Context, repo ports.UserRepository, users []domain.User, log *zap.Logger) (int, error) {
	count, err := repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		log.Debug("users present, skipping seed", zap.Int("count", count))
		return 0, nil
	}

	now := time.Now().UTC().Truncate(time.Microsecond)
	created := 0
	for _, u := range users {
		u.CreatedAt = now
		u.UpdatedAt = now
		if err := repo.Create(ctx, u); err != nil {
			// another instance seeded first
			if errors.Is(err, domain.ErrDuplicateKey) {
				continue
			}
			return created, fmt.Errorf("seed user %s: %w", u.ID, err)
		}
		created++
	}

	log.Info("default users created", zap.Int("count", created))
	return created, nil
}

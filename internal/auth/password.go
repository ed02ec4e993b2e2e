package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/internreg/internal/model"
)

const bcryptCost = 12

// Hash returns a bcrypt hash of the password.
func Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	return string(b), err
}

// Verify reports whether password matches the stored bcrypt hash.
func Verify(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// NewID generates a random hex ID.
func NewID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// UserCreator is the minimal interface needed for seeding the first admin.
type UserCreator interface {
	CountAll(ctx context.Context) (int, error)
	Create(ctx context.Context, id, email, displayName, passwordHash string, role model.Role) error
}

// SeedAccount describes the first admin created on an empty database.
type SeedAccount struct {
	Email       string
	DisplayName string
	Password    string
}

// SeedFirstAdmin creates the initial admin account if there are no staff
// users yet. It does nothing when the seed account is incomplete.
func SeedFirstAdmin(ctx context.Context, users UserCreator, seed SeedAccount) {
	if seed.Email == "" || seed.Password == "" {
		return
	}

	count, err := users.CountAll(ctx)
	if err != nil {
		slog.Error("seed: failed to count staff users", "err", err)
		return
	}
	if count > 0 {
		return
	}

	hash, err := Hash(seed.Password)
	if err != nil {
		slog.Error("seed: failed to hash password", "err", err)
		return
	}

	name := seed.DisplayName
	if name == "" {
		name = seed.Email
	}
	if err := users.Create(ctx, NewID(), seed.Email, name, hash, model.RoleAdmin); err != nil {
		slog.Error("seed: failed to create admin user", "err", err)
		return
	}
	slog.Info("seed: created first admin", "email", seed.Email)
}

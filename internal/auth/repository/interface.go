package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AuthRepository lets the service depend on an abstraction so tests can
// substitute an in-memory implementation.
type AuthRepository interface {
	Create(ctx context.Context, email, name, passwordHash string, roles []string) (*AdminUser, error)
	GetByEmail(ctx context.Context, email string) (*AdminUser, error)
	GetByID(ctx context.Context, id uuid.UUID) (*AdminUser, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error

	CreateRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error
	GetRefreshToken(ctx context.Context, tokenHash string) (uuid.UUID, time.Time, error)
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
	RevokeAllRefreshTokens(ctx context.Context, userID uuid.UUID) error
}

var _ AuthRepository = (*Repository)(nil)

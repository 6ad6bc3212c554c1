// Package repository persists admin accounts and their refresh tokens.
package repository

import (
	"context"
	"errors"
	"time"

	"chauffeurtop_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AdminUser is a staff account for the dashboard.
type AdminUser struct {
	ID           uuid.UUID  `db:"id"`
	Email        string     `db:"email"`
	Name         string     `db:"name"`
	PasswordHash string     `db:"password_hash"`
	Roles        []string   `db:"roles"`
	LastLoginAt  *time.Time `db:"last_login_at"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
}

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const adminUserColumns = `id, email, name, password_hash, roles, last_login_at, created_at, updated_at`

func (r *Repository) scanAdminUser(row pgx.Row) (*AdminUser, error) {
	var u AdminUser
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Roles, &u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("admin user not found")
		}
		return nil, apperr.Wrap(apperr.KindInternal, "failed to load admin user", err)
	}
	return &u, nil
}

func (r *Repository) Create(ctx context.Context, email, name, passwordHash string, roles []string) (*AdminUser, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO admin_users (email, name, password_hash, roles)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+adminUserColumns,
		email, name, passwordHash, roles,
	)

	user, err := r.scanAdminUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, apperr.Conflict("an account with this email already exists")
		}
		return nil, err
	}
	return user, nil
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*AdminUser, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+adminUserColumns+` FROM admin_users WHERE lower(email) = lower($1)`, email)
	return r.scanAdminUser(row)
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*AdminUser, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+adminUserColumns+` FROM admin_users WHERE id = $1`, id)
	return r.scanAdminUser(row)
}

func (r *Repository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE admin_users SET password_hash = $2, updated_at = now() WHERE id = $1`,
		id, passwordHash,
	)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to update password", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("admin user not found")
	}
	return nil
}

func (r *Repository) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE admin_users SET last_login_at = $2 WHERE id = $1`, id, at)
	return err
}

// ── Refresh tokens ────────────────────────────────────────────────────────────

func (r *Repository) CreateRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO admin_refresh_tokens (user_id, token_hash, expires_at)
		 VALUES ($1, $2, $3)`,
		userID, tokenHash, expiresAt,
	)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to store refresh token", err)
	}
	return nil
}

func (r *Repository) GetRefreshToken(ctx context.Context, tokenHash string) (uuid.UUID, time.Time, error) {
	var userID uuid.UUID
	var expiresAt time.Time
	err := r.pool.QueryRow(ctx,
		`SELECT user_id, expires_at FROM admin_refresh_tokens WHERE token_hash = $1`,
		tokenHash,
	).Scan(&userID, &expiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, time.Time{}, apperr.Unauthorized("refresh token not recognized")
		}
		return uuid.Nil, time.Time{}, apperr.Wrap(apperr.KindInternal, "failed to look up refresh token", err)
	}
	return userID, expiresAt, nil
}

func (r *Repository) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM admin_refresh_tokens WHERE token_hash = $1`, tokenHash)
	return err
}

func (r *Repository) RevokeAllRefreshTokens(ctx context.Context, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM admin_refresh_tokens WHERE user_id = $1`, userID)
	return err
}

// Package service implements admin sign-in with short-lived JWT access
// tokens and opaque, rotated refresh tokens.
package service

import (
	"context"
	"strings"
	"time"

	"chauffeurtop_backend/internal/auth/repository"
	"chauffeurtop_backend/internal/auth/token"
	"chauffeurtop_backend/platform/apperr"
	"chauffeurtop_backend/platform/config"
	"chauffeurtop_backend/platform/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	accessTokenType = "access"

	refreshTokenBytes = 48
	bcryptCost        = 12
)

type Service struct {
	repo repository.AuthRepository
	cfg  config.AuthServiceConfig
	log  *logger.Logger
}

func New(repo repository.AuthRepository, cfg config.AuthServiceConfig, log *logger.Logger) *Service {
	return &Service{repo: repo, cfg: cfg, log: log}
}

// SignIn verifies credentials and issues an access/refresh token pair.
// Both a missing account and a wrong password surface as the same error.
func (s *Service) SignIn(ctx context.Context, email, plainPassword string) (string, string, error) {
	user, err := s.repo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return "", "", apperr.Unauthorized("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(plainPassword)); err != nil {
		return "", "", apperr.Unauthorized("invalid credentials")
	}

	if err := s.repo.TouchLastLogin(ctx, user.ID, time.Now()); err != nil {
		s.log.Warn("failed to record last login", "userId", user.ID, "error", err)
	}

	return s.issueTokens(ctx, user)
}

// Refresh exchanges a valid refresh token for a fresh pair. The presented
// token is revoked either way, so a stolen token works at most once.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	hash := token.HashSHA256(refreshToken)
	userID, expiresAt, err := s.repo.GetRefreshToken(ctx, hash)
	if err != nil {
		return "", "", apperr.Unauthorized("invalid refresh token")
	}

	_ = s.repo.RevokeRefreshToken(ctx, hash)

	if time.Now().After(expiresAt) {
		return "", "", apperr.Unauthorized("refresh token expired")
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return "", "", apperr.Unauthorized("invalid refresh token")
	}

	return s.issueTokens(ctx, user)
}

// SignOut revokes the presented refresh token. Unknown tokens are a no-op.
func (s *Service) SignOut(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.repo.RevokeRefreshToken(ctx, token.HashSHA256(refreshToken))
}

// GetMe returns the profile behind an access token's subject.
func (s *Service) GetMe(ctx context.Context, userID uuid.UUID) (*repository.AdminUser, error) {
	return s.repo.GetByID(ctx, userID)
}

// ChangePassword verifies the current password, rehashes, and revokes all
// refresh tokens so other sessions have to sign in again.
func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return apperr.Unauthorized("current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to hash password", err)
	}

	if err := s.repo.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return err
	}

	if err := s.repo.RevokeAllRefreshTokens(ctx, userID); err != nil {
		s.log.Warn("failed to revoke refresh tokens after password change", "userId", userID, "error", err)
	}
	return nil
}

// CreateAdmin provisions a staff account. Used by the create-admin command;
// there is no public sign-up.
func (s *Service) CreateAdmin(ctx context.Context, email, name, plainPassword string) (*repository.AdminUser, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, apperr.Validation("email is required")
	}
	if len(plainPassword) < 8 {
		return nil, apperr.Validation("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plainPassword), bcryptCost)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to hash password", err)
	}

	return s.repo.Create(ctx, email, strings.TrimSpace(name), string(hash), []string{"admin"})
}

func (s *Service) issueTokens(ctx context.Context, user *repository.AdminUser) (string, string, error) {
	accessToken, err := s.signJWT(user.ID, user.Roles)
	if err != nil {
		return "", "", apperr.Wrap(apperr.KindInternal, "failed to sign access token", err)
	}

	refreshToken, err := token.GenerateRandomToken(refreshTokenBytes)
	if err != nil {
		return "", "", apperr.Wrap(apperr.KindInternal, "failed to generate refresh token", err)
	}

	expiresAt := time.Now().Add(s.cfg.GetRefreshTokenTTL())
	if err := s.repo.CreateRefreshToken(ctx, user.ID, token.HashSHA256(refreshToken), expiresAt); err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

func (s *Service) signJWT(userID uuid.UUID, roles []string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   userID.String(),
		"type":  accessTokenType,
		"roles": roles,
		"exp":   now.Add(s.cfg.GetAccessTokenTTL()).Unix(),
		"iat":   now.Unix(),
	}

	tokenObj := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tokenObj.SignedString([]byte(s.cfg.GetJWTAccessSecret()))
}

package service

import (
	"context"
	"testing"
	"time"

	"chauffeurtop_backend/internal/auth/repository"
	"chauffeurtop_backend/internal/auth/token"
	"chauffeurtop_backend/platform/apperr"
	"chauffeurtop_backend/platform/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type testAuthConfig struct{}

func (testAuthConfig) GetJWTAccessSecret() string        { return "test-secret" }
func (testAuthConfig) GetAccessTokenTTL() time.Duration  { return 15 * time.Minute }
func (testAuthConfig) GetRefreshTokenTTL() time.Duration { return 24 * time.Hour }

type storedRefresh struct {
	userID    uuid.UUID
	expiresAt time.Time
}

type fakeAuthRepo struct {
	users    map[uuid.UUID]*repository.AdminUser
	byEmail  map[string]uuid.UUID
	refresh  map[string]storedRefresh
	touched  int
	revoked  int
}

func newFakeAuthRepo() *fakeAuthRepo {
	return &fakeAuthRepo{
		users:   make(map[uuid.UUID]*repository.AdminUser),
		byEmail: make(map[string]uuid.UUID),
		refresh: make(map[string]storedRefresh),
	}
}

func (f *fakeAuthRepo) Create(_ context.Context, email, name, passwordHash string, roles []string) (*repository.AdminUser, error) {
	if _, exists := f.byEmail[email]; exists {
		return nil, apperr.Conflict("an account with this email already exists")
	}
	u := &repository.AdminUser{
		ID:           uuid.New(),
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		Roles:        roles,
		CreatedAt:    time.Now(),
	}
	f.users[u.ID] = u
	f.byEmail[email] = u.ID
	return u, nil
}

func (f *fakeAuthRepo) GetByEmail(_ context.Context, email string) (*repository.AdminUser, error) {
	id, ok := f.byEmail[email]
	if !ok {
		return nil, apperr.NotFound("admin user not found")
	}
	return f.users[id], nil
}

func (f *fakeAuthRepo) GetByID(_ context.Context, id uuid.UUID) (*repository.AdminUser, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperr.NotFound("admin user not found")
	}
	return u, nil
}

func (f *fakeAuthRepo) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	u, ok := f.users[id]
	if !ok {
		return apperr.NotFound("admin user not found")
	}
	u.PasswordHash = passwordHash
	return nil
}

func (f *fakeAuthRepo) TouchLastLogin(_ context.Context, id uuid.UUID, at time.Time) error {
	f.touched++
	if u, ok := f.users[id]; ok {
		u.LastLoginAt = &at
	}
	return nil
}

func (f *fakeAuthRepo) CreateRefreshToken(_ context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	f.refresh[tokenHash] = storedRefresh{userID: userID, expiresAt: expiresAt}
	return nil
}

func (f *fakeAuthRepo) GetRefreshToken(_ context.Context, tokenHash string) (uuid.UUID, time.Time, error) {
	entry, ok := f.refresh[tokenHash]
	if !ok {
		return uuid.Nil, time.Time{}, apperr.Unauthorized("refresh token not recognized")
	}
	return entry.userID, entry.expiresAt, nil
}

func (f *fakeAuthRepo) RevokeRefreshToken(_ context.Context, tokenHash string) error {
	delete(f.refresh, tokenHash)
	return nil
}

func (f *fakeAuthRepo) RevokeAllRefreshTokens(_ context.Context, userID uuid.UUID) error {
	for hash, entry := range f.refresh {
		if entry.userID == userID {
			delete(f.refresh, hash)
			f.revoked++
		}
	}
	return nil
}

func newTestService(t *testing.T) (*Service, *fakeAuthRepo, *repository.AdminUser) {
	t.Helper()
	repo := newFakeAuthRepo()
	svc := New(repo, testAuthConfig{}, logger.New("development"))

	user, err := svc.CreateAdmin(context.Background(), "ops@chauffeurtop.com.au", "Operations", "s3cret-password")
	if err != nil {
		t.Fatalf("CreateAdmin: %v", err)
	}
	return svc, repo, user
}

func TestSignIn_IssuesTokenPair(t *testing.T) {
	svc, repo, user := newTestService(t)

	access, refresh, err := svc.SignIn(context.Background(), "ops@chauffeurtop.com.au", "s3cret-password")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if access == "" || refresh == "" {
		t.Fatal("expected both tokens")
	}

	parsed, err := jwt.Parse(access, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("access token does not verify: %v", err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if claims["sub"] != user.ID.String() {
		t.Fatalf("sub = %v, want %s", claims["sub"], user.ID)
	}
	if claims["type"] != "access" {
		t.Fatalf("type = %v", claims["type"])
	}

	if _, ok := repo.refresh[token.HashSHA256(refresh)]; !ok {
		t.Fatal("refresh token should be stored hashed")
	}
	if repo.touched != 1 {
		t.Fatal("expected last login to be recorded")
	}
}

func TestSignIn_WrongPassword(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, _, err := svc.SignIn(context.Background(), "ops@chauffeurtop.com.au", "wrong")
	if apperr.GetKind(err) != apperr.KindUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestSignIn_UnknownEmailSameError(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, _, err := svc.SignIn(context.Background(), "nobody@example.com", "s3cret-password")
	if err == nil || err.Error() != "invalid credentials" {
		t.Fatalf("expected indistinguishable credential error, got %v", err)
	}
}

func TestRefresh_RotatesToken(t *testing.T) {
	svc, repo, _ := newTestService(t)

	_, refresh, err := svc.SignIn(context.Background(), "ops@chauffeurtop.com.au", "s3cret-password")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	access2, refresh2, err := svc.Refresh(context.Background(), refresh)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if access2 == "" || refresh2 == "" || refresh2 == refresh {
		t.Fatal("expected a fresh token pair")
	}
	if _, ok := repo.refresh[token.HashSHA256(refresh)]; ok {
		t.Fatal("old refresh token should be revoked")
	}

	// the old token must not work a second time
	if _, _, err := svc.Refresh(context.Background(), refresh); err == nil {
		t.Fatal("expected reuse of revoked token to fail")
	}
}

func TestRefresh_ExpiredTokenRevoked(t *testing.T) {
	svc, repo, user := newTestService(t)

	raw, _ := token.GenerateRandomToken(48)
	hash := token.HashSHA256(raw)
	repo.refresh[hash] = storedRefresh{userID: user.ID, expiresAt: time.Now().Add(-time.Minute)}

	_, _, err := svc.Refresh(context.Background(), raw)
	if apperr.GetKind(err) != apperr.KindUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if _, ok := repo.refresh[hash]; ok {
		t.Fatal("expired token should be removed")
	}
}

func TestChangePassword_RevokesSessions(t *testing.T) {
	svc, repo, user := newTestService(t)

	if _, _, err := svc.SignIn(context.Background(), "ops@chauffeurtop.com.au", "s3cret-password"); err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	err := svc.ChangePassword(context.Background(), user.ID, "s3cret-password", "another-password")
	if err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	if len(repo.refresh) != 0 {
		t.Fatal("expected all refresh tokens revoked")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("another-password")); err != nil {
		t.Fatal("new password should verify")
	}

	err = svc.ChangePassword(context.Background(), user.ID, "s3cret-password", "yet-another")
	if apperr.GetKind(err) != apperr.KindUnauthorized {
		t.Fatalf("old password should be rejected, got %v", err)
	}
}

func TestCreateAdmin_Validation(t *testing.T) {
	svc, _, _ := newTestService(t)

	if _, err := svc.CreateAdmin(context.Background(), "", "X", "s3cret-password"); apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error for empty email, got %v", err)
	}
	if _, err := svc.CreateAdmin(context.Background(), "a@b.com", "X", "short"); apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error for short password, got %v", err)
	}
	if _, err := svc.CreateAdmin(context.Background(), "ops@chauffeurtop.com.au", "Dup", "s3cret-password"); apperr.GetKind(err) != apperr.KindConflict {
		t.Fatalf("expected conflict for duplicate email, got %v", err)
	}
}

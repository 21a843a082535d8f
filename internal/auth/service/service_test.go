package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"bess_quote_backend/internal/auth/password"
	"bess_quote_backend/internal/auth/repository"
	"bess_quote_backend/internal/auth/transport"
	"bess_quote_backend/platform/apperr"
	"bess_quote_backend/platform/events"
	"bess_quote_backend/platform/logger"
)

type fakeUserRepo struct {
	users map[uuid.UUID]*repository.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*repository.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user *repository.User) error {
	for _, u := range f.users {
		if u.Email == user.Email {
			return apperr.Conflict("user already exists").WithCode("user_exists")
		}
	}
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*repository.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperr.NotFound("user not found").WithCode("user_not_found")
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*repository.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("user not found").WithCode("user_not_found")
}

func (f *fakeUserRepo) List(_ context.Context) ([]repository.User, error) {
	out := make([]repository.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *repository.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return apperr.NotFound("user not found")
	}
	cp := *user
	cp.PasswordHash = f.users[user.ID].PasswordHash
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	u, ok := f.users[id]
	if !ok {
		return apperr.NotFound("user not found")
	}
	u.PasswordHash = hash
	return nil
}

func (f *fakeUserRepo) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	u, ok := f.users[id]
	if !ok {
		return apperr.NotFound("user not found")
	}
	u.IsActive = active
	return nil
}

func (f *fakeUserRepo) UpdateLastLogin(_ context.Context, id uuid.UUID, at time.Time) error {
	u, ok := f.users[id]
	if !ok {
		return apperr.NotFound("user not found")
	}
	u.LastLoginAt = &at
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.users[id]; !ok {
		return apperr.NotFound("user not found")
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) Count(_ context.Context) (int, error) {
	return len(f.users), nil
}

type testConfig struct {
	seed bool
}

func (c testConfig) GetJWTAccessSecret() string         { return "test-secret" }
func (c testConfig) GetAccessTokenTTL() time.Duration   { return 12 * time.Hour }
func (c testConfig) GetSeedDemoUsers() bool             { return c.seed }

func newTestService(seed bool) (*Service, *fakeUserRepo) {
	repo := newFakeUserRepo()
	log := logger.New("test")
	svc := New(repo, testConfig{seed: seed}, events.NewInMemoryBus(log), log)
	return svc, repo
}

func addUser(t *testing.T, repo *fakeUserRepo, email, plain, role string, active bool) uuid.UUID {
	t.Helper()
	hash, err := password.Hash(plain)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	id := uuid.New()
	repo.users[id] = &repository.User{
		ID: id, Username: email, Email: email, PasswordHash: hash,
		FullName: "Test User", Role: role, IsActive: active, CreatedAt: time.Now(),
	}
	return id
}

func TestLoginIssuesAccessToken(t *testing.T) {
	svc, repo := newTestService(false)
	addUser(t, repo, "marco.rossi@ffdpower.it", "segreta123", "commerciale", true)

	result, err := svc.Login(context.Background(), transport.LoginRequest{
		Email:    "marco.rossi@ffdpower.it",
		Password: "segreta123",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if result.AccessToken == "" {
		t.Fatal("empty access token")
	}
	if result.User.LastLoginAt == nil {
		t.Error("last login not stamped")
	}

	parsed, err := jwt.Parse(result.AccessToken, func(tok *jwt.Token) (any, error) {
		return []byte("test-secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token does not verify: %v", err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if claims["type"] != "access" || claims["role"] != "commerciale" {
		t.Errorf("claims = %v", claims)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc, repo := newTestService(false)
	addUser(t, repo, "marco.rossi@ffdpower.it", "segreta123", "commerciale", true)

	_, err := svc.Login(context.Background(), transport.LoginRequest{
		Email:    "marco.rossi@ffdpower.it",
		Password: "sbagliata",
	})
	if apperr.GetKind(err) != apperr.KindUnauthorized {
		t.Errorf("kind = %v, want unauthorized", apperr.GetKind(err))
	}
}

func TestLoginRejectsDisabledAccount(t *testing.T) {
	svc, repo := newTestService(false)
	addUser(t, repo, "sara.neri@ffdpower.it", "segreta123", "commerciale", false)

	_, err := svc.Login(context.Background(), transport.LoginRequest{
		Email:    "sara.neri@ffdpower.it",
		Password: "segreta123",
	})
	if apperr.GetKind(err) != apperr.KindForbidden {
		t.Errorf("kind = %v, want forbidden", apperr.GetKind(err))
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	svc, repo := newTestService(true)

	if err := svc.Seed(context.Background()); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if len(repo.users) != 6 {
		t.Fatalf("seeded %d users, want 6", len(repo.users))
	}

	if err := svc.Seed(context.Background()); err != nil {
		t.Fatalf("second Seed: %v", err)
	}
	if len(repo.users) != 6 {
		t.Errorf("second seed changed user count to %d", len(repo.users))
	}

	admin, err := repo.GetByEmail(context.Background(), "admin@ffdpower.it")
	if err != nil {
		t.Fatalf("admin not seeded: %v", err)
	}
	if admin.Role != "admin" || !admin.IsActive {
		t.Errorf("admin = %+v", admin)
	}

	disabled, err := repo.GetByEmail(context.Background(), "sara.neri@ffdpower.it")
	if err != nil {
		t.Fatalf("disabled demo user not seeded: %v", err)
	}
	if disabled.IsActive {
		t.Error("sara.neri should be seeded disabled")
	}
}

func TestSelfProtectionRules(t *testing.T) {
	svc, repo := newTestService(false)
	adminID := addUser(t, repo, "admin@ffdpower.it", "segreta123", "admin", true)
	actor := Actor{ID: adminID, Name: "Amministratore Sistema"}

	if _, err := svc.SetActive(context.Background(), actor, adminID, false); apperr.GetKind(err) != apperr.KindForbidden {
		t.Errorf("self-disable: kind = %v, want forbidden", apperr.GetKind(err))
	}

	if err := svc.Delete(context.Background(), actor, adminID); apperr.GetKind(err) != apperr.KindForbidden {
		t.Errorf("self-delete: kind = %v, want forbidden", apperr.GetKind(err))
	}

	newRole := "commerciale"
	if _, err := svc.Update(context.Background(), actor, adminID, transport.UpdateUserRequest{Role: &newRole}); apperr.GetKind(err) != apperr.KindForbidden {
		t.Errorf("self role change: kind = %v, want forbidden", apperr.GetKind(err))
	}

	// Other accounts are fair game.
	otherID := addUser(t, repo, "luca.verdi@ffdpower.it", "segreta123", "commerciale", true)
	if _, err := svc.SetActive(context.Background(), actor, otherID, false); err != nil {
		t.Errorf("disabling another account: %v", err)
	}
}

func TestCreateRejectsDuplicateEmail(t *testing.T) {
	svc, repo := newTestService(false)
	adminID := addUser(t, repo, "admin@ffdpower.it", "segreta123", "admin", true)
	actor := Actor{ID: adminID, Name: "Amministratore Sistema"}

	req := transport.CreateUserRequest{
		Email:    "nuovo@ffdpower.it",
		Password: "segreta123",
		FullName: "Nuovo Utente",
		Role:     "commerciale",
	}
	created, err := svc.Create(context.Background(), actor, req)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Avatar != "NU" {
		t.Errorf("avatar = %q, want initials NU", created.Avatar)
	}

	if _, err := svc.Create(context.Background(), actor, req); apperr.GetKind(err) != apperr.KindConflict {
		t.Errorf("duplicate: kind = %v, want conflict", apperr.GetKind(err))
	}
}

func TestChangePasswordVerifiesCurrent(t *testing.T) {
	svc, repo := newTestService(false)
	id := addUser(t, repo, "marco.rossi@ffdpower.it", "vecchia123", "commerciale", true)

	if err := svc.ChangePassword(context.Background(), id, "sbagliata", "nuova12345"); apperr.GetKind(err) != apperr.KindUnauthorized {
		t.Errorf("wrong current: kind = %v, want unauthorized", apperr.GetKind(err))
	}

	if err := svc.ChangePassword(context.Background(), id, "vecchia123", "nuova12345"); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}

	if _, err := svc.Login(context.Background(), transport.LoginRequest{
		Email: "marco.rossi@ffdpower.it", Password: "nuova12345",
	}); err != nil {
		t.Errorf("login with new password: %v", err)
	}
}

func TestResetPasswordReturnsTemporary(t *testing.T) {
	svc, repo := newTestService(false)
	adminID := addUser(t, repo, "admin@ffdpower.it", "segreta123", "admin", true)
	targetID := addUser(t, repo, "marco.rossi@ffdpower.it", "vecchia123", "commerciale", true)

	temp, err := svc.ResetPassword(context.Background(), Actor{ID: adminID, Name: "Admin"}, targetID)
	if err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}
	if len(temp) < 8 {
		t.Errorf("temporary password too short: %q", temp)
	}

	if _, err := svc.Login(context.Background(), transport.LoginRequest{
		Email: "marco.rossi@ffdpower.it", Password: temp,
	}); err != nil {
		t.Errorf("login with temporary password: %v", err)
	}
}

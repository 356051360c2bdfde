package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/milkdist/warehouse-backend/pkg/config"
	"github.com/milkdist/warehouse-backend/pkg/db/models"
	"github.com/milkdist/warehouse-backend/pkg/enums"
	pkgerrors "github.com/milkdist/warehouse-backend/pkg/errors"
	"github.com/milkdist/warehouse-backend/pkg/security"
)

type fakeUserRepo struct {
	user        *models.User
	lastLoginAt *time.Time
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if f.user == nil || f.user.Email != email {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *f.user
	return &copied, nil
}

func (f *fakeUserRepo) UpdateLastLogin(_ context.Context, _ uuid.UUID, at time.Time) error {
	f.lastLoginAt = &at
	return nil
}

func mustHashPassword(t *testing.T, password string) string {
	t.Helper()
	hashed, err := security.HashPassword(password, config.PasswordConfig{})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return hashed
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "secret",
		Issuer:            "milkdist-warehouse",
		ExpirationMinutes: 30,
	}
}

func TestServiceLoginIssuesToken(t *testing.T) {
	password := "warehouse-secret"
	user := &models.User{
		ID:           uuid.New(),
		Email:        "ops@example.com",
		PasswordHash: mustHashPassword(t, password),
		FirstName:    "Olga",
		LastName:     "Petrova",
		Role:         enums.UserRoleManager,
		IsActive:     true,
	}
	repo := &fakeUserRepo{user: user}
	cfg := testJWTConfig()

	svc, err := NewService(ServiceParams{UserRepo: repo, JWTConfig: cfg})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "  Ops@Example.com ",
		Password: password,
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := ParseAccessToken(cfg, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("expected user id %s in claims, got %s", user.ID, claims.UserID)
	}
	if claims.Role != enums.UserRoleManager {
		t.Fatalf("expected manager role claim, got %s", claims.Role)
	}
	if repo.lastLoginAt == nil {
		t.Fatalf("expected last login to be recorded")
	}
	if resp.User == nil || resp.User.Email != user.Email {
		t.Fatalf("expected sanitized user profile in response")
	}
	if resp.ExpiresIn != int64((30 * time.Minute).Seconds()) {
		t.Fatalf("unexpected expires_in %d", resp.ExpiresIn)
	}
}

func TestServiceLoginRejectsWrongPassword(t *testing.T) {
	user := &models.User{
		ID:           uuid.New(),
		Email:        "ops@example.com",
		PasswordHash: mustHashPassword(t, "right-password"),
		Role:         enums.UserRoleOperator,
		IsActive:     true,
	}
	svc, err := NewService(ServiceParams{UserRepo: &fakeUserRepo{user: user}, JWTConfig: testJWTConfig()})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	_, err = svc.Login(context.Background(), LoginRequest{Email: user.Email, Password: "wrong-password"})
	assertUnauthorized(t, err)
}

func TestServiceLoginRejectsInactiveUser(t *testing.T) {
	password := "still-valid"
	user := &models.User{
		ID:           uuid.New(),
		Email:        "former@example.com",
		PasswordHash: mustHashPassword(t, password),
		Role:         enums.UserRoleOperator,
		IsActive:     false,
	}
	svc, err := NewService(ServiceParams{UserRepo: &fakeUserRepo{user: user}, JWTConfig: testJWTConfig()})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	_, err = svc.Login(context.Background(), LoginRequest{Email: user.Email, Password: password})
	assertUnauthorized(t, err)
}

func TestServiceLoginUnknownEmail(t *testing.T) {
	svc, err := NewService(ServiceParams{UserRepo: &fakeUserRepo{}, JWTConfig: testJWTConfig()})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	_, err = svc.Login(context.Background(), LoginRequest{Email: "nobody@example.com", Password: "whatever"})
	assertUnauthorized(t, err)
}

func assertUnauthorized(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected unauthorized error, got nil")
	}
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized code, got %v", err)
	}
}

func TestActorRoundTrip(t *testing.T) {
	actor := Actor{UserID: uuid.New(), Role: enums.UserRoleAdmin}
	ctx := WithActor(context.Background(), actor)

	got, err := ActorFromContext(ctx)
	if err != nil {
		t.Fatalf("actor from context: %v", err)
	}
	if got != actor {
		t.Fatalf("expected actor %+v, got %+v", actor, got)
	}

	if _, err := ActorFromContext(context.Background()); err == nil {
		t.Fatalf("expected error for missing actor")
	}
}

func TestActorCanMutate(t *testing.T) {
	cases := []struct {
		role enums.UserRole
		want bool
	}{
		{enums.UserRoleAdmin, true},
		{enums.UserRoleManager, true},
		{enums.UserRoleOperator, true},
		{enums.UserRoleSalesRep, false},
	}
	for _, tc := range cases {
		actor := Actor{UserID: uuid.New(), Role: tc.role}
		if actor.CanMutate() != tc.want {
			t.Fatalf("role %s: expected CanMutate=%v", tc.role, tc.want)
		}
	}
}

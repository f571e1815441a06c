package service

import (
	"context"
	"testing"
	"time"

	authdomain "github.com/smallbiznis/orderdesk/internal/auth/domain"
	"github.com/smallbiznis/orderdesk/internal/auth/password"
	"github.com/smallbiznis/orderdesk/internal/auth/repository"
	"github.com/smallbiznis/orderdesk/internal/auth/token"
	"github.com/smallbiznis/orderdesk/internal/clock"
	"github.com/smallbiznis/orderdesk/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (authdomain.Service, *clock.FakeClock, *gorm.DB) {
	t.Helper()

	dbConn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := dbConn.AutoMigrate(&authdomain.User{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	clk := clock.NewFakeClock(time.Date(2024, 7, 1, 8, 0, 0, 0, time.UTC))
	issuer := token.NewIssuerWithOptions(token.Options{
		Secret:   []byte("test"),
		Issuer:   "orderdesk",
		Audience: "orderdesk-api",
		TTL:      30 * time.Minute,
	}, clk)

	return New(Params{
		Log:    zap.NewNop(),
		Repo:   repository.New(dbConn),
		Issuer: issuer,
		Clock:  clk,
	}), clk, dbConn
}

func TestEnsureUserIsIdempotent(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	user, created, err := svc.EnsureUser(ctx, authdomain.CreateUserRequest{Username: "Admin", Password: "admin", Role: authdomain.RoleAdmin})
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	if !created {
		t.Fatal("expected user to be created")
	}
	if user.Username != "admin" {
		t.Fatalf("expected normalised username, got %s", user.Username)
	}

	again, created, err := svc.EnsureUser(ctx, authdomain.CreateUserRequest{Username: "admin", Password: "changed", Role: authdomain.RoleUser})
	if err != nil {
		t.Fatalf("failed to ensure user: %v", err)
	}
	if created {
		t.Fatal("expected existing user to be kept")
	}
	if again.ID != user.ID || again.Role != authdomain.RoleAdmin {
		t.Fatalf("expected original account, got %+v", again)
	}

	if _, _, err := svc.EnsureUser(ctx, authdomain.CreateUserRequest{Username: "x", Password: "y", Role: "Root"}); err != authdomain.ErrInvalidRole {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	svc, clk, _ := newTestService(t)
	ctx := context.Background()

	if _, _, err := svc.EnsureUser(ctx, authdomain.CreateUserRequest{Username: "user", Password: "user", Role: authdomain.RoleUser}); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	result, err := svc.Login(ctx, authdomain.LoginRequest{Username: "USER", Password: "user"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if result.AccessToken == "" {
		t.Fatal("expected access token")
	}
	if !result.ExpiresAt.Equal(clk.Now().Add(30 * time.Minute)) {
		t.Fatalf("unexpected expiry %s", result.ExpiresAt)
	}

	claims, err := svc.Authenticate(ctx, result.AccessToken)
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if claims.Subject != "user" || claims.Role != authdomain.RoleUser {
		t.Fatalf("unexpected claims %+v", claims)
	}

	clk.Advance(time.Hour)
	if _, err := svc.Authenticate(ctx, result.AccessToken); err != authdomain.ErrTokenExpired {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if _, _, err := svc.EnsureUser(ctx, authdomain.CreateUserRequest{Username: "alice", Password: "correct-password", Role: authdomain.RoleUser}); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	cases := []authdomain.LoginRequest{
		{Username: "alice", Password: "wrong-password"},
		{Username: "nobody", Password: "correct-password"},
		{Username: "", Password: ""},
	}
	for _, req := range cases {
		if _, err := svc.Login(ctx, req); err != authdomain.ErrInvalidCredentials {
			t.Fatalf("expected ErrInvalidCredentials for %q, got %v", req.Username, err)
		}
	}
}

func TestLoginUpgradesWeakHash(t *testing.T) {
	svc, clk, dbConn := newTestService(t)
	ctx := context.Background()

	weak := password.Default
	weak.Memory = 8 * 1024
	hashed, err := password.HashWith("legacy", weak)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	user := authdomain.User{
		Username:     "legacy",
		PasswordHash: hashed,
		Role:         authdomain.RoleUser,
		CreatedAt:    clk.Now(),
		UpdatedAt:    clk.Now(),
	}
	if err := dbConn.Create(&user).Error; err != nil {
		t.Fatalf("insert user: %v", err)
	}

	if _, err := svc.Login(ctx, authdomain.LoginRequest{Username: "legacy", Password: "legacy"}); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	var stored authdomain.User
	if err := dbConn.First(&stored, user.ID).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if stored.PasswordHash == hashed || password.NeedsRehash(stored.PasswordHash) {
		t.Fatalf("expected upgraded hash, got %s", stored.PasswordHash)
	}
	if !password.Verify("legacy", stored.PasswordHash) {
		t.Fatal("upgraded hash must still verify")
	}
}

package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/fieldray/patrol/internal/config"
	"github.com/fieldray/patrol/internal/patrol/entity"
	"github.com/fieldray/patrol/internal/patrol/repository"
	"github.com/fieldray/patrol/internal/patrol/testutil"
	"github.com/redis/go-redis/v9"
)

func setupAuthService(t *testing.T) (*AuthService, *ProfileService) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	cfg := &config.Config{}
	cfg.JWT.Secret = testutil.JWTSecret
	cfg.JWT.AccessTokenExpire = 2 * time.Hour
	cfg.JWT.RefreshTokenExpire = 168 * time.Hour
	cfg.JWT.Issuer = "patrol"

	return NewAuthService(repos.User, rdb, cfg), NewProfileService(repos.User)
}

func TestLoginAndRefresh(t *testing.T) {
	authSvc, profileSvc := setupAuthService(t)
	ctx := context.Background()

	if _, err := profileSvc.Create(ctx, &CreateUserRequest{
		Email:    "admin@test.com",
		Password: "secret123",
		FullName: "管理員",
		Role:     entity.RoleAdmin,
	}); err != nil {
		t.Fatalf("create user: %v", err)
	}

	user, pair, err := authSvc.Login(ctx, &LoginRequest{Email: "admin@test.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if user.Role != entity.RoleAdmin {
		t.Errorf("unexpected role: %s", user.Role)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("expected token pair")
	}

	// 刷新后旧 Refresh Token 作废
	newPair, err := authSvc.RefreshToken(ctx, pair.RefreshToken)
	if err != nil {
		t.Fatalf("RefreshToken failed: %v", err)
	}
	if newPair.AccessToken == "" {
		t.Fatal("expected new access token")
	}
	if _, err := authSvc.RefreshToken(ctx, pair.RefreshToken); err == nil {
		t.Error("old refresh token should be invalid after rotation")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	authSvc, profileSvc := setupAuthService(t)
	ctx := context.Background()

	if _, err := profileSvc.Create(ctx, &CreateUserRequest{
		Email:    "worker@test.com",
		Password: "secret123",
	}); err != nil {
		t.Fatalf("create user: %v", err)
	}

	if _, _, err := authSvc.Login(ctx, &LoginRequest{Email: "worker@test.com", Password: "wrong"}); err == nil {
		t.Error("expected error for wrong password")
	}
	if _, _, err := authSvc.Login(ctx, &LoginRequest{Email: "nobody@test.com", Password: "secret123"}); err == nil {
		t.Error("expected error for unknown email")
	}
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	authSvc, profileSvc := setupAuthService(t)
	ctx := context.Background()

	if _, err := profileSvc.Create(ctx, &CreateUserRequest{
		Email:    "worker@test.com",
		Password: "secret123",
	}); err != nil {
		t.Fatalf("create user: %v", err)
	}

	_, pair, err := authSvc.Login(ctx, &LoginRequest{Email: "worker@test.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if err := authSvc.Logout(ctx, pair.RefreshToken); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if _, err := authSvc.RefreshToken(ctx, pair.RefreshToken); err == nil {
		t.Error("refresh token should be revoked after logout")
	}
}

func TestUpdateTheme(t *testing.T) {
	_, profileSvc := setupAuthService(t)
	ctx := context.Background()

	user, err := profileSvc.Create(ctx, &CreateUserRequest{
		Email:    "worker@test.com",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if user.Theme != entity.ThemeLight {
		t.Errorf("expected default light theme, got %s", user.Theme)
	}

	updated, err := profileSvc.UpdateTheme(ctx, user.ID, entity.ThemeDark)
	if err != nil {
		t.Fatalf("UpdateTheme failed: %v", err)
	}
	if updated.Theme != entity.ThemeDark {
		t.Errorf("expected dark theme, got %s", updated.Theme)
	}

	if _, err := profileSvc.UpdateTheme(ctx, user.ID, "sepia"); err == nil {
		t.Error("expected error for unknown theme")
	}
}

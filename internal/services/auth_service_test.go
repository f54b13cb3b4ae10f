package services

import (
	"context"
	"testing"
	"time"

	"github.com/devconnect/backend/internal/models"
)

func newTestAuth() (*AuthService, *MemoryUserService) {
	users := NewMemoryUserService()
	tokens := NewJWTTokenIssuer("test-access-secret", time.Hour, "test-refresh-secret", 7*24*time.Hour)
	return NewAuthService(users, NewBcryptHasher(), tokens), users
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()
	auth, _ := newTestAuth()

	req := &models.RegisterRequest{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Password: "secret123"}
	result, err := auth.Register(ctx, req)
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	user := result.User
	if user.Email != "ada@example.com" {
		t.Errorf("user.Email = %q", user.Email)
	}
	if user.Username != "ada" {
		t.Errorf("user.Username = %q, want ada", user.Username)
	}
	if user.Provider != models.ProviderLocal {
		t.Errorf("user.Provider = %q, want local", user.Provider)
	}
	if user.IsProfileComplete {
		t.Error("new user should not be profile-complete")
	}
	if user.PasswordHash == "" || user.PasswordHash == "secret123" {
		t.Error("password was not hashed")
	}
	if result.AccessToken == "" || result.RefreshToken == "" {
		t.Error("token pair missing")
	}
	if user.RefreshToken != result.RefreshToken {
		t.Error("refresh token was not persisted on the user")
	}

	t.Run("duplicate email", func(t *testing.T) {
		if _, err := auth.Register(ctx, req); err != ErrEmailExists {
			t.Errorf("duplicate Register error = %v, want ErrEmailExists", err)
		}
	})

	t.Run("username collision gets a suffix", func(t *testing.T) {
		result, err := auth.Register(ctx, &models.RegisterRequest{FirstName: "Ada", Email: "ada@other.com", Password: "secret123"})
		if err != nil {
			t.Fatalf("Register() error = %v", err)
		}
		if result.User.Username != "ada1" {
			t.Errorf("user.Username = %q, want ada1", result.User.Username)
		}
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	auth, _ := newTestAuth()

	if _, err := auth.Register(ctx, &models.RegisterRequest{FirstName: "Ada", Email: "ada@example.com", Password: "secret123"}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	t.Run("success", func(t *testing.T) {
		result, err := auth.Login(ctx, &models.LoginRequest{Email: "ada@example.com", Password: "secret123"})
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}
		if result.AccessToken == "" {
			t.Error("access token missing")
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		if _, err := auth.Login(ctx, &models.LoginRequest{Email: "nobody@example.com", Password: "secret123"}); err != ErrUserNotFound {
			t.Errorf("Login(unknown) error = %v, want ErrUserNotFound", err)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		if _, err := auth.Login(ctx, &models.LoginRequest{Email: "ada@example.com", Password: "wrong"}); err != ErrInvalidPassword {
			t.Errorf("Login(bad password) error = %v, want ErrInvalidPassword", err)
		}
	})
}

func TestAuthService_RefreshRotation(t *testing.T) {
	ctx := context.Background()
	auth, _ := newTestAuth()

	reg, err := auth.Register(ctx, &models.RegisterRequest{FirstName: "Ada", Email: "ada@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	refreshed, err := auth.Refresh(ctx, reg.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if refreshed.AccessToken == "" || refreshed.RefreshToken == "" {
		t.Error("refreshed token pair missing")
	}

	// The first refresh token was rotated out and no longer matches the
	// stored one, so replaying it must fail.
	if refreshed.RefreshToken != reg.RefreshToken {
		if _, err := auth.Refresh(ctx, reg.RefreshToken); err != ErrInvalidRefreshToken {
			t.Errorf("replayed Refresh error = %v, want ErrInvalidRefreshToken", err)
		}
	}

	t.Run("garbage token", func(t *testing.T) {
		if _, err := auth.Refresh(ctx, "not-a-jwt"); err != ErrInvalidRefreshToken {
			t.Errorf("Refresh(garbage) error = %v, want ErrInvalidRefreshToken", err)
		}
	})
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()
	auth, users := newTestAuth()

	reg, err := auth.Register(ctx, &models.RegisterRequest{FirstName: "Ada", Email: "ada@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if err := auth.Logout(ctx, reg.User.ID); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}

	stored, err := users.GetByID(ctx, reg.User.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if stored.RefreshToken != "" {
		t.Error("refresh token still stored after logout")
	}
	if _, err := auth.Refresh(ctx, reg.RefreshToken); err != ErrInvalidRefreshToken {
		t.Errorf("Refresh after logout error = %v, want ErrInvalidRefreshToken", err)
	}
}

func TestJWTTokenIssuer_RefreshRoundTrip(t *testing.T) {
	issuer := NewJWTTokenIssuer("access", time.Hour, "refresh", time.Hour)

	token, err := issuer.IssueRefreshToken("user-42")
	if err != nil {
		t.Fatalf("IssueRefreshToken() error = %v", err)
	}
	userID, err := issuer.ParseRefreshToken(token)
	if err != nil {
		t.Fatalf("ParseRefreshToken() error = %v", err)
	}
	if userID != "user-42" {
		t.Errorf("userID = %q, want user-42", userID)
	}

	// An access token signed with the other secret must not verify.
	access, err := issuer.IssueAccessToken(&models.User{ID: "user-42"})
	if err != nil {
		t.Fatalf("IssueAccessToken() error = %v", err)
	}
	if _, err := issuer.ParseRefreshToken(access); err != ErrInvalidRefreshToken {
		t.Errorf("ParseRefreshToken(access token) error = %v, want ErrInvalidRefreshToken", err)
	}
}

package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"Tunebox/model"

	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("pw123", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "pw123" {
		t.Fatal("hash must not equal the password")
	}
	if !CheckPasswordHash("pw123", hash) {
		t.Error("expected password to match its hash")
	}
	if CheckPasswordHash("pw124", hash) {
		t.Error("expected wrong password to be rejected")
	}

	// Out-of-range cost falls back to the default instead of failing.
	if _, err := HashPassword("pw", 100); err != nil {
		t.Errorf("expected fallback cost, got error: %v", err)
	}
}

func TestTokenService(t *testing.T) {
	user := &model.User{ID: 7, Login: "alice", Role: model.RoleAdmin}

	t.Run("IssueVerify", func(t *testing.T) {
		svc := NewTokenService("secret", time.Hour)
		token, err := svc.Issue(user)
		if err != nil {
			t.Fatalf("Issue failed: %v", err)
		}

		id, err := svc.Verify(token)
		if err != nil {
			t.Fatalf("Verify failed: %v", err)
		}
		if id.UserID != 7 || id.Login != "alice" || id.Role != model.RoleAdmin {
			t.Errorf("unexpected identity: %+v", id)
		}
		if !id.IsAdmin() {
			t.Error("expected admin identity")
		}
	})

	t.Run("WrongSecret", func(t *testing.T) {
		token, _ := NewTokenService("secret", time.Hour).Issue(user)
		_, err := NewTokenService("other", time.Hour).Verify(token)
		if !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("Expired", func(t *testing.T) {
		svc := NewTokenService("secret", 7*24*time.Hour)
		issuedAt := time.Now().Add(-8 * 24 * time.Hour)
		svc.now = func() time.Time { return issuedAt }
		token, err := svc.Issue(user)
		if err != nil {
			t.Fatalf("Issue failed: %v", err)
		}

		svc.now = time.Now
		if _, err := svc.Verify(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected expired token to be rejected, got %v", err)
		}
	})

	t.Run("Tampered", func(t *testing.T) {
		svc := NewTokenService("secret", time.Hour)
		token, _ := svc.Issue(user)
		parts := strings.Split(token, ".")
		parts[1] = parts[1] + "x"
		if _, err := svc.Verify(strings.Join(parts, ".")); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected tampered token to be rejected, got %v", err)
		}
	})

	t.Run("Garbage", func(t *testing.T) {
		svc := NewTokenService("secret", time.Hour)
		if _, err := svc.Verify("not-a-token"); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})
}

func TestRandomSecret(t *testing.T) {
	a, err := RandomSecret()
	if err != nil {
		t.Fatalf("RandomSecret failed: %v", err)
	}
	b, _ := RandomSecret()
	if len(a) != 64 || a == b {
		t.Errorf("expected two distinct 64-char secrets, got %q and %q", a, b)
	}
}

func TestIdentityContext(t *testing.T) {
	if _, ok := IdentityFromContext(context.Background()); ok {
		t.Error("expected no identity in empty context")
	}

	ctx := WithIdentity(context.Background(), &Identity{UserID: 1, Role: model.RoleUser})
	id, ok := IdentityFromContext(ctx)
	if !ok || id.UserID != 1 {
		t.Fatalf("expected identity 1, got %+v", id)
	}
	if id.IsAdmin() {
		t.Error("user role must not be admin")
	}
}

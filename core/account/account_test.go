package account

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"Tunebox/config"
	"Tunebox/core/auth"
	"Tunebox/db"
	"Tunebox/model"
	"Tunebox/repository"

	"golang.org/x/crypto/bcrypt"
)

func newTestService(t *testing.T) (*Service, *auth.TokenService) {
	t.Helper()
	cfg := config.Default()
	cfg.SQLitePath = filepath.Join(t.TempDir(), "account.db")
	cfg.DBLogLevel = "silent"

	gormDB, err := db.Connect(cfg)
	if err != nil {
		t.Fatalf("failed to connect test database: %v", err)
	}
	t.Cleanup(func() { db.Close(gormDB) })
	if err := db.Migrate(gormDB); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	tokens := auth.NewTokenService("test-secret", time.Hour)
	return NewService(repository.NewGormUserRepository(gormDB), tokens, bcrypt.MinCost), tokens
}

func TestRegisterLogin(t *testing.T) {
	ctx := context.Background()
	svc, tokens := newTestService(t)

	profile, err := svc.Register(ctx, " alice ", "pw123")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if profile.Login != "alice" || profile.Role != model.RoleUser || profile.IsAdmin {
		t.Errorf("unexpected profile: %+v", profile)
	}

	t.Run("TokenCarriesRole", func(t *testing.T) {
		res, err := svc.Login(ctx, "alice", "pw123")
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}
		id, err := tokens.Verify(res.Token)
		if err != nil {
			t.Fatalf("Verify failed: %v", err)
		}
		if id.UserID != profile.ID || id.Role != model.RoleUser {
			t.Errorf("unexpected identity: %+v", id)
		}
	})

	t.Run("SameErrorForUnknownAndWrong", func(t *testing.T) {
		_, errWrong := svc.Login(ctx, "alice", "nope")
		_, errUnknown := svc.Login(ctx, "mallory", "nope")
		if !errors.Is(errWrong, ErrInvalidCredentials) || !errors.Is(errUnknown, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v / %v", errWrong, errUnknown)
		}
		if errWrong.Error() != errUnknown.Error() {
			t.Errorf("messages differ: %q vs %q", errWrong, errUnknown)
		}
	})

	t.Run("Duplicate", func(t *testing.T) {
		if _, err := svc.Register(ctx, "alice", "other"); !errors.Is(err, ErrLoginTaken) {
			t.Errorf("expected ErrLoginTaken, got %v", err)
		}
	})

	t.Run("Missing", func(t *testing.T) {
		if _, err := svc.Register(ctx, "  ", "pw"); !errors.Is(err, ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
		if _, err := svc.Login(ctx, "alice", ""); !errors.Is(err, ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})

	t.Run("TooLong", func(t *testing.T) {
		longLogin := strings.Repeat("a", MaxLoginLength+1)
		if _, err := svc.Register(ctx, longLogin, "pw"); !errors.Is(err, ErrInvalidCredentialFormat) {
			t.Errorf("expected ErrInvalidCredentialFormat for long login, got %v", err)
		}
		longPassword := strings.Repeat("p", MaxPasswordBytes+1)
		if _, err := svc.Register(ctx, "bob", longPassword); !errors.Is(err, ErrInvalidCredentialFormat) {
			t.Errorf("expected ErrInvalidCredentialFormat for long password, got %v", err)
		}
		if _, err := svc.Register(ctx, strings.Repeat("é", MaxLoginLength), "pw"); err != nil {
			t.Errorf("expected login of %d characters to be accepted, got %v", MaxLoginLength, err)
		}
	})

	t.Run("Profile", func(t *testing.T) {
		p, err := svc.Profile(ctx, profile.ID)
		if err != nil || p.Login != "alice" {
			t.Errorf("unexpected profile %+v (%v)", p, err)
		}
		if _, err := svc.Profile(ctx, 9999); !errors.Is(err, ErrUserNotFound) {
			t.Errorf("expected ErrUserNotFound, got %v", err)
		}
	})
}

func TestSeedAdmin(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	created, err := svc.SeedAdmin(ctx, "admin", "adminpass")
	if err != nil || !created {
		t.Fatalf("expected admin to be created, got %v (%v)", created, err)
	}
	created, err = svc.SeedAdmin(ctx, "admin", "changed")
	if err != nil || created {
		t.Fatalf("expected second seed to be a no-op, got %v (%v)", created, err)
	}

	res, err := svc.Login(ctx, "admin", "adminpass")
	if err != nil {
		t.Fatalf("admin login failed: %v", err)
	}
	if !res.User.IsAdmin || res.User.Role != model.RoleAdmin {
		t.Errorf("expected admin profile, got %+v", res.User)
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFile(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		cfg, err := LoadFile("")
		if err != nil {
			t.Fatalf("LoadFile failed: %v", err)
		}
		if cfg.Port != "5000" {
			t.Errorf("expected default port 5000, got %s", cfg.Port)
		}
		if cfg.TokenTTL != 7*24*time.Hour {
			t.Errorf("expected 7 day token TTL, got %s", cfg.TokenTTL)
		}
		if cfg.UploadURLPrefix != "/uploads" {
			t.Errorf("expected /uploads prefix, got %s", cfg.UploadURLPrefix)
		}
		if cfg.AdminPassword != DefaultAdminPassword {
			t.Errorf("expected default admin password, got %s", cfg.AdminPassword)
		}
	})

	t.Run("FileThenEnv", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tunebox.toml")
		content := `
port = "6000"
token_ttl = "1h"
upload_url_prefix = "media/"
db_driver = "mysql"
admin_password = "from-file"
`
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}
		t.Setenv("PORT", "7000")

		cfg, err := LoadFile(path)
		if err != nil {
			t.Fatalf("LoadFile failed: %v", err)
		}
		if cfg.Port != "7000" {
			t.Errorf("env should override file, got port %s", cfg.Port)
		}
		if cfg.TokenTTL != time.Hour {
			t.Errorf("expected 1h TTL from file, got %s", cfg.TokenTTL)
		}
		if cfg.UploadURLPrefix != "/media" {
			t.Errorf("expected normalized /media prefix, got %s", cfg.UploadURLPrefix)
		}
		if cfg.DBDriver != "mysql" {
			t.Errorf("expected mysql driver, got %s", cfg.DBDriver)
		}
		if cfg.AdminPassword != "from-file" {
			t.Errorf("expected admin password from file, got %s", cfg.AdminPassword)
		}
	})

	t.Run("InvalidDriver", func(t *testing.T) {
		t.Setenv("DB_DRIVER", "oracle")
		if _, err := LoadFile(""); err == nil {
			t.Error("expected error for unsupported driver")
		}
	})

	t.Run("InvalidPolicy", func(t *testing.T) {
		t.Setenv("UPLOAD_POLICY", "anyone")
		if _, err := LoadFile(""); err == nil {
			t.Error("expected error for unsupported upload policy")
		}
	})
}

func TestAddr(t *testing.T) {
	tests := []struct {
		port string
		want string
	}{
		{"5000", ":5000"},
		{"127.0.0.1:8080", "127.0.0.1:8080"},
	}
	for _, tt := range tests {
		cfg := &Config{Port: tt.port}
		if got := cfg.Addr(); got != tt.want {
			t.Errorf("Addr(%q) = %q, want %q", tt.port, got, tt.want)
		}
	}
}

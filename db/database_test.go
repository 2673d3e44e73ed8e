package db

import (
	"context"
	"path/filepath"
	"testing"

	"Tunebox/config"
	"Tunebox/model"
)

func TestConnectAndMigrate(t *testing.T) {
	cfg := config.Default()
	cfg.SQLitePath = filepath.Join(t.TempDir(), "nested", "test.db")
	cfg.DBLogLevel = "silent"

	gormDB, err := Connect(cfg)
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer Close(gormDB)

	if err := Migrate(gormDB); err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}
	// Running twice must be harmless.
	if err := Migrate(gormDB); err != nil {
		t.Fatalf("second Migrate failed: %v", err)
	}

	for _, m := range []interface{}{&model.User{}, &model.Track{}, &model.Album{}, &model.Playlist{},
		&model.PlaylistTrack{}, &model.Comment{}, &model.Like{}} {
		if !gormDB.Migrator().HasTable(m) {
			t.Errorf("expected table for %T", m)
		}
	}

	if err := Ping(context.Background(), gormDB); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}

func TestConnectUnsupportedDriver(t *testing.T) {
	cfg := config.Default()
	cfg.DBDriver = "oracle"
	if _, err := Connect(cfg); err == nil {
		t.Error("expected error for unsupported driver")
	}
}

package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"Tunebox/config"
	"Tunebox/db"
	"Tunebox/model"

	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	cfg := config.Default()
	cfg.SQLitePath = filepath.Join(t.TempDir(), "repo.db")
	cfg.DBLogLevel = "silent"

	gormDB, err := db.Connect(cfg)
	if err != nil {
		t.Fatalf("failed to connect test database: %v", err)
	}
	t.Cleanup(func() { db.Close(gormDB) })

	if err := db.Migrate(gormDB); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return gormDB
}

func strPtr(s string) *string { return &s }

func int64Ptr(v int64) *int64 { return &v }

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewGormUserRepository(newTestDB(t))

	id, err := repo.CreateUser(ctx, &model.User{Login: "alice", PasswordHash: "hash"})
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	t.Run("DefaultRole", func(t *testing.T) {
		user, err := repo.GetUserByID(ctx, id)
		if err != nil || user == nil {
			t.Fatalf("GetUserByID returned %v, %v", user, err)
		}
		if user.Role != model.RoleUser {
			t.Errorf("expected role %q, got %q", model.RoleUser, user.Role)
		}
	})

	t.Run("Duplicate", func(t *testing.T) {
		_, err := repo.CreateUser(ctx, &model.User{Login: "alice", PasswordHash: "other"})
		if !errors.Is(err, ErrDuplicateUser) {
			t.Errorf("expected ErrDuplicateUser, got %v", err)
		}
	})

	t.Run("Missing", func(t *testing.T) {
		user, err := repo.GetUserByLogin(ctx, "nobody")
		if err != nil || user != nil {
			t.Errorf("expected (nil, nil), got %v, %v", user, err)
		}
	})

	t.Run("Count", func(t *testing.T) {
		n, err := repo.CountUsers(ctx)
		if err != nil || n != 1 {
			t.Errorf("expected 1 user, got %d (%v)", n, err)
		}
	})
}

func TestTrackRepository(t *testing.T) {
	ctx := context.Background()
	gormDB := newTestDB(t)
	tracks := NewGormTrackRepository(gormDB)
	albums := NewGormAlbumRepository(gormDB)

	albumID, err := albums.CreateAlbum(ctx, &model.Album{Title: "Debut"})
	if err != nil {
		t.Fatalf("CreateAlbum failed: %v", err)
	}

	firstID, err := tracks.CreateTrack(ctx, &model.Track{Title: "One", Filename: strPtr("one.mp3")})
	if err != nil {
		t.Fatalf("CreateTrack failed: %v", err)
	}
	secondID, err := tracks.CreateTrack(ctx, &model.Track{Title: "Two", Filename: strPtr("two.mp3"), AlbumID: int64Ptr(albumID)})
	if err != nil {
		t.Fatalf("CreateTrack failed: %v", err)
	}

	t.Run("ListNewestFirst", func(t *testing.T) {
		list, err := tracks.ListTracks(ctx, TrackFilter{})
		if err != nil {
			t.Fatalf("ListTracks failed: %v", err)
		}
		if len(list) != 2 || list[0].ID != secondID || list[1].ID != firstID {
			t.Fatalf("unexpected order: %+v", list)
		}
	})

	t.Run("ListByAlbum", func(t *testing.T) {
		list, err := tracks.ListTracks(ctx, TrackFilter{AlbumID: int64Ptr(albumID)})
		if err != nil {
			t.Fatalf("ListTracks failed: %v", err)
		}
		if len(list) != 1 || list[0].ID != secondID {
			t.Errorf("expected only track %d, got %+v", secondID, list)
		}
	})

	t.Run("UpdateCover", func(t *testing.T) {
		if err := tracks.UpdateTrackCover(ctx, firstID, TrackCover{Filename: strPtr("one.png")}); err != nil {
			t.Fatalf("UpdateTrackCover failed: %v", err)
		}
		track, err := tracks.GetTrackByID(ctx, firstID)
		if err != nil || track == nil {
			t.Fatalf("GetTrackByID returned %v, %v", track, err)
		}
		if track.CoverFilename == nil || *track.CoverFilename != "one.png" {
			t.Errorf("expected cover one.png, got %v", track.CoverFilename)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := tracks.DeleteTrack(ctx, firstID); err != nil {
			t.Fatalf("DeleteTrack failed: %v", err)
		}
		if err := tracks.DeleteTrack(ctx, firstID); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound on second delete, got %v", err)
		}
		track, err := tracks.GetTrackByID(ctx, firstID)
		if err != nil || track != nil {
			t.Errorf("expected deleted track to be absent, got %v, %v", track, err)
		}
	})

	t.Run("AlbumsByTitle", func(t *testing.T) {
		if _, err := albums.CreateAlbum(ctx, &model.Album{Title: "Alpha"}); err != nil {
			t.Fatalf("CreateAlbum failed: %v", err)
		}
		list, err := albums.ListAlbums(ctx)
		if err != nil {
			t.Fatalf("ListAlbums failed: %v", err)
		}
		if len(list) != 2 || list[0].Title != "Alpha" || list[1].Title != "Debut" {
			t.Errorf("unexpected album order: %+v", list)
		}
	})
}

func TestPlaylistRepository(t *testing.T) {
	ctx := context.Background()
	gormDB := newTestDB(t)
	playlists := NewGormPlaylistRepository(gormDB)
	tracks := NewGormTrackRepository(gormDB)

	a, _ := tracks.CreateTrack(ctx, &model.Track{Title: "A", Filename: strPtr("a.mp3")})
	b, _ := tracks.CreateTrack(ctx, &model.Track{Title: "B", Filename: strPtr("b.mp3")})

	playlistID, err := playlists.CreatePlaylist(ctx, &model.Playlist{UserID: 1, Title: "Mix"})
	if err != nil {
		t.Fatalf("CreatePlaylist failed: %v", err)
	}

	t.Run("Ownership", func(t *testing.T) {
		p, err := playlists.GetPlaylistForUser(ctx, playlistID, 2)
		if err != nil || p != nil {
			t.Errorf("expected other user to see nothing, got %v, %v", p, err)
		}
		p, err = playlists.GetPlaylistForUser(ctx, playlistID, 1)
		if err != nil || p == nil || p.Title != "Mix" {
			t.Errorf("expected owner to see playlist, got %v, %v", p, err)
		}
		list, err := playlists.ListPlaylistsByUser(ctx, 2)
		if err != nil || len(list) != 0 {
			t.Errorf("expected no playlists for user 2, got %v, %v", list, err)
		}
	})

	t.Run("InsertionOrder", func(t *testing.T) {
		for _, id := range []int64{b, a, b} {
			if _, err := playlists.AddTrackToPlaylist(ctx, playlistID, id); err != nil {
				t.Fatalf("AddTrackToPlaylist failed: %v", err)
			}
		}
		// A dangling entry is accepted and skipped when listing.
		if _, err := playlists.AddTrackToPlaylist(ctx, playlistID, 9999); err != nil {
			t.Fatalf("AddTrackToPlaylist with unknown track failed: %v", err)
		}

		list, err := playlists.ListPlaylistTracks(ctx, playlistID)
		if err != nil {
			t.Fatalf("ListPlaylistTracks failed: %v", err)
		}
		want := []int64{b, a, b}
		if len(list) != len(want) {
			t.Fatalf("expected %d tracks, got %d", len(want), len(list))
		}
		for i, id := range want {
			if list[i].ID != id {
				t.Errorf("position %d: expected track %d, got %d", i, id, list[i].ID)
			}
		}
	})
}

func TestCommentAndLikeRepository(t *testing.T) {
	ctx := context.Background()
	gormDB := newTestDB(t)
	users := NewGormUserRepository(gormDB)
	comments := NewGormCommentRepository(gormDB)
	likes := NewGormLikeRepository(gormDB)

	userID, err := users.CreateUser(ctx, &model.User{Login: "bob", PasswordHash: "hash"})
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	t.Run("Comments", func(t *testing.T) {
		for _, text := range []string{"first", "second"} {
			if _, err := comments.CreateComment(ctx, &model.Comment{UserID: userID, TrackID: 7, Text: text}); err != nil {
				t.Fatalf("CreateComment failed: %v", err)
			}
		}
		list, err := comments.ListCommentsByTrack(ctx, 7)
		if err != nil {
			t.Fatalf("ListCommentsByTrack failed: %v", err)
		}
		if len(list) != 2 || list[0].Text != "first" || list[1].Text != "second" {
			t.Fatalf("unexpected comments: %+v", list)
		}
		if list[0].Login != "bob" {
			t.Errorf("expected login bob, got %q", list[0].Login)
		}
	})

	t.Run("LikeIdempotent", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			if err := likes.Like(ctx, userID, 7); err != nil {
				t.Fatalf("Like failed: %v", err)
			}
		}
		n, err := likes.CountLikes(ctx, 7)
		if err != nil || n != 1 {
			t.Errorf("expected 1 like, got %d (%v)", n, err)
		}
		liked, err := likes.HasLiked(ctx, userID, 7)
		if err != nil || !liked {
			t.Errorf("expected liked, got %v (%v)", liked, err)
		}
	})

	t.Run("Unlike", func(t *testing.T) {
		if err := likes.Unlike(ctx, userID, 7); err != nil {
			t.Fatalf("Unlike failed: %v", err)
		}
		if err := likes.Unlike(ctx, userID, 7); err != nil {
			t.Errorf("second Unlike should be a no-op, got %v", err)
		}
		n, _ := likes.CountLikes(ctx, 7)
		if n != 0 {
			t.Errorf("expected 0 likes, got %d", n)
		}
	})
}

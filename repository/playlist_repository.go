package repository

import (
	"context"
	"errors"
	"fmt"

	"Tunebox/model"

	"gorm.io/gorm"
)

// PlaylistRepository defines the playlist data operations.
//
// Ownership is enforced only through the user filter of the read methods;
// AddTrackToPlaylist checks neither the playlist owner nor the track.
type PlaylistRepository interface {
	CreatePlaylist(ctx context.Context, playlist *model.Playlist) (int64, error)
	ListPlaylistsByUser(ctx context.Context, userID int64) ([]*model.Playlist, error)
	GetPlaylistForUser(ctx context.Context, id, userID int64) (*model.Playlist, error)
	AddTrackToPlaylist(ctx context.Context, playlistID, trackID int64) (*model.PlaylistTrack, error)
	ListPlaylistTracks(ctx context.Context, playlistID int64) ([]*model.Track, error)
}

type gormPlaylistRepository struct {
	db *gorm.DB
}

// NewGormPlaylistRepository creates a PlaylistRepository backed by GORM.
func NewGormPlaylistRepository(db *gorm.DB) PlaylistRepository {
	return &gormPlaylistRepository{db: db}
}

func (r *gormPlaylistRepository) CreatePlaylist(ctx context.Context, playlist *model.Playlist) (int64, error) {
	if err := r.db.WithContext(ctx).Create(playlist).Error; err != nil {
		return 0, fmt.Errorf("failed to create playlist %q: %w", playlist.Title, err)
	}
	return playlist.ID, nil
}

func (r *gormPlaylistRepository) ListPlaylistsByUser(ctx context.Context, userID int64) ([]*model.Playlist, error) {
	playlists := make([]*model.Playlist, 0)
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Find(&playlists).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list playlists for user %d: %w", userID, err)
	}
	return playlists, nil
}

// GetPlaylistForUser returns the playlist only when userID owns it, else (nil, nil).
func (r *gormPlaylistRepository) GetPlaylistForUser(ctx context.Context, id, userID int64) (*model.Playlist, error) {
	var playlist model.Playlist
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&playlist).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get playlist %d: %w", id, err)
	}
	return &playlist, nil
}

// AddTrackToPlaylist appends trackID to the end of the playlist.
func (r *gormPlaylistRepository) AddTrackToPlaylist(ctx context.Context, playlistID, trackID int64) (*model.PlaylistTrack, error) {
	entry := &model.PlaylistTrack{
		PlaylistID: playlistID,
		TrackID:    trackID,
	}
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, fmt.Errorf("failed to add track %d to playlist %d: %w", trackID, playlistID, err)
	}
	return entry, nil
}

// ListPlaylistTracks returns the tracks of a playlist in insertion order.
// Entries whose track no longer exists are skipped.
func (r *gormPlaylistRepository) ListPlaylistTracks(ctx context.Context, playlistID int64) ([]*model.Track, error) {
	tracks := make([]*model.Track, 0)
	err := r.db.WithContext(ctx).
		Table("playlist_tracks").
		Select("tracks.*").
		Joins("JOIN tracks ON tracks.id = playlist_tracks.track_id").
		Where("playlist_tracks.playlist_id = ?", playlistID).
		Order("playlist_tracks.id ASC").
		Find(&tracks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tracks of playlist %d: %w", playlistID, err)
	}
	return tracks, nil
}

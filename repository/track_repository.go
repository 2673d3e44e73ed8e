package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"Tunebox/model"

	"gorm.io/gorm"
)

// TrackFilter narrows ListTracks. Zero value lists every track.
type TrackFilter struct {
	AlbumID *int64
}

// TrackCover is the cover reference written by UpdateTrackCover.
// Exactly one of the fields is expected to be set, matching the track's storage mode.
type TrackCover struct {
	Filename   *string
	ExternalID *string
}

// TrackRepository defines the interface for track data operations.
type TrackRepository interface {
	CreateTrack(ctx context.Context, track *model.Track) (int64, error)
	GetTrackByID(ctx context.Context, id int64) (*model.Track, error)
	ListTracks(ctx context.Context, filter TrackFilter) ([]*model.Track, error)
	UpdateTrackCover(ctx context.Context, trackID int64, cover TrackCover) error
	DeleteTrack(ctx context.Context, id int64) error
	CountTracks(ctx context.Context) (int64, error)
}

// gormTrackRepository implements TrackRepository with GORM.
type gormTrackRepository struct {
	db *gorm.DB
}

// NewGormTrackRepository creates a new instance of gormTrackRepository.
func NewGormTrackRepository(db *gorm.DB) TrackRepository {
	return &gormTrackRepository{db: db}
}

// CreateTrack adds a new track and returns the generated ID.
func (r *gormTrackRepository) CreateTrack(ctx context.Context, track *model.Track) (int64, error) {
	if err := r.db.WithContext(ctx).Create(track).Error; err != nil {
		return 0, fmt.Errorf("failed to create track %q: %w", track.Title, err)
	}
	return track.ID, nil
}

// GetTrackByID retrieves a track by its ID. It returns (nil, nil) when absent.
func (r *gormTrackRepository) GetTrackByID(ctx context.Context, id int64) (*model.Track, error) {
	var track model.Track
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&track).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get track by ID %d: %w", id, err)
	}
	return &track, nil
}

// ListTracks returns tracks newest first.
func (r *gormTrackRepository) ListTracks(ctx context.Context, filter TrackFilter) ([]*model.Track, error) {
	query := r.db.WithContext(ctx).Model(&model.Track{})
	if filter.AlbumID != nil {
		query = query.Where("album_id = ?", *filter.AlbumID)
	}

	tracks := make([]*model.Track, 0)
	if err := query.Order("created_at DESC").Order("id DESC").Find(&tracks).Error; err != nil {
		return nil, fmt.Errorf("failed to list tracks: %w", err)
	}
	return tracks, nil
}

// UpdateTrackCover sets the cover reference of a track. Concurrent updates are last-write-wins.
func (r *gormTrackRepository) UpdateTrackCover(ctx context.Context, trackID int64, cover TrackCover) error {
	updates := map[string]interface{}{
		"updated_at": time.Now(),
	}
	if cover.Filename != nil {
		updates["cover_filename"] = *cover.Filename
	}
	if cover.ExternalID != nil {
		updates["external_cover_id"] = *cover.ExternalID
	}

	err := r.db.WithContext(ctx).Model(&model.Track{}).
		Where("id = ?", trackID).
		Updates(updates).Error
	if err != nil {
		return fmt.Errorf("failed to update cover for track ID %d: %w", trackID, err)
	}
	return nil
}

// DeleteTrack removes the track row only. Stored files, comments, likes and playlist
// entries are left in place. It returns ErrNotFound when no row matched.
func (r *gormTrackRepository) DeleteTrack(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Track{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete track ID %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("track %d: %w", id, ErrNotFound)
	}
	return nil
}

// CountTracks returns the number of track rows.
func (r *gormTrackRepository) CountTracks(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Track{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count tracks: %w", err)
	}
	return count, nil
}

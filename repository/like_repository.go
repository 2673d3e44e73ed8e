package repository

import (
	"context"
	"fmt"

	"Tunebox/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LikeRepository stores (user, track) like pairs.
type LikeRepository interface {
	Like(ctx context.Context, userID, trackID int64) error
	Unlike(ctx context.Context, userID, trackID int64) error
	CountLikes(ctx context.Context, trackID int64) (int64, error)
	HasLiked(ctx context.Context, userID, trackID int64) (bool, error)
}

type gormLikeRepository struct {
	db *gorm.DB
}

// NewGormLikeRepository creates a LikeRepository backed by GORM.
func NewGormLikeRepository(db *gorm.DB) LikeRepository {
	return &gormLikeRepository{db: db}
}

// Like inserts the pair, ignoring an existing one.
func (r *gormLikeRepository) Like(ctx context.Context, userID, trackID int64) error {
	like := &model.Like{UserID: userID, TrackID: trackID}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(like).Error
	if err != nil && !isDuplicateKey(err) {
		return fmt.Errorf("failed to like track %d for user %d: %w", trackID, userID, err)
	}
	return nil
}

// Unlike removes the pair. Removing an absent pair is not an error.
func (r *gormLikeRepository) Unlike(ctx context.Context, userID, trackID int64) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND track_id = ?", userID, trackID).
		Delete(&model.Like{}).Error
	if err != nil {
		return fmt.Errorf("failed to unlike track %d for user %d: %w", trackID, userID, err)
	}
	return nil
}

// CountLikes is a live aggregate over the likes table.
func (r *gormLikeRepository) CountLikes(ctx context.Context, trackID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Like{}).
		Where("track_id = ?", trackID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count likes of track %d: %w", trackID, err)
	}
	return count, nil
}

func (r *gormLikeRepository) HasLiked(ctx context.Context, userID, trackID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Like{}).
		Where("user_id = ? AND track_id = ?", userID, trackID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check like of track %d for user %d: %w", trackID, userID, err)
	}
	return count > 0, nil
}

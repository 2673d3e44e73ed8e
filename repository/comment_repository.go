package repository

import (
	"context"
	"fmt"

	"Tunebox/model"

	"gorm.io/gorm"
)

// CommentRepository stores append-only track comments.
type CommentRepository interface {
	CreateComment(ctx context.Context, comment *model.Comment) (int64, error)
	ListCommentsByTrack(ctx context.Context, trackID int64) ([]*model.CommentView, error)
}

type gormCommentRepository struct {
	db *gorm.DB
}

// NewGormCommentRepository creates a CommentRepository backed by GORM.
func NewGormCommentRepository(db *gorm.DB) CommentRepository {
	return &gormCommentRepository{db: db}
}

func (r *gormCommentRepository) CreateComment(ctx context.Context, comment *model.Comment) (int64, error) {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return 0, fmt.Errorf("failed to create comment on track %d: %w", comment.TrackID, err)
	}
	return comment.ID, nil
}

// ListCommentsByTrack returns comments oldest first with the author's login.
func (r *gormCommentRepository) ListCommentsByTrack(ctx context.Context, trackID int64) ([]*model.CommentView, error) {
	comments := make([]*model.CommentView, 0)
	err := r.db.WithContext(ctx).
		Table("comments").
		Select("comments.*, users.login AS login").
		Joins("LEFT JOIN users ON users.id = comments.user_id").
		Where("comments.track_id = ?", trackID).
		Order("comments.posted_at ASC").Order("comments.id ASC").
		Scan(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list comments of track %d: %w", trackID, err)
	}
	return comments, nil
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"Tunebox/model"

	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) (int64, error)
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	GetUserByLogin(ctx context.Context, login string) (*model.User, error)
	CountUsers(ctx context.Context) (int64, error)
}

// gormUserRepository implements UserRepository with GORM.
type gormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new gormUserRepository.
func NewGormUserRepository(db *gorm.DB) UserRepository {
	return &gormUserRepository{db: db}
}

// CreateUser adds a new user and returns its ID. A taken login yields ErrDuplicateUser.
func (r *gormUserRepository) CreateUser(ctx context.Context, user *model.User) (int64, error) {
	if user.Role == "" {
		user.Role = model.RoleUser
	}
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isDuplicateKey(err) {
			return 0, fmt.Errorf("%w: %s", ErrDuplicateUser, user.Login)
		}
		return 0, fmt.Errorf("failed to create user %s: %w", user.Login, err)
	}
	return user.ID, nil
}

// GetUserByID retrieves a user by their ID. It returns (nil, nil) when absent.
func (r *gormUserRepository) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by ID %d: %w", id, err)
	}
	return &user, nil
}

// GetUserByLogin retrieves a user by login. It returns (nil, nil) when absent.
func (r *gormUserRepository) GetUserByLogin(ctx context.Context, login string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("login = ?", login).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by login %s: %w", login, err)
	}
	return &user, nil
}

// CountUsers returns the number of users.
func (r *gormUserRepository) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.User{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"Tunebox/model"

	"gorm.io/gorm"
)

// AlbumRepository 定义专辑相关的数据库操作接口
type AlbumRepository interface {
	// CreateAlbum 创建新专辑
	CreateAlbum(ctx context.Context, album *model.Album) (int64, error)

	// GetAlbumByID 根据ID获取专辑信息
	GetAlbumByID(ctx context.Context, id int64) (*model.Album, error)

	// ListAlbums 按标题顺序获取全部专辑
	ListAlbums(ctx context.Context) ([]*model.Album, error)
}

// gormAlbumRepository GORM 实现
type gormAlbumRepository struct {
	db *gorm.DB
}

// NewGormAlbumRepository 创建新的专辑仓库实例
func NewGormAlbumRepository(db *gorm.DB) AlbumRepository {
	return &gormAlbumRepository{db: db}
}

func (r *gormAlbumRepository) CreateAlbum(ctx context.Context, album *model.Album) (int64, error) {
	if err := r.db.WithContext(ctx).Create(album).Error; err != nil {
		return 0, fmt.Errorf("failed to create album %q: %w", album.Title, err)
	}
	return album.ID, nil
}

func (r *gormAlbumRepository) GetAlbumByID(ctx context.Context, id int64) (*model.Album, error) {
	var album model.Album
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&album).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get album by ID %d: %w", id, err)
	}
	return &album, nil
}

func (r *gormAlbumRepository) ListAlbums(ctx context.Context) ([]*model.Album, error) {
	albums := make([]*model.Album, 0)
	if err := r.db.WithContext(ctx).Order("title ASC").Order("id ASC").Find(&albums).Error; err != nil {
		return nil, fmt.Errorf("failed to list albums: %w", err)
	}
	return albums, nil
}

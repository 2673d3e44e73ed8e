package model

import "time"

// Track 曲库中的一首歌曲
//
// 歌曲只使用两种存储方式之一：本地存储时 Filename 为上传目录中的文件名，
// 外部存储时 ExternalAudioID 标识托管在别处的文件。封面与音频使用相同的存储方式。
type Track struct {
	ID              int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Title           string    `json:"title" gorm:"size:255;not null"`
	Filename        *string   `json:"filename" gorm:"size:255"`
	CoverFilename   *string   `json:"cover_filename" gorm:"size:255"`
	ExternalAudioID *string   `json:"external_audio_id,omitempty" gorm:"size:255"`
	ExternalCoverID *string   `json:"external_cover_id,omitempty" gorm:"size:255"`
	Lyrics          *string   `json:"lyrics" gorm:"type:text"`
	UserID          *int64    `json:"user_id" gorm:"index"`
	AlbumID         *int64    `json:"album_id" gorm:"index"`
	CreatedAt       time.Time `json:"created_at" gorm:"index"`
	UpdatedAt       time.Time `json:"-"`
}

// TableName 指定表名
func (Track) TableName() string {
	return "tracks"
}

// 歌曲的存储方式
const (
	StorageLocal    = "local"
	StorageExternal = "external"
)

// StorageMode 外部托管的歌曲返回 StorageExternal，否则返回 StorageLocal
func (t *Track) StorageMode() string {
	if t.ExternalAudioID != nil {
		return StorageExternal
	}
	return StorageLocal
}

// TrackView 歌曲及其派生的访问地址
type TrackView struct {
	*Track
	StorageMode string  `json:"storage"`
	FileURL     string  `json:"file_url"`
	CoverURL    *string `json:"cover_url"`
}

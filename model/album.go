package model

import "time"

// Album 专辑，歌曲通过可空的 album_id 关联到专辑
type Album struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Title     string    `json:"title" gorm:"size:255;not null"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName 指定表名
func (Album) TableName() string {
	return "albums"
}

// AlbumWithTracks 包含专辑信息和其包含的歌曲
type AlbumWithTracks struct {
	Album  *Album       `json:"album"`
	Tracks []*TrackView `json:"tracks"`
}

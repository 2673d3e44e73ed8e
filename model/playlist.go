package model

import "time"

// Playlist 属于单个用户的有序歌曲列表
type Playlist struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    int64     `json:"user_id" gorm:"index;not null"`
	Title     string    `json:"title" gorm:"size:255;not null"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName 指定表名
func (Playlist) TableName() string {
	return "playlists"
}

// PlaylistTrack 播放列表与歌曲的关联，插入顺序(ID)即播放顺序
type PlaylistTrack struct {
	ID         int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	PlaylistID int64     `json:"playlist_id" gorm:"index;not null"`
	TrackID    int64     `json:"track_id" gorm:"index;not null"`
	AddedAt    time.Time `json:"added_at" gorm:"autoCreateTime"`
}

// TableName 指定表名
func (PlaylistTrack) TableName() string {
	return "playlist_tracks"
}

// PlaylistWithTracks 包含播放列表信息和其包含的歌曲
type PlaylistWithTracks struct {
	Playlist *Playlist    `json:"playlist"`
	Tracks   []*TrackView `json:"tracks"`
}

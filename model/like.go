package model

import "time"

// Like 用户对歌曲的点赞，记录存在即表示已点赞
type Like struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    int64     `json:"user_id" gorm:"not null;uniqueIndex:idx_likes_user_track"`
	TrackID   int64     `json:"track_id" gorm:"not null;uniqueIndex:idx_likes_user_track;index"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName 指定表名
func (Like) TableName() string {
	return "likes"
}

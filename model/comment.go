package model

import "time"

// Comment 歌曲评论，只追加不修改
type Comment struct {
	ID       int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID   int64     `json:"user_id" gorm:"index;not null"`
	TrackID  int64     `json:"track_id" gorm:"index;not null"`
	Text     string    `json:"text" gorm:"type:text;not null"`
	PostedAt time.Time `json:"posted_at" gorm:"autoCreateTime"`
}

// TableName 指定表名
func (Comment) TableName() string {
	return "comments"
}

// CommentView 附带作者登录名的评论
type CommentView struct {
	Comment
	Login string `json:"login"`
}

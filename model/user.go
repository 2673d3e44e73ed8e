package model

import "time"

// 用户和令牌携带的角色
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User 可登录的用户账号
type User struct {
	ID           int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Login        string    `json:"login" gorm:"size:100;uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // 不在API响应中返回
	Role         string    `json:"role" gorm:"size:20;not null;default:'user'"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// IsAdmin 判断用户是否为管理员
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Profile API返回的用户公开信息
type Profile struct {
	ID      int64  `json:"id"`
	Login   string `json:"login"`
	Role    string `json:"role"`
	IsAdmin bool   `json:"is_admin"`
}

// Profile 返回用户的公开信息
func (u *User) Profile() Profile {
	return Profile{
		ID:      u.ID,
		Login:   u.Login,
		Role:    u.Role,
		IsAdmin: u.IsAdmin(),
	}
}

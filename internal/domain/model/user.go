package model

import "time"

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// 初回サインイン or seedで作成。削除はしない
type User struct {
	ID              int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name            string     `gorm:"type:varchar(255)" json:"name"`
	Email           string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash    *string    `gorm:"column:password_hash" json:"-"`
	Role            Role       `gorm:"type:varchar(20);not null;default:'USER'" json:"role"`
	TokenVersion    int        `gorm:"not null;default:0" json:"-"`
	EmailVerifiedAt *time.Time `json:"emailVerifiedAt,omitempty"`
	CreatedAt       time.Time  `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt       time.Time  `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}

// パスワード設定済みか（magic linkだけのユーザーはfalse）
func (u User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

package model

import "time"

// 使用済みのmagic link。jtiで1回だけ使えるようにする
type UsedMagicLink struct {
	JTI   string `gorm:"primaryKey;type:varchar(64)" json:"jti"`
	Email string `gorm:"type:varchar(255);not null" json:"email"`

	//期限切れの行は消してよい
	ExpiresAt time.Time `gorm:"not null;index" json:"expiresAt"`
	UsedAt    time.Time `gorm:"not null" json:"usedAt"`
}

package model

import "time"

// カテゴリ削除で商品もDB側でカスケード削除
type Category struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Slug      string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug"`
	Image     string    `gorm:"type:text;not null" json:"image"`
	Products  []Product `gorm:"constraint:OnDelete:CASCADE" json:"products,omitempty"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}

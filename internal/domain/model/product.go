package model

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type Product struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string          `gorm:"type:varchar(255);not null" json:"name"`
	Slug        string          `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	Images      pq.StringArray  `gorm:"type:text[];not null;default:'{}'" json:"images"`
	Stock       int64           `gorm:"not null;default:0" json:"stock"`
	CategoryID  int64           `gorm:"not null;index" json:"categoryId"`
	Category    *Category       `gorm:"constraint:OnDelete:CASCADE" json:"category,omitempty"`
	CreatedAt   time.Time       `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time       `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}

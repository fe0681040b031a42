package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

// 並び順は慣習だけ。遷移は強制しない
const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

func (s OrderStatus) Valid() bool {
	for _, v := range OrderStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// status（と支払い済みフラグ）以外は作成後に変えない
type Order struct {
	ID                int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID            int64           `gorm:"not null;index" json:"userId"`
	User              *User           `json:"user,omitempty"`
	Status            OrderStatus     `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	Total             decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"total"`
	IsPaid            bool            `gorm:"not null;default:false" json:"isPaid"`
	CheckoutSessionID *string         `gorm:"type:varchar(255);uniqueIndex" json:"-"`
	OrderItems        []OrderItem     `gorm:"constraint:OnDelete:CASCADE" json:"orderItems"`
	CreatedAt         time.Time       `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt         time.Time       `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}

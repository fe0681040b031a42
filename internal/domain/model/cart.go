package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 1ユーザーにつき1つ（初回追加時に作成）
type Cart struct {
	ID        int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64      `gorm:"not null;uniqueIndex" json:"userId"`
	CartItems []CartItem `gorm:"constraint:OnDelete:CASCADE" json:"cartItems"`
	CreatedAt time.Time  `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time  `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}

// 明細の合計（追加時点の価格 x 数量）
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.CartItems {
		total = total.Add(it.Subtotal())
	}
	return total
}

// productIDの数量。無ければ0
func (c Cart) QuantityOf(productID int64) int64 {
	for _, it := range c.CartItems {
		if it.ProductID == productID {
			return it.Quantity
		}
	}
	return 0
}

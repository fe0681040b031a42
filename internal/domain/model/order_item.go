package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 購入時点の価格と数量のスナップショット。
// 商品はIDで参照するだけ（FKなし）なので、商品が消えても明細は残る。
type OrderItem struct {
	ID        int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   int64           `gorm:"not null;index" json:"orderId"`
	ProductID int64           `gorm:"not null;index" json:"productId"`
	Quantity  int64           `gorm:"not null" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	Product   *Product        `gorm:"-" json:"product"`
	CreatedAt time.Time       `gorm:"not null;autoCreateTime" json:"createdAt"`
}

func (it OrderItem) Subtotal() decimal.Decimal {
	return it.Price.Mul(decimal.NewFromInt(it.Quantity))
}

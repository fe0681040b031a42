package repository

import (
	"context"

	"storefront/internal/domain/model"
)

// UserIDが0なら全件（管理者用）
type OrderFilter struct {
	UserID int64
}

type OrderRepository interface {
	//新しい順、明細・商品・ユーザー付き
	List(ctx context.Context, f OrderFilter) ([]model.Order, error)
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	//SELECT ... FOR UPDATE で注文行だけロックして取る（明細なし）。Tx内で使う
	FindByIDForUpdate(ctx context.Context, orderID int64) (model.Order, error)

	//明細も一緒に作る
	Create(ctx context.Context, order *model.Order) error
	UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error

	SetCheckoutSession(ctx context.Context, orderID int64, sessionID string) error
	//支払い済みにしてstatusを更新
	MarkPaid(ctx context.Context, orderID int64, status model.OrderStatus) error
}

package repository

import (
	"context"

	"storefront/internal/domain/model"

	"github.com/shopspring/decimal"
)

type CartRepository interface {
	//明細と商品も一緒に返す。無ければErrNotFound
	FindByUserID(ctx context.Context, userID int64) (model.Cart, error)
	GetOrCreateByUserID(ctx context.Context, userID int64) (model.Cart, error)

	//同一商品は数量加算。価格は最初に追加した時点のまま
	UpsertItem(ctx context.Context, cartID int64, productID int64, addQty int64, price decimal.Decimal) error

	//呼び出したユーザーのカートの明細だけ消せる。無ければErrNotFound
	DeleteItemForUser(ctx context.Context, userID int64, cartItemID int64) error

	//明細を全削除（カートが無ければ何もしない）
	ClearByUserID(ctx context.Context, userID int64) error
}

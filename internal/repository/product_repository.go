package repository

import (
	"context"

	"storefront/internal/domain/model"
)

// 一覧の絞り込み
type ProductFilter struct {
	CategoryID int64
	IDs        []int64
}

// 商品の保存・取得の約束。
type ProductRepository interface {
	//categoryをjoinして返す
	List(ctx context.Context, f ProductFilter) ([]model.Product, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)
	FindBySlug(ctx context.Context, slug string) (model.Product, error)

	Create(ctx context.Context, p *model.Product) error
	Update(ctx context.Context, p *model.Product) error
	Delete(ctx context.Context, id int64) error

	//seed用（slugが既にあれば何もしない）
	UpsertBySlug(ctx context.Context, p *model.Product) error
}

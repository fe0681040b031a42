package repository

import (
	"context"

	"storefront/internal/domain/model"
)

// カテゴリの保存・取得の約束。
type CategoryRepository interface {
	//withProductsがtrueなら商品も一緒に返す
	List(ctx context.Context, withProducts bool) ([]model.Category, error)
	FindByID(ctx context.Context, id int64) (model.Category, error)
	FindBySlug(ctx context.Context, slug string) (model.Category, error)

	Create(ctx context.Context, c *model.Category) error
	Update(ctx context.Context, c *model.Category) error
	//商品はDBのON DELETE CASCADEで消える
	Delete(ctx context.Context, id int64) error

	//seed用（slugが既にあれば何もしない）
	UpsertBySlug(ctx context.Context, c *model.Category) error
}

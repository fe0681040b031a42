package usecase

import (
	"context"
	"errors"

	"storefront/internal/domain/model"
	"storefront/internal/metrics"
	repo "storefront/internal/repository"

	"github.com/shopspring/decimal"
)

type CartUsecase struct {
	cartRepo    repo.CartRepository
	productRepo repo.ProductRepository
	metrics     *metrics.Metrics
}

// DI
func NewCartUsecase(cartRepo repo.CartRepository, productRepo repo.ProductRepository, m *metrics.Metrics) *CartUsecase {
	return &CartUsecase{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		metrics:     m,
	}
}

type AddCartItemInput struct {
	ProductID int64
	Quantity  int64
}

// カート + サーバー側で計算した合計
type CartOutput struct {
	model.Cart
	Total decimal.Decimal `json:"total"`
}

// カートが無ければnil（エラーではない）
func (u *CartUsecase) GetCart(ctx context.Context, userID int64) (*CartOutput, error) {
	if userID <= 0 {
		return nil, unauthorized()
	}

	cart, err := u.cartRepo.FindByUserID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, dbError(ctx, "get cart", err)
	}
	return &CartOutput{Cart: cart, Total: cart.Total()}, nil
}

// 同じ商品は数量を足す。価格は最初に入れた時点のまま
func (u *CartUsecase) AddItem(ctx context.Context, userID int64, in AddCartItemInput) (*CartOutput, error) {
	if userID <= 0 {
		return nil, unauthorized()
	}
	if in.ProductID <= 0 {
		return nil, badRequest("product id is required")
	}
	if in.Quantity < 1 {
		return nil, badRequest("quantity must be at least 1")
	}

	p, err := u.productRepo.FindByID(ctx, in.ProductID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, notFound("product not found")
	}
	if err != nil {
		return nil, dbError(ctx, "get product", err)
	}

	cart, err := u.cartRepo.GetOrCreateByUserID(ctx, userID)
	if err != nil {
		return nil, dbError(ctx, "get or create cart", err)
	}

	if err := u.cartRepo.UpsertItem(ctx, cart.ID, p.ID, in.Quantity, p.Price); err != nil {
		return nil, dbError(ctx, "upsert cart item", err)
	}
	u.metrics.CartItemAdded()

	return u.GetCart(ctx, userID)
}

// 他人のカートの明細IDを渡されても404（存在を区別しない）。
// 削除後のカートを返す
func (u *CartUsecase) RemoveItem(ctx context.Context, userID int64, cartItemID int64) (*CartOutput, error) {
	if userID <= 0 {
		return nil, unauthorized()
	}
	if cartItemID <= 0 {
		return nil, badRequest("cart item id is required")
	}

	err := u.cartRepo.DeleteItemForUser(ctx, userID, cartItemID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, notFound("cart item not found")
	}
	if err != nil {
		return nil, dbError(ctx, "delete cart item", err)
	}
	return u.GetCart(ctx, userID)
}

package repository

import (
	"context"
	"errors"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartGormRepository struct {
	db *gorm.DB
}

// DI
func NewCartGormRepository(db *gorm.DB) *CartGormRepository {
	return &CartGormRepository{db: db}
}

// ユーザーのカートを明細・商品付きで取得
func (r *CartGormRepository) FindByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	var cart model.Cart

	err := r.db.WithContext(ctx).
		Preload("CartItems", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		Preload("CartItems.Product").
		Where("user_id = ?", userID).
		First(&cart).Error
	if err != nil {
		return model.Cart{}, translateError(err)
	}
	return cart, nil
}

// ユーザーのカートを取得し、無ければ作成
func (r *CartGormRepository) GetOrCreateByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	var cart model.Cart

	findErr := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&cart).Error
	if findErr == nil {
		return cart, nil
	}
	if !errors.Is(findErr, gorm.ErrRecordNotFound) {
		return model.Cart{}, findErr
	}

	// 無ければ作る（同時に作られた場合はuser_idの一意制約で何もしない）
	newCart := model.Cart{UserID: userID}
	if err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(&newCart).Error; err != nil {
		return model.Cart{}, err
	}

	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&cart).Error; err != nil {
		return model.Cart{}, translateError(err)
	}
	return cart, nil
}

// 同一商品は数量加算
// INSERT ... ON CONFLICT (cart_id, product_id) DO UPDATE で1文にする。
// 価格は最初の追加時のまま。
func (r *CartGormRepository) UpsertItem(ctx context.Context, cartID int64, productID int64, addQty int64, price decimal.Decimal) error {
	if addQty <= 0 {
		return errors.New("invalid quantity")
	}

	item := model.CartItem{
		CartID:    cartID,
		ProductID: productID,
		Quantity:  addQty,
		Price:     price,
	}

	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"quantity":   gorm.Expr("cart_items.quantity + EXCLUDED.quantity"),
				"updated_at": time.Now(),
			}),
		}).
		Create(&item).Error
}

// 呼び出したユーザーのカートの明細だけ削除
func (r *CartGormRepository) DeleteItemForUser(ctx context.Context, userID int64, cartItemID int64) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND cart_id IN (?)", cartItemID, r.ownedCartIDs(ctx, userID)).
		Delete(&model.CartItem{})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// ユーザーのカート明細を全削除
func (r *CartGormRepository) ClearByUserID(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).
		Where("cart_id IN (?)", r.ownedCartIDs(ctx, userID)).
		Delete(&model.CartItem{}).Error
}

// SELECT id FROM carts WHERE user_id = ?
func (r *CartGormRepository) ownedCartIDs(ctx context.Context, userID int64) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&model.Cart{}).
		Select("id").
		Where("user_id = ?", userID)
}

package repository

import (
	"context"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type orderGormRepository struct {
	db *gorm.DB
}

// DI
func NewOrderGormRepository(db *gorm.DB) repo.OrderRepository {
	return &orderGormRepository{db: db}
}

func orderItemsByID(db *gorm.DB) *gorm.DB {
	return db.Order("id asc")
}

func (r *orderGormRepository) List(ctx context.Context, f repo.OrderFilter) ([]model.Order, error) {
	q := r.db.WithContext(ctx).
		Preload("OrderItems", orderItemsByID).
		Preload("User").
		Order("created_at desc, id desc")
	if f.UserID > 0 {
		q = q.Where("user_id = ?", f.UserID)
	}

	var orders []model.Order
	if err := q.Find(&orders).Error; err != nil {
		return nil, err
	}

	if err := r.attachProducts(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderGormRepository) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).
		Preload("OrderItems", orderItemsByID).
		Where("id = ?", orderID).
		First(&o).Error
	if err != nil {
		return model.Order{}, translateError(err)
	}

	orders := []model.Order{o}
	if err := r.attachProducts(ctx, orders); err != nil {
		return model.Order{}, err
	}
	return orders[0], nil
}

// 同じ注文の確定が並んでも1つずつ処理されるように行ロックする
func (r *orderGormRepository) FindByIDForUpdate(ctx context.Context, orderID int64) (model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", orderID).
		First(&o).Error
	if err != nil {
		return model.Order{}, translateError(err)
	}
	return o, nil
}

// 明細も一緒にINSERTされる
func (r *orderGormRepository) Create(ctx context.Context, order *model.Order) error {
	return translateError(r.db.WithContext(ctx).Omit("User").Create(order).Error)
}

func (r *orderGormRepository) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	res := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ?", orderID).
		Update("status", status)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *orderGormRepository) SetCheckoutSession(ctx context.Context, orderID int64, sessionID string) error {
	res := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ?", orderID).
		Update("checkout_session_id", sessionID)

	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *orderGormRepository) MarkPaid(ctx context.Context, orderID int64, status model.OrderStatus) error {
	res := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ?", orderID).
		Updates(map[string]interface{}{
			"is_paid": true,
			"status":  status,
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 明細の商品はFKなしのIDだけなので別クエリで埋める。
// 削除済みの商品はnilのまま（スナップショットは残る）
func (r *orderGormRepository) attachProducts(ctx context.Context, orders []model.Order) error {
	ids := make([]int64, 0)
	seen := make(map[int64]bool)
	for _, o := range orders {
		for _, it := range o.OrderItems {
			if !seen[it.ProductID] {
				seen[it.ProductID] = true
				ids = append(ids, it.ProductID)
			}
		}
	}
	if len(ids) == 0 {
		return nil
	}

	var products []model.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return err
	}
	byID := make(map[int64]model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	for i := range orders {
		for j := range orders[i].OrderItems {
			if p, ok := byID[orders[i].OrderItems[j].ProductID]; ok {
				orders[i].OrderItems[j].Product = &p
			}
		}
	}
	return nil
}

package usecase

import (
	"context"
	"errors"
	"time"

	"storefront/internal/domain/model"
	"storefront/internal/logger"
	"storefront/internal/metrics"
	repo "storefront/internal/repository"

	"github.com/shopspring/decimal"
)

type OrderUsecase struct {
	orderRepo   repo.OrderRepository
	productRepo repo.ProductRepository
	txm         repo.TransactionManager
	metrics     *metrics.Metrics
}

// DI
func NewOrderUsecase(
	orderRepo repo.OrderRepository,
	productRepo repo.ProductRepository,
	txm repo.TransactionManager,
	m *metrics.Metrics,
) *OrderUsecase {
	return &OrderUsecase{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		txm:         txm,
		metrics:     m,
	}
}

type OrderItemInput struct {
	ProductID int64
	Quantity  int64
	Price     decimal.Decimal
}

type CreateOrderInput struct {
	Items []OrderItemInput
	Total decimal.Decimal
}

// 管理者は全件、一般ユーザーは自分の注文だけ
func (u *OrderUsecase) List(ctx context.Context, userID int64, isAdmin bool) ([]model.Order, error) {
	if userID <= 0 {
		return nil, unauthorized()
	}

	f := repo.OrderFilter{UserID: userID}
	if isAdmin {
		f.UserID = 0
	}

	orders, err := u.orderRepo.List(ctx, f)
	if err != nil {
		return nil, dbError(ctx, "list orders", err)
	}
	return orders, nil
}

// 明細の合計とtotalが一致しなければ400
func (u *OrderUsecase) Create(ctx context.Context, userID int64, in CreateOrderInput) (model.Order, error) {
	if userID <= 0 {
		return model.Order{}, unauthorized()
	}
	if len(in.Items) == 0 {
		return model.Order{}, badRequest("cart items are required")
	}
	if !in.Total.IsPositive() {
		return model.Order{}, badRequest("total is required")
	}

	ids := make([]int64, 0, len(in.Items))
	sum := decimal.Zero
	for _, it := range in.Items {
		if it.ProductID <= 0 {
			return model.Order{}, badRequest("product id is required")
		}
		if it.Quantity < 1 {
			return model.Order{}, badRequest("quantity must be at least 1")
		}
		if it.Price.IsNegative() {
			return model.Order{}, badRequest("invalid price")
		}
		ids = append(ids, it.ProductID)
		sum = sum.Add(it.Price.Mul(decimal.NewFromInt(it.Quantity)))
	}
	if !sum.Round(2).Equal(in.Total.Round(2)) {
		return model.Order{}, badRequest("total mismatch")
	}

	if err := u.ensureProductsExist(ctx, ids); err != nil {
		return model.Order{}, err
	}

	items := make([]model.OrderItem, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, model.OrderItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price.Round(2),
		})
	}

	order := model.Order{
		UserID:     userID,
		Status:     model.OrderStatusPending,
		Total:      in.Total.Round(2),
		OrderItems: items,
	}

	err := u.txm.WithinTx(ctx, func(r repo.TxRepos) error {
		return r.Orders().Create(ctx, &order)
	})
	if err != nil {
		return model.Order{}, dbError(ctx, "create order", err)
	}

	u.metrics.OrderCreated(metrics.SourceOrderAPI)
	logger.Info(ctx, "order created", "order_id", order.ID, "user_id", userID, "total", order.Total.StringFixed(2))
	return order, nil
}

// 遷移チェックはしない（5つの値ならどれでも可）
func (u *OrderUsecase) UpdateStatus(ctx context.Context, actorID int64, orderID int64, status model.OrderStatus) (model.Order, error) {
	if actorID <= 0 {
		return model.Order{}, unauthorized()
	}
	if orderID <= 0 {
		return model.Order{}, badRequest("order id is required")
	}
	if status == "" {
		return model.Order{}, badRequest("status is required")
	}
	if !status.Valid() {
		return model.Order{}, badRequest("invalid status")
	}

	var updated model.Order
	err := u.txm.WithinTx(ctx, func(r repo.TxRepos) error {
		before, err := r.Orders().FindByID(ctx, orderID)
		if err != nil {
			return err
		}

		if err := r.Orders().UpdateStatus(ctx, orderID, status); err != nil {
			return err
		}

		after, err := r.Orders().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		updated = after

		return r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  actorID,
			Action:       model.AuditActionUpdateOrderStatus,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   orderID,
			BeforeJSON:   toJSON(map[string]any{"status": before.Status}),
			AfterJSON:    toJSON(map[string]any{"status": after.Status}),
			CreatedAt:    time.Now(),
		})
	})
	if errors.Is(err, repo.ErrNotFound) {
		return model.Order{}, notFound("order not found")
	}
	if err != nil {
		return model.Order{}, dbError(ctx, "update order status", err)
	}
	return updated, nil
}

func (u *OrderUsecase) ensureProductsExist(ctx context.Context, ids []int64) error {
	uniq := uniqueIDs(ids)
	products, err := u.productRepo.List(ctx, repo.ProductFilter{IDs: uniq})
	if err != nil {
		return dbError(ctx, "list products", err)
	}
	if len(products) != len(uniq) {
		return notFound("product not found")
	}
	return nil
}

// 順番は保ったまま重複を除く
func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

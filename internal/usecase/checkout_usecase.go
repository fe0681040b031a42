package usecase

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"storefront/internal/domain/model"
	"storefront/internal/logger"
	"storefront/internal/metrics"
	repo "storefront/internal/repository"

	"github.com/shopspring/decimal"
)

// セッションのmetadataキー
const (
	metaOrderID = "orderId"
	metaUserID  = "userId"
)

// 決済プロバイダへの橋渡し
// 開始時にPENDINGの注文を1件作り、確定時にその注文を支払い済みにする（注文は1購入1件）。
type CheckoutUsecase struct {
	productRepo repo.ProductRepository
	cartRepo    repo.CartRepository
	orderRepo   repo.OrderRepository
	txm         repo.TransactionManager
	gateway     PaymentGateway
	appURL      string
	metrics     *metrics.Metrics
}

// DI
func NewCheckoutUsecase(
	productRepo repo.ProductRepository,
	cartRepo repo.CartRepository,
	orderRepo repo.OrderRepository,
	txm repo.TransactionManager,
	gateway PaymentGateway,
	appURL string,
	m *metrics.Metrics,
) *CheckoutUsecase {
	return &CheckoutUsecase{
		productRepo: productRepo,
		cartRepo:    cartRepo,
		orderRepo:   orderRepo,
		txm:         txm,
		gateway:     gateway,
		appURL:      appURL,
		metrics:     m,
	}
}

type CheckoutOutput struct {
	URL string `json:"url"`
}

func (u *CheckoutUsecase) Initiate(ctx context.Context, userID int64, productIDs []int64) (CheckoutOutput, error) {
	if userID <= 0 {
		return CheckoutOutput{}, unauthorized()
	}
	if len(productIDs) == 0 {
		return CheckoutOutput{}, badRequest("product ids are required")
	}
	for _, id := range productIDs {
		if id <= 0 {
			return CheckoutOutput{}, badRequest("invalid product id")
		}
	}
	ids := uniqueIDs(productIDs)

	products, err := u.productRepo.List(ctx, repo.ProductFilter{IDs: ids})
	if err != nil {
		return CheckoutOutput{}, dbError(ctx, "list products", err)
	}
	if len(products) != len(ids) {
		return CheckoutOutput{}, notFound("product not found")
	}
	byID := make(map[int64]model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	//数量はカートから（無ければ1）
	var cart model.Cart
	cart, err = u.cartRepo.FindByUserID(ctx, userID)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return CheckoutOutput{}, dbError(ctx, "get cart", err)
	}

	//価格は現在の商品価格
	items := make([]model.OrderItem, 0, len(ids))
	lines := make([]PaymentLineItem, 0, len(ids))
	total := decimal.Zero
	for _, id := range ids {
		p := byID[id]
		qty := cart.QuantityOf(id)
		if qty < 1 {
			qty = 1
		}
		items = append(items, model.OrderItem{ProductID: id, Quantity: qty, Price: p.Price})
		lines = append(lines, PaymentLineItem{Name: p.Name, UnitAmount: p.Price, Quantity: qty})
		total = total.Add(p.Price.Mul(decimal.NewFromInt(qty)))
	}

	order := model.Order{
		UserID:     userID,
		Status:     model.OrderStatusPending,
		Total:      total.Round(2),
		OrderItems: items,
	}
	if err := u.txm.WithinTx(ctx, func(r repo.TxRepos) error {
		return r.Orders().Create(ctx, &order)
	}); err != nil {
		return CheckoutOutput{}, dbError(ctx, "create pending order", err)
	}
	u.metrics.OrderCreated(metrics.SourceCheckout)

	session, err := u.gateway.CreateCheckoutSession(ctx, CheckoutSessionRequest{
		LineItems:  lines,
		SuccessURL: u.appURL + "/order-success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  u.appURL + "/cart?canceled=1",
		Metadata: map[string]string{
			metaOrderID: strconv.FormatInt(order.ID, 10),
			metaUserID:  strconv.FormatInt(userID, 10),
		},
	})
	if err != nil {
		//注文はPENDINGのまま残る
		u.metrics.Checkout(metrics.CheckoutFailed)
		logger.Error(ctx, "create checkout session failed", "order_id", order.ID, "error", err)
		return CheckoutOutput{}, NewHTTPError(http.StatusInternalServerError, "payment provider error")
	}

	if err := u.orderRepo.SetCheckoutSession(ctx, order.ID, session.ID); err != nil {
		return CheckoutOutput{}, dbError(ctx, "set checkout session", err)
	}

	u.metrics.Checkout(metrics.CheckoutInitiated)
	logger.Info(ctx, "checkout initiated", "order_id", order.ID, "user_id", userID, "total", order.Total.StringFixed(2))
	return CheckoutOutput{URL: session.URL}, nil
}

// 2回呼ばれても支払い済みの注文をそのまま返す
func (u *CheckoutUsecase) Confirm(ctx context.Context, userID int64, sessionID string) (model.Order, error) {
	if userID <= 0 {
		return model.Order{}, unauthorized()
	}
	if sessionID == "" {
		return model.Order{}, badRequest("session id is required")
	}

	st, err := u.gateway.RetrieveSession(ctx, sessionID)
	if errors.Is(err, ErrCheckoutSessionNotFound) {
		return model.Order{}, notFound("checkout session not found")
	}
	if err != nil {
		u.metrics.Checkout(metrics.CheckoutFailed)
		logger.Error(ctx, "retrieve checkout session failed", "session_id", sessionID, "error", err)
		return model.Order{}, NewHTTPError(http.StatusInternalServerError, "payment provider error")
	}
	if !st.Paid {
		u.metrics.Checkout(metrics.CheckoutUnpaid)
		return model.Order{}, badRequest("payment not successful")
	}

	orderID, err := strconv.ParseInt(st.Metadata[metaOrderID], 10, 64)
	if err != nil || orderID <= 0 {
		return model.Order{}, badRequest("invalid session metadata")
	}
	metaUser, err := strconv.ParseInt(st.Metadata[metaUserID], 10, 64)
	if err != nil {
		return model.Order{}, badRequest("invalid session metadata")
	}
	if metaUser != userID {
		return model.Order{}, unauthorized()
	}

	var confirmed model.Order
	already := false
	err = u.txm.WithinTx(ctx, func(r repo.TxRepos) error {
		//同じ注文の確定が同時に来てもカートを消すのは1回だけ
		order, err := r.Orders().FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order.UserID != userID {
			return errForeignOrder
		}

		if order.IsPaid {
			already = true
		} else {
			if err := r.Orders().MarkPaid(ctx, orderID, model.OrderStatusDelivered); err != nil {
				return err
			}
			if err := r.Carts().ClearByUserID(ctx, userID); err != nil {
				return err
			}
		}

		confirmed, err = r.Orders().FindByID(ctx, orderID)
		return err
	})
	switch {
	case errors.Is(err, errForeignOrder):
		return model.Order{}, unauthorized()
	case errors.Is(err, repo.ErrNotFound):
		return model.Order{}, notFound("order not found")
	case err != nil:
		return model.Order{}, dbError(ctx, "confirm order", err)
	}

	if already {
		logger.Info(ctx, "checkout already confirmed", "order_id", orderID)
		return confirmed, nil
	}
	u.metrics.Checkout(metrics.CheckoutConfirmed)
	logger.Info(ctx, "checkout confirmed", "order_id", orderID, "user_id", userID)
	return confirmed, nil
}

var errForeignOrder = errors.New("order belongs to another user")

package usecase

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// 決済プロバイダに渡す明細
type PaymentLineItem struct {
	Name       string
	UnitAmount decimal.Decimal // 通貨の基本単位（ドルなど）
	Quantity   int64
}

type CheckoutSessionRequest struct {
	LineItems  []PaymentLineItem
	SuccessURL string
	CancelURL  string
	Metadata   map[string]string
}

type CheckoutSession struct {
	ID  string
	URL string // リダイレクト先
}

type CheckoutSessionStatus struct {
	ID       string
	Paid     bool
	Metadata map[string]string
}

// プロバイダが知らないセッションID
var ErrCheckoutSessionNotFound = errors.New("checkout session not found")

// ホスト型決済の約束（本番はStripe、開発・テストはsandbox）
type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutSessionRequest) (CheckoutSession, error)
	RetrieveSession(ctx context.Context, sessionID string) (CheckoutSessionStatus, error)
}

// data URLの画像を保存して公開URLを返す約束
type ImageUploader interface {
	Upload(ctx context.Context, dataURL string) (string, error)
}

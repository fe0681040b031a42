package payment

import (
	"context"
	"strings"
	"sync"

	"storefront/internal/usecase"

	"github.com/google/uuid"
)

// プロバイダのリダイレクト先に埋め込まれるプレースホルダ
const sessionIDPlaceholder = "{CHECKOUT_SESSION_ID}"

type sandboxSession struct {
	req  usecase.CheckoutSessionRequest
	paid bool
}

// STRIPE_SECRET_KEYが無い環境用のインメモリ決済。
// autoPayなら作成した時点で支払い済みになる。
type SandboxGateway struct {
	mu       sync.Mutex
	sessions map[string]*sandboxSession
	autoPay  bool
}

func NewSandboxGateway(autoPay bool) *SandboxGateway {
	return &SandboxGateway{
		sessions: map[string]*sandboxSession{},
		autoPay:  autoPay,
	}
}

// URLはsuccess URLそのもの（決済画面を飛ばす）
func (g *SandboxGateway) CreateCheckoutSession(ctx context.Context, req usecase.CheckoutSessionRequest) (usecase.CheckoutSession, error) {
	id := "cs_sandbox_" + uuid.NewString()

	meta := make(map[string]string, len(req.Metadata))
	for k, v := range req.Metadata {
		meta[k] = v
	}
	req.Metadata = meta

	g.mu.Lock()
	g.sessions[id] = &sandboxSession{req: req, paid: g.autoPay}
	g.mu.Unlock()

	return usecase.CheckoutSession{
		ID:  id,
		URL: strings.ReplaceAll(req.SuccessURL, sessionIDPlaceholder, id),
	}, nil
}

func (g *SandboxGateway) RetrieveSession(ctx context.Context, sessionID string) (usecase.CheckoutSessionStatus, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	s, ok := g.sessions[sessionID]
	if !ok {
		return usecase.CheckoutSessionStatus{}, usecase.ErrCheckoutSessionNotFound
	}
	return usecase.CheckoutSessionStatus{
		ID:       sessionID,
		Paid:     s.paid,
		Metadata: s.req.Metadata,
	}, nil
}

// テストや手動確認で支払い完了にする
func (g *SandboxGateway) MarkPaid(sessionID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	s, ok := g.sessions[sessionID]
	if !ok {
		return usecase.ErrCheckoutSessionNotFound
	}
	s.paid = true
	return nil
}

// セッションの明細。無ければfalse
func (g *SandboxGateway) LineItems(sessionID string) ([]usecase.PaymentLineItem, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	s, ok := g.sessions[sessionID]
	if !ok {
		return nil, false
	}
	return s.req.LineItems, true
}

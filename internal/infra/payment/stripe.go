package payment

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"storefront/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

var hundred = decimal.NewFromInt(100)

// StripeのCheckout Sessionを使う実装
type StripeGateway struct {
	sc       *client.API
	currency string
}

// backendsがnilなら本番API
func NewStripeGateway(secretKey, currency string, backends *stripe.Backends) *StripeGateway {
	if currency == "" {
		currency = "usd"
	}
	return &StripeGateway{
		sc:       client.New(secretKey, backends),
		currency: currency,
	}
}

func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, req usecase.CheckoutSessionRequest) (usecase.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
	}
	params.Context = ctx

	for _, li := range req.LineItems {
		params.LineItems = append(params.LineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(g.currency),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(li.Name),
				},
				UnitAmount: stripe.Int64(MinorUnits(li.UnitAmount)),
			},
			Quantity: stripe.Int64(li.Quantity),
		})
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	s, err := g.sc.CheckoutSessions.New(params)
	if err != nil {
		return usecase.CheckoutSession{}, fmt.Errorf("stripe create session: %w", err)
	}
	return usecase.CheckoutSession{ID: s.ID, URL: s.URL}, nil
}

func (g *StripeGateway) RetrieveSession(ctx context.Context, sessionID string) (usecase.CheckoutSessionStatus, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	s, err := g.sc.CheckoutSessions.Get(sessionID, params)
	if err != nil {
		var se *stripe.Error
		if errors.As(err, &se) && (se.HTTPStatusCode == http.StatusNotFound || se.Code == stripe.ErrorCodeResourceMissing) {
			return usecase.CheckoutSessionStatus{}, usecase.ErrCheckoutSessionNotFound
		}
		return usecase.CheckoutSessionStatus{}, fmt.Errorf("stripe get session: %w", err)
	}

	return usecase.CheckoutSessionStatus{
		ID:       s.ID,
		Paid:     s.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid,
		Metadata: s.Metadata,
	}, nil
}

// 25.99 -> 2599（四捨五入）
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}

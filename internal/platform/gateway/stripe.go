package gateway

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/transfer"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/storyloom/treasury/pkg/config"
	"github.com/storyloom/treasury/pkg/types"
)

// StripeAdapter wraps the Stripe SDK for webhook verification and payout
// transfers to connected accounts.
type StripeAdapter struct {
	webhookSecret string
}

func NewStripeAdapter(cfg *config.Config) *StripeAdapter {
	stripe.Key = cfg.Stripe.APIKey
	return &StripeAdapter{webhookSecret: cfg.Stripe.WebhookSecret}
}

func (a *StripeAdapter) Method() types.PaymentMethod {
	return types.PaymentMethodStripe
}

// ConstructEvent verifies the Stripe-Signature header against the raw body
// and returns the parsed event. Verification happens before any parsing.
func (a *StripeAdapter) ConstructEvent(payload []byte, sigHeader string) (stripe.Event, error) {
	event, err := webhook.ConstructEvent(payload, sigHeader, a.webhookSecret)
	if err != nil {
		return stripe.Event{}, fmt.Errorf("%w: %s", ErrSignature, err.Error())
	}
	return event, nil
}

func (a *StripeAdapter) CreateTransfer(ctx context.Context, destination string, amountCents int64, idempotencyKey string) (*TransferResult, error) {
	params := &stripe.TransferParams{
		Params: stripe.Params{
			Context: ctx,
		},
		Amount:      stripe.Int64(amountCents),
		Currency:    stripe.String(string(stripe.CurrencyUSD)),
		Destination: stripe.String(destination),
	}
	params.SetIdempotencyKey(idempotencyKey)

	tr, err := transfer.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe transfer failed: %w", err)
	}
	return &TransferResult{Ref: tr.ID, Status: "paid"}, nil
}

package gateway

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/plutov/paypal/v4"

	"github.com/storyloom/treasury/pkg/config"
	"github.com/storyloom/treasury/pkg/types"
)

// PayPalAdapter wraps the PayPal SDK for webhook verification and payouts.
type PayPalAdapter struct {
	client    *paypal.Client
	webhookID string

	authOnce sync.Once
	authErr  error
}

func NewPayPalAdapter(cfg *config.Config) (*PayPalAdapter, error) {
	if cfg.PayPal.ClientID == "" {
		// Credentials may be absent in dev; calls will fail with
		// ErrNotConfigured instead of blocking startup.
		return &PayPalAdapter{webhookID: cfg.PayPal.WebhookID}, nil
	}
	base := paypal.APIBaseSandBox
	if cfg.PayPal.IsProd {
		base = paypal.APIBaseLive
	}
	client, err := paypal.NewClient(cfg.PayPal.ClientID, cfg.PayPal.Secret, base)
	if err != nil {
		return nil, fmt.Errorf("failed to init paypal client: %w", err)
	}
	return &PayPalAdapter{client: client, webhookID: cfg.PayPal.WebhookID}, nil
}

func (a *PayPalAdapter) Method() types.PaymentMethod {
	return types.PaymentMethodPayPal
}

// ensureAuth fetches the initial access token once; the SDK refreshes it on
// expiry afterwards.
func (a *PayPalAdapter) ensureAuth(ctx context.Context) error {
	if a.client == nil {
		return ErrNotConfigured
	}
	a.authOnce.Do(func() {
		_, a.authErr = a.client.GetAccessToken(ctx)
	})
	return a.authErr
}

// VerifyWebhook checks the transmission signature headers of a webhook
// delivery against the configured webhook id.
func (a *PayPalAdapter) VerifyWebhook(ctx context.Context, req *http.Request) error {
	if err := a.ensureAuth(ctx); err != nil {
		return fmt.Errorf("paypal auth failed: %w", err)
	}
	res, err := a.client.VerifyWebhookSignature(ctx, req, a.webhookID)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrSignature, err.Error())
	}
	if res.VerificationStatus != "SUCCESS" {
		return fmt.Errorf("%w: verification status %s", ErrSignature, res.VerificationStatus)
	}
	return nil
}

func (a *PayPalAdapter) CreateTransfer(ctx context.Context, destination string, amountCents int64, idempotencyKey string) (*TransferResult, error) {
	if err := a.ensureAuth(ctx); err != nil {
		return nil, fmt.Errorf("paypal auth failed: %w", err)
	}
	payout := paypal.Payout{
		SenderBatchHeader: &paypal.SenderBatchHeader{
			// The sender batch id doubles as the idempotency key: PayPal
			// rejects a second payout with the same id.
			SenderBatchID: idempotencyKey,
			EmailSubject:  "You have a payout from Storyloom",
		},
		Items: []paypal.PayoutItem{
			{
				RecipientType: "EMAIL",
				Receiver:      destination,
				Amount: &paypal.AmountPayout{
					Value:    formatCents(amountCents),
					Currency: "USD",
				},
				SenderItemID: idempotencyKey,
			},
		},
	}

	res, err := a.client.CreatePayout(ctx, payout)
	if err != nil {
		return nil, fmt.Errorf("paypal payout failed: %w", err)
	}
	return &TransferResult{Ref: res.BatchHeader.PayoutBatchID, Status: res.BatchHeader.BatchStatus}, nil
}

func formatCents(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}

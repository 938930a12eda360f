package gateway

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/fx"

	"github.com/storyloom/treasury/pkg/types"
)

// ErrSignature indicates a webhook delivery whose signature did not verify.
// Deliveries failing this way are rejected before any parsing or database
// access; the gateway's own retry policy applies.
var ErrSignature = errors.New("gateway: invalid webhook signature")

// ErrNotConfigured is returned by adapters missing their credentials.
var ErrNotConfigured = errors.New("gateway: adapter is not configured")

type TransferResult struct {
	// Ref is the gateway's identifier for the executed transfer.
	Ref    string
	Status string
}

// Adapter is the narrow boundary consumed from a payment gateway: it moves
// aggregated funds to a recipient destination. Calls fail closed: a timeout
// is a failure, never an assumed success.
type Adapter interface {
	Method() types.PaymentMethod
	CreateTransfer(ctx context.Context, destination string, amountCents int64, idempotencyKey string) (*TransferResult, error)
}

// Registry resolves the adapter for a recipient's configured payout method.
type Registry struct {
	adapters map[types.PaymentMethod]Adapter
}

func NewRegistry(stripe *StripeAdapter, paypal *PayPalAdapter) *Registry {
	return &Registry{adapters: map[types.PaymentMethod]Adapter{
		types.PaymentMethodStripe: stripe,
		types.PaymentMethodPayPal: paypal,
	}}
}

func (r *Registry) Get(method types.PaymentMethod) (Adapter, error) {
	a, ok := r.adapters[method]
	if !ok {
		return nil, fmt.Errorf("no gateway adapter for method: %s", method)
	}
	return a, nil
}

var Module = fx.Options(
	fx.Provide(NewStripeAdapter),
	fx.Provide(NewPayPalAdapter),
	fx.Provide(NewRegistry),
)

package gateway

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/storyloom/treasury/pkg/config"
)

func TestStripeConstructEvent_RejectsBadSignature(t *testing.T) {
	cfg := &config.Config{}
	cfg.Stripe.WebhookSecret = "whsec_test"
	a := NewStripeAdapter(cfg)

	_, err := a.ConstructEvent([]byte(`{"type":"payment_intent.succeeded"}`), "t=1,v1=deadbeef")
	require.Error(t, err)
	require.ErrorIs(t, err, ErrSignature)
}

package webhookingest

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82"

	"github.com/storyloom/treasury/pkg/types"
)

func TestMapStripeEvent(t *testing.T) {
	piJSON := func(id string, amount int64, meta map[string]string) json.RawMessage {
		b, err := json.Marshal(map[string]any{
			"id":       id,
			"amount":   amount,
			"metadata": meta,
		})
		require.NoError(t, err)
		return b
	}

	t.Run("payment_intent succeeded", func(t *testing.T) {
		event := stripe.Event{
			Type: "payment_intent.succeeded",
			Data: &stripe.EventData{
				Raw: piJSON("pi_123", 2500, map[string]string{
					"donor_id":     "user-donor",
					"recipient_id": "user-author",
					"story_id":     "story-9",
				}),
			},
		}
		got, err := mapStripeEvent(event)
		require.NoError(t, err)
		assert.Equal(t, EventKindPaymentSucceeded, got.Kind)
		assert.Equal(t, types.PaymentMethodStripe, got.Provider)
		assert.Equal(t, "pi_123", got.ProcessorRef)
		assert.Equal(t, int64(2500), got.AmountCents)
		require.NotNil(t, got.Payload)
		assert.Equal(t, "user-donor", got.Payload.DonorID)
		assert.Equal(t, "user-author", got.Payload.RecipientID)
		require.NotNil(t, got.Payload.StoryID)
		assert.Equal(t, "story-9", *got.Payload.StoryID)
		assert.Nil(t, got.Payload.Message)
		assert.Equal(t, types.DonationStatusSucceeded, got.proposedStatus())
	})

	t.Run("payment_intent failed", func(t *testing.T) {
		event := stripe.Event{
			Type: "payment_intent.payment_failed",
			Data: &stripe.EventData{
				Raw: piJSON("pi_456", 1000, nil),
			},
		}
		got, err := mapStripeEvent(event)
		require.NoError(t, err)
		assert.Equal(t, EventKindPaymentFailed, got.Kind)
		assert.Equal(t, "pi_456", got.ProcessorRef)
		assert.Nil(t, got.Payload)
		assert.Equal(t, types.DonationStatusFailed, got.proposedStatus())
	})

	t.Run("unrelated event type is ignored", func(t *testing.T) {
		event := stripe.Event{Type: "charge.refunded", Data: &stripe.EventData{Raw: piJSON("ch_1", 1, nil)}}
		got, err := mapStripeEvent(event)
		require.NoError(t, err)
		assert.Equal(t, EventKindIgnored, got.Kind)
		assert.Empty(t, got.ProcessorRef)
	})

	t.Run("malformed payment intent body", func(t *testing.T) {
		event := stripe.Event{
			Type: "payment_intent.succeeded",
			Data: &stripe.EventData{Raw: json.RawMessage(`{"amount":"not-a-number"}`)},
		}
		_, err := mapStripeEvent(event)
		assert.Error(t, err)
	})
}

func TestPayloadFromMetadata(t *testing.T) {
	tests := []struct {
		name string
		meta map[string]string
		want bool
	}{
		{"both parties present", map[string]string{"donor_id": "d", "recipient_id": "r"}, true},
		{"missing donor", map[string]string{"recipient_id": "r"}, false},
		{"missing recipient", map[string]string{"donor_id": "d"}, false},
		{"empty metadata", map[string]string{}, false},
		{"nil metadata", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := payloadFromMetadata(tt.meta, 500)
			if !tt.want {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, int64(500), got.AmountCents)
		})
	}

	t.Run("optional fields", func(t *testing.T) {
		got := payloadFromMetadata(map[string]string{
			"donor_id":     "d",
			"recipient_id": "r",
			"message":      "great chapter",
		}, 100)
		require.NotNil(t, got)
		assert.Nil(t, got.StoryID)
		require.NotNil(t, got.Message)
		assert.Equal(t, "great chapter", *got.Message)
	})
}

func TestMapPayPalEvent(t *testing.T) {
	base := func(eventType, value, customID string) *paypalWebhookEvent {
		ev := &paypalWebhookEvent{ID: "WH-1", EventType: eventType}
		ev.Resource.ID = "CAP-1"
		ev.Resource.Amount.CurrencyCode = "USD"
		ev.Resource.Amount.Value = value
		ev.Resource.CustomID = customID
		return ev
	}

	t.Run("capture completed", func(t *testing.T) {
		got, err := mapPayPalEvent(base("PAYMENT.CAPTURE.COMPLETED", "12.34", `{"donor_id":"d","recipient_id":"r"}`))
		require.NoError(t, err)
		assert.Equal(t, EventKindPaymentSucceeded, got.Kind)
		assert.Equal(t, types.PaymentMethodPayPal, got.Provider)
		assert.Equal(t, "CAP-1", got.ProcessorRef)
		assert.Equal(t, int64(1234), got.AmountCents)
		require.NotNil(t, got.Payload)
		assert.Equal(t, "d", got.Payload.DonorID)
	})

	t.Run("capture denied", func(t *testing.T) {
		got, err := mapPayPalEvent(base("PAYMENT.CAPTURE.DENIED", "5.00", ""))
		require.NoError(t, err)
		assert.Equal(t, EventKindPaymentFailed, got.Kind)
		assert.Equal(t, int64(500), got.AmountCents)
		assert.Nil(t, got.Payload)
	})

	t.Run("unrelated event type is ignored", func(t *testing.T) {
		got, err := mapPayPalEvent(base("CHECKOUT.ORDER.APPROVED", "1.00", ""))
		require.NoError(t, err)
		assert.Equal(t, EventKindIgnored, got.Kind)
	})

	t.Run("bad amount", func(t *testing.T) {
		_, err := mapPayPalEvent(base("PAYMENT.CAPTURE.COMPLETED", "twelve", ""))
		assert.Error(t, err)
	})
}

func TestPayloadFromCustomID(t *testing.T) {
	tests := []struct {
		name     string
		customID string
		want     bool
	}{
		{"valid", `{"donor_id":"d","recipient_id":"r","story_id":"s"}`, true},
		{"empty string", "", false},
		{"not json", "ORDER-1234", false},
		{"missing recipient", `{"donor_id":"d"}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := payloadFromCustomID(tt.customID, 250)
			if !tt.want {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, "d", got.DonorID)
			assert.Equal(t, "r", got.RecipientID)
			assert.Equal(t, int64(250), got.AmountCents)
			require.NotNil(t, got.StoryID)
			assert.Equal(t, "s", *got.StoryID)
		})
	}
}

func TestParseAmountCents(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"12.34", 1234, false},
		{"0.99", 99, false},
		{"100", 10000, false},
		{"0.00", 0, false},
		{"12.3", 1230, false},
		{"19.999", 0, true}, // more precision than a cent
		{"-1.00", 0, true},
		{"1.2e3", 0, true},
		{"12.", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseAmountCents(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

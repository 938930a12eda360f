package webhookingest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/storyloom/treasury/internal/app/service/reconciler"
	"github.com/storyloom/treasury/internal/platform/gateway"
	"github.com/storyloom/treasury/pkg/types"
)

// paypalWebhookEvent is the subset of a PayPal webhook body this service
// reads. custom_id carries the platform's own JSON blob set when the order
// was created, which is what allows lazy donation creation from a webhook.
type paypalWebhookEvent struct {
	ID        string `json:"id"`
	EventType string `json:"event_type"`
	Resource  struct {
		ID     string `json:"id"`
		Amount struct {
			CurrencyCode string `json:"currency_code"`
			Value        string `json:"value"`
		} `json:"amount"`
		CustomID string `json:"custom_id"`
	} `json:"resource"`
}

type paypalCustomID struct {
	DonorID     string  `json:"donor_id"`
	RecipientID string  `json:"recipient_id"`
	StoryID     *string `json:"story_id,omitempty"`
	Message     *string `json:"message,omitempty"`
}

type PayPalParser struct {
	adapter *gateway.PayPalAdapter
}

func NewPayPalParser(adapter *gateway.PayPalAdapter) *PayPalParser {
	return &PayPalParser{adapter: adapter}
}

func (p *PayPalParser) Provider() types.PaymentMethod {
	return types.PaymentMethodPayPal
}

func (p *PayPalParser) VerifyAndParse(c *gin.Context) (*Event, error) {
	body, err := c.GetRawData()
	if err != nil {
		return nil, fmt.Errorf("failed to read webhook body: %w", err)
	}
	// The SDK consumes the request body during verification; hand it a copy.
	c.Request.Body = io.NopCloser(bytes.NewReader(body))
	if err := p.adapter.VerifyWebhook(c.Request.Context(), c.Request); err != nil {
		return nil, err
	}

	var event paypalWebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, fmt.Errorf("failed to decode paypal event: %w", err)
	}
	return mapPayPalEvent(&event)
}

func mapPayPalEvent(event *paypalWebhookEvent) (*Event, error) {
	kind := EventKindIgnored
	switch event.EventType {
	case "PAYMENT.CAPTURE.COMPLETED":
		kind = EventKindPaymentSucceeded
	case "PAYMENT.CAPTURE.DENIED", "PAYMENT.CAPTURE.DECLINED":
		kind = EventKindPaymentFailed
	}

	res := &Event{
		Kind:        kind,
		Provider:    types.PaymentMethodPayPal,
		GatewayKind: event.EventType,
	}
	if kind == EventKindIgnored {
		return res, nil
	}

	amountCents, err := parseAmountCents(event.Resource.Amount.Value)
	if err != nil {
		return nil, fmt.Errorf("failed to parse capture amount %q: %w", event.Resource.Amount.Value, err)
	}
	res.ProcessorRef = event.Resource.ID
	res.AmountCents = amountCents
	res.Payload = payloadFromCustomID(event.Resource.CustomID, amountCents)
	return res, nil
}

func payloadFromCustomID(customID string, amountCents int64) *reconciler.Payload {
	if customID == "" {
		return nil
	}
	var meta paypalCustomID
	if err := json.Unmarshal([]byte(customID), &meta); err != nil {
		return nil
	}
	if meta.DonorID == "" || meta.RecipientID == "" {
		return nil
	}
	return &reconciler.Payload{
		DonorID:     meta.DonorID,
		RecipientID: meta.RecipientID,
		AmountCents: amountCents,
		StoryID:     meta.StoryID,
		Message:     meta.Message,
	}
}

// parseAmountCents converts PayPal's decimal string amounts ("12.34") into
// integer minor units. Amounts are parsed as integers, never through floats:
// at most two fractional digits, no sign.
func parseAmountCents(value string) (int64, error) {
	dollars, cents, hasFraction := strings.Cut(value, ".")
	if dollars == "" || strings.HasPrefix(dollars, "-") || strings.HasPrefix(dollars, "+") {
		return 0, fmt.Errorf("invalid amount %q", value)
	}
	whole, err := strconv.ParseInt(dollars, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", value)
	}
	if hasFraction && (len(cents) == 0 || len(cents) > 2) {
		return 0, fmt.Errorf("invalid amount %q", value)
	}
	var minor int64
	for _, c := range cents {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("invalid amount %q", value)
		}
		minor = minor*10 + int64(c-'0')
	}
	// "12.3" means 30 cents, not 3.
	if len(cents) == 1 {
		minor *= 10
	}
	return whole*100 + minor, nil
}

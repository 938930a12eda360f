package webhookingest

import (
	"encoding/json"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v82"

	"github.com/storyloom/treasury/internal/app/service/reconciler"
	"github.com/storyloom/treasury/internal/platform/gateway"
	"github.com/storyloom/treasury/pkg/types"
)

// StripeParser handles Stripe webhook deliveries. The platform sets
// donor/recipient/story metadata on the PaymentIntent at checkout, which is
// how the webhook path can lazily create a donation the confirmation call
// never reported.
type StripeParser struct {
	adapter *gateway.StripeAdapter
}

func NewStripeParser(adapter *gateway.StripeAdapter) *StripeParser {
	return &StripeParser{adapter: adapter}
}

func (p *StripeParser) Provider() types.PaymentMethod {
	return types.PaymentMethodStripe
}

func (p *StripeParser) VerifyAndParse(c *gin.Context) (*Event, error) {
	payload, err := c.GetRawData()
	if err != nil {
		return nil, fmt.Errorf("failed to read webhook body: %w", err)
	}

	// Signature check comes first; nothing is parsed from an unverified body.
	event, err := p.adapter.ConstructEvent(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		return nil, err
	}

	return mapStripeEvent(event)
}

func mapStripeEvent(event stripe.Event) (*Event, error) {
	kind := EventKindIgnored
	switch event.Type {
	case "payment_intent.succeeded":
		kind = EventKindPaymentSucceeded
	case "payment_intent.payment_failed":
		kind = EventKindPaymentFailed
	}

	res := &Event{
		Kind:        kind,
		Provider:    types.PaymentMethodStripe,
		GatewayKind: string(event.Type),
	}
	if kind == EventKindIgnored {
		return res, nil
	}

	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		return nil, fmt.Errorf("failed to decode payment intent: %w", err)
	}
	res.ProcessorRef = pi.ID
	res.AmountCents = pi.Amount
	res.Payload = payloadFromMetadata(pi.Metadata, pi.Amount)
	return res, nil
}

// payloadFromMetadata rebuilds the donation creation payload from gateway
// metadata. Both parties must be present; otherwise lazy creation is not
// possible and reconciliation requires an existing row.
func payloadFromMetadata(meta map[string]string, amountCents int64) *reconciler.Payload {
	donor, recipient := meta["donor_id"], meta["recipient_id"]
	if donor == "" || recipient == "" {
		return nil
	}
	p := &reconciler.Payload{
		DonorID:     donor,
		RecipientID: recipient,
		AmountCents: amountCents,
	}
	if v := meta["story_id"]; v != "" {
		p.StoryID = &v
	}
	if v := meta["message"]; v != "" {
		p.Message = &v
	}
	return p
}

package webhookingest

import (
	"github.com/storyloom/treasury/internal/app/service/reconciler"
	"github.com/storyloom/treasury/pkg/types"
)

type EventKind string

const (
	EventKindPaymentSucceeded EventKind = "payment_succeeded"
	EventKindPaymentFailed    EventKind = "payment_failed"
	// EventKindIgnored marks gateway event types this service does not
	// handle. They are acknowledged and dropped, never errored: gateways
	// add new kinds over time.
	EventKindIgnored EventKind = "ignored"
)

// Event is a gateway delivery normalized into the internal shape the
// reconciler understands, independent of which provider sent it.
type Event struct {
	Kind         EventKind
	Provider     types.PaymentMethod
	ProcessorRef string
	AmountCents  int64
	// GatewayKind is the provider's original event type, kept for logging.
	GatewayKind string
	// Payload carries donation creation fields recovered from gateway
	// metadata. It is nil when the gateway delivery did not carry enough
	// to lazily create a donation; reconciliation then requires the row
	// to already exist.
	Payload *reconciler.Payload
}

func (e *Event) proposedStatus() types.DonationStatus {
	if e.Kind == EventKindPaymentFailed {
		return types.DonationStatusFailed
	}
	return types.DonationStatusSucceeded
}

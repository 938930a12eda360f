package types

// PaymentMethod identifies the external processor a donation went through.
type PaymentMethod string

const (
	PaymentMethodStripe PaymentMethod = "stripe"
	PaymentMethodPayPal PaymentMethod = "paypal"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentMethodStripe || m == PaymentMethodPayPal
}

type DonationStatus string

const (
	DonationStatusPending   DonationStatus = "pending"
	DonationStatusCollected DonationStatus = "collected"
	DonationStatusSucceeded DonationStatus = "succeeded"
	DonationStatusFailed    DonationStatus = "failed"
	DonationStatusPaidOut   DonationStatus = "paid_out"
)

// statusRank orders donation statuses along the forward-only lifecycle.
// collected and succeeded share a rank: both mean the money was captured,
// they only differ in which path reported it first.
var statusRank = map[DonationStatus]int{
	DonationStatusPending:   0,
	DonationStatusCollected: 1,
	DonationStatusSucceeded: 1,
	DonationStatusPaidOut:   2,
}

func (s DonationStatus) Rank() (int, bool) {
	r, ok := statusRank[s]
	return r, ok
}

// IsSettled reports whether the donation's money has been captured and the
// donation is eligible for payout aggregation.
func (s DonationStatus) IsSettled() bool {
	return s == DonationStatusCollected || s == DonationStatusSucceeded
}

func (s DonationStatus) IsTerminal() bool {
	return s == DonationStatusFailed || s == DonationStatusPaidOut
}

// CanTransition reports whether a donation may move from s to next.
// Transitions go strictly up the rank order; failed is terminal and only
// reachable from pending. Reapplying the current status is not a transition
// (callers treat it as an idempotent no-op).
func (s DonationStatus) CanTransition(next DonationStatus) bool {
	if s == DonationStatusFailed {
		return false
	}
	if next == DonationStatusFailed {
		return s == DonationStatusPending
	}
	cur, ok := s.Rank()
	if !ok {
		return false
	}
	nxt, ok := next.Rank()
	if !ok {
		return false
	}
	return nxt > cur
}

type PayoutStatus string

const (
	PayoutStatusPending PayoutStatus = "pending"
	PayoutStatusPaidOut PayoutStatus = "paid_out"
	PayoutStatusFailed  PayoutStatus = "failed"
)

type DonationChangeReason string

const (
	DonationChangeReasonConfirm DonationChangeReason = "confirm"
	DonationChangeReasonWebhook DonationChangeReason = "webhook"
	DonationChangeReasonPayout  DonationChangeReason = "payout"
)

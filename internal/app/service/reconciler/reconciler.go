package reconciler

import (
	"context"
	"errors"
	"fmt"

	"github.com/storyloom/treasury/internal/models"
	"github.com/storyloom/treasury/pkg/types"
)

// ErrValidation marks malformed caller input. It is surfaced to the caller
// (mapped to a 4xx at the API boundary) and never retried here.
var ErrValidation = errors.New("invalid reconcile request")

// Payload carries the donation creation fields. It is required when no
// donation exists yet for the processor ref — which happens whenever the
// webhook arrives before (or instead of) the client confirmation call.
type Payload struct {
	DonorID     string  `json:"donor_id"`
	RecipientID string  `json:"recipient_id"`
	AmountCents int64   `json:"amount_cents"`
	StoryID     *string `json:"story_id,omitempty"`
	Message     *string `json:"message,omitempty"`
}

type Request struct {
	ProcessorRef   string
	Method         types.PaymentMethod
	ProposedStatus types.DonationStatus
	Payload        *Payload
	Reason         types.DonationChangeReason
}

func (r *Request) validate() error {
	if r == nil {
		return fmt.Errorf("%w: nil request", ErrValidation)
	}
	if r.ProcessorRef == "" {
		return fmt.Errorf("%w: processor ref is empty", ErrValidation)
	}
	if !r.Method.Valid() {
		return fmt.Errorf("%w: unknown payment method %q", ErrValidation, r.Method)
	}
	if _, ok := r.ProposedStatus.Rank(); !ok && r.ProposedStatus != types.DonationStatusFailed {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, r.ProposedStatus)
	}
	if r.Payload != nil {
		if r.Payload.DonorID == "" || r.Payload.RecipientID == "" {
			return fmt.Errorf("%w: donor and recipient are required", ErrValidation)
		}
		if r.Payload.AmountCents <= 0 {
			return fmt.Errorf("%w: amount must be positive", ErrValidation)
		}
	}
	return nil
}

// Result reports the donation after reconciliation and whether this call
// actually changed it (for logging and metrics; repeated deliveries of the
// same event report no transition).
type Result struct {
	Donation     *models.Donation
	Created      bool
	Transitioned bool
}

type decision int

const (
	decisionIgnore decision = iota
	decisionNoop
	decisionApply
)

// decide applies the forward-only rule to an existing donation: a proposed
// status wins only if strictly later; an equal rank is an idempotent no-op;
// anything else is ignored so no transition ever regresses.
func decide(current, proposed types.DonationStatus) decision {
	if current == proposed {
		return decisionNoop
	}
	if current.CanTransition(proposed) {
		return decisionApply
	}
	curRank, curOK := current.Rank()
	nxtRank, nxtOK := proposed.Rank()
	if curOK && nxtOK && curRank == nxtRank {
		// collected vs succeeded: same money state reported by the other path
		return decisionNoop
	}
	return decisionIgnore
}

// Reconciler is the single reconciliation point for donation state. Both
// the client confirmation path and the webhook path call it; neither applies
// state on its own.
type Reconciler interface {
	Reconcile(ctx context.Context, req *Request) (*Result, error)
}

package reconciler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storyloom/treasury/pkg/types"
)

func TestRequestValidate(t *testing.T) {
	valid := func() *Request {
		return &Request{
			ProcessorRef:   "pi_123",
			Method:         types.PaymentMethodStripe,
			ProposedStatus: types.DonationStatusCollected,
			Payload: &Payload{
				DonorID:     "donor-1",
				RecipientID: "recipient-1",
				AmountCents: 1234,
			},
			Reason: types.DonationChangeReasonConfirm,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Request)
		wantErr bool
	}{
		{name: "valid with payload", mutate: func(r *Request) {}},
		{name: "valid without payload", mutate: func(r *Request) { r.Payload = nil }},
		{name: "valid failed status", mutate: func(r *Request) { r.ProposedStatus = types.DonationStatusFailed }},
		{name: "empty processor ref", mutate: func(r *Request) { r.ProcessorRef = "" }, wantErr: true},
		{name: "unknown method", mutate: func(r *Request) { r.Method = "venmo" }, wantErr: true},
		{name: "unknown status", mutate: func(r *Request) { r.ProposedStatus = "refunded" }, wantErr: true},
		{name: "missing donor", mutate: func(r *Request) { r.Payload.DonorID = "" }, wantErr: true},
		{name: "missing recipient", mutate: func(r *Request) { r.Payload.RecipientID = "" }, wantErr: true},
		{name: "zero amount", mutate: func(r *Request) { r.Payload.AmountCents = 0 }, wantErr: true},
		{name: "negative amount", mutate: func(r *Request) { r.Payload.AmountCents = -5 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid()
			tt.mutate(req)
			err := req.validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	t.Run("nil request", func(t *testing.T) {
		var req *Request
		assert.ErrorIs(t, req.validate(), ErrValidation)
	})
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name     string
		current  types.DonationStatus
		proposed types.DonationStatus
		want     decision
	}{
		{name: "pending to collected", current: types.DonationStatusPending, proposed: types.DonationStatusCollected, want: decisionApply},
		{name: "pending to succeeded", current: types.DonationStatusPending, proposed: types.DonationStatusSucceeded, want: decisionApply},
		{name: "pending to failed", current: types.DonationStatusPending, proposed: types.DonationStatusFailed, want: decisionApply},
		{name: "collected to paid_out", current: types.DonationStatusCollected, proposed: types.DonationStatusPaidOut, want: decisionApply},
		{name: "same status is idempotent", current: types.DonationStatusSucceeded, proposed: types.DonationStatusSucceeded, want: decisionNoop},
		{name: "collected vs succeeded same rank", current: types.DonationStatusCollected, proposed: types.DonationStatusSucceeded, want: decisionNoop},
		{name: "succeeded vs collected same rank", current: types.DonationStatusSucceeded, proposed: types.DonationStatusCollected, want: decisionNoop},
		{name: "paid_out never regresses to succeeded", current: types.DonationStatusPaidOut, proposed: types.DonationStatusSucceeded, want: decisionIgnore},
		{name: "collected never regresses to pending", current: types.DonationStatusCollected, proposed: types.DonationStatusPending, want: decisionIgnore},
		{name: "failed is terminal", current: types.DonationStatusFailed, proposed: types.DonationStatusSucceeded, want: decisionIgnore},
		{name: "settled cannot fail", current: types.DonationStatusCollected, proposed: types.DonationStatusFailed, want: decisionIgnore},
		{name: "failed to failed", current: types.DonationStatusFailed, proposed: types.DonationStatusFailed, want: decisionNoop},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, decide(tt.current, tt.proposed))
		})
	}
}

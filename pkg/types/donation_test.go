package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDonationStatusCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from DonationStatus
		to   DonationStatus
		want bool
	}{
		{name: "pending to collected", from: DonationStatusPending, to: DonationStatusCollected, want: true},
		{name: "pending to succeeded", from: DonationStatusPending, to: DonationStatusSucceeded, want: true},
		{name: "pending to failed", from: DonationStatusPending, to: DonationStatusFailed, want: true},
		{name: "pending to paid_out", from: DonationStatusPending, to: DonationStatusPaidOut, want: true},
		{name: "collected to succeeded is same rank", from: DonationStatusCollected, to: DonationStatusSucceeded, want: false},
		{name: "succeeded to collected is same rank", from: DonationStatusSucceeded, to: DonationStatusCollected, want: false},
		{name: "collected to paid_out", from: DonationStatusCollected, to: DonationStatusPaidOut, want: true},
		{name: "collected to failed", from: DonationStatusCollected, to: DonationStatusFailed, want: false},
		{name: "collected to pending never regresses", from: DonationStatusCollected, to: DonationStatusPending, want: false},
		{name: "paid_out to succeeded never regresses", from: DonationStatusPaidOut, to: DonationStatusSucceeded, want: false},
		{name: "paid_out to paid_out", from: DonationStatusPaidOut, to: DonationStatusPaidOut, want: false},
		{name: "failed is terminal", from: DonationStatusFailed, to: DonationStatusSucceeded, want: false},
		{name: "failed to failed", from: DonationStatusFailed, to: DonationStatusFailed, want: false},
		{name: "unknown target", from: DonationStatusPending, to: DonationStatus("bogus"), want: false},
		{name: "unknown source", from: DonationStatus("bogus"), to: DonationStatusSucceeded, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransition(tt.to))
		})
	}
}

func TestDonationStatusIsSettled(t *testing.T) {
	assert.True(t, DonationStatusCollected.IsSettled())
	assert.True(t, DonationStatusSucceeded.IsSettled())
	assert.False(t, DonationStatusPending.IsSettled())
	assert.False(t, DonationStatusFailed.IsSettled())
	assert.False(t, DonationStatusPaidOut.IsSettled())
}

func TestPaymentMethodValid(t *testing.T) {
	assert.True(t, PaymentMethodStripe.Valid())
	assert.True(t, PaymentMethodPayPal.Valid())
	assert.False(t, PaymentMethod("apple").Valid())
	assert.False(t, PaymentMethod("").Valid())
}

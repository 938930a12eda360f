package notification

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storyloom/treasury/internal/models"
	"github.com/storyloom/treasury/pkg/types"
)

func TestBuildDonationNotification(t *testing.T) {
	d := &models.Donation{
		ID:            "don-1",
		DonorID:       "donor-1",
		RecipientID:   "recipient-1",
		AmountCents:   1234,
		PaymentMethod: types.PaymentMethodStripe,
		ProcessorRef:  "pi_123",
		StoryID:       lo.ToPtr("story-1"),
		Message:       lo.ToPtr("great chapter!"),
	}

	n := buildDonationNotification(d)

	require.NotNil(t, n)
	assert.NotEmpty(t, n.ID)
	assert.Equal(t, "recipient-1", n.UserID)
	assert.Equal(t, models.NotificationTypeDonation, n.Type)
	assert.Equal(t, "A reader donated $12.34 to you.", n.Message)
	require.NotNil(t, n.DonationID)
	assert.Equal(t, "don-1", *n.DonationID)

	content := n.Content.Data()
	require.NotNil(t, content)
	assert.Equal(t, "don-1", content.DonationID)
	assert.Equal(t, "donor-1", content.DonorID)
	assert.Equal(t, int64(1234), content.AmountCents)
	require.NotNil(t, content.StoryID)
	assert.Equal(t, "story-1", *content.StoryID)
}

func TestBuildDonationNotificationAmountFormatting(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{cents: 5, want: "A reader donated $0.05 to you."},
		{cents: 100, want: "A reader donated $1.00 to you."},
		{cents: 50000, want: "A reader donated $500.00 to you."},
	}
	for _, tt := range tests {
		d := &models.Donation{ID: "d", RecipientID: "r", AmountCents: tt.cents}
		assert.Equal(t, tt.want, buildDonationNotification(d).Message)
	}
}

func TestUnreadKey(t *testing.T) {
	assert.Equal(t, "notif:unread:u1", unreadKey("u1"))
}

package handlers

import (
	"time"

	"github.com/storyloom/treasury/internal/app/service/payout"
	"github.com/storyloom/treasury/internal/app/service/statistics"
	"github.com/storyloom/treasury/pkg/response"
	"github.com/storyloom/treasury/pkg/types"
)

// RespOK is a generic OK envelope for endpoints returning no specific data.
type RespOK struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    interface{}              `json:"data"`
}

// RespDonation wraps a donation in the standard envelope.
type RespDonation struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    SwaggerDonation          `json:"data"`
}

// RespBatchReport wraps a payout batch report in the standard envelope.
type RespBatchReport struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    payout.BatchReport       `json:"data"`
}

// RespScanDonations wraps an admin donation listing in the standard envelope.
type RespScanDonations struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    []SwaggerDonation        `json:"data"`
}

// RespScanPayouts wraps an admin payout listing in the standard envelope.
type RespScanPayouts struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    []SwaggerPayout          `json:"data"`
}

// RespDonationStatistic wraps DonationStatisticResponse in the standard envelope.
type RespDonationStatistic struct {
	Code    response.APIResponseCode             `json:"code"`
	Message string                               `json:"message"`
	Data    statistics.DonationStatisticResponse `json:"data"`
}

// RespNotifications wraps a notification listing in the standard envelope.
type RespNotifications struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    []SwaggerNotification    `json:"data"`
}

// RespUnreadCount wraps the unread counter in the standard envelope.
type RespUnreadCount struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    map[string]int64         `json:"data"`
}

// SwaggerDonation is a simplified view of models.Donation for documentation.
type SwaggerDonation struct {
	ID             string               `json:"id"`
	DonorID        string               `json:"donor_id"`
	RecipientID    string               `json:"recipient_id"`
	AmountCents    int64                `json:"amount_cents"`
	NetAmountCents int64                `json:"net_amount_cents"`
	PaymentMethod  types.PaymentMethod  `json:"payment_method"`
	ProcessorRef   string               `json:"processor_ref"`
	StoryID        *string              `json:"story_id,omitempty"`
	Message        *string              `json:"message,omitempty"`
	Status         types.DonationStatus `json:"status"`
	PayoutID       *string              `json:"payout_id"`
	PaidOutAt      *time.Time           `json:"paid_out_at"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

// SwaggerPayout is a simplified view of models.Payout for documentation.
type SwaggerPayout struct {
	ID           string              `json:"id"`
	RecipientID  string              `json:"recipient_id"`
	AmountCents  int64               `json:"amount_cents"`
	Processor    types.PaymentMethod `json:"processor"`
	Status       types.PayoutStatus  `json:"status"`
	TransferRef  string              `json:"transfer_ref"`
	ErrorMessage *string             `json:"error_message,omitempty"`
	CompletedAt  *time.Time          `json:"completed_at"`
	CreatedAt    time.Time           `json:"created_at"`
}

// SwaggerNotification is a simplified view of models.Notification for documentation.
type SwaggerNotification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

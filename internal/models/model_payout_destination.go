package models

import (
	"time"

	"github.com/storyloom/treasury/pkg/types"
)

// PayoutDestination is a recipient's configured payout method and gateway
// destination (a Stripe connected account id or a PayPal receiver email).
// Recipients without a row here are skipped by payout runs until they
// configure one; their donations stay unclaimed.
type PayoutDestination struct {
	RecipientID string              `gorm:"column:recipient_id;primary_key;type:varchar(64)" json:"recipient_id"`
	Method      types.PaymentMethod `gorm:"column:method;type:varchar(32);not null" json:"method"`
	Destination string              `gorm:"column:destination;type:varchar(256);not null" json:"destination"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

func (PayoutDestination) TableName() string {
	return "payout_destination"
}

package models

import (
	"time"

	"github.com/storyloom/treasury/pkg/types"
)

// Payout is the durable record of intent for one aggregated transfer to one
// recipient. It is written before the gateway transfer call, so a crash in
// between leaves an auditable pending row instead of silent money movement.
// Terminal payouts are immutable; a failed payout is never retried in place,
// the next run creates a fresh one.
type Payout struct {
	ID          string `gorm:"column:id;primary_key;type:uuid" json:"id"`
	RecipientID string `gorm:"column:recipient_id;type:varchar(64);not null;index" json:"recipient_id"`
	// AmountCents equals the sum of net amounts of the claimed donations.
	AmountCents int64               `gorm:"column:amount_cents;type:bigint;not null" json:"amount_cents"`
	Processor   types.PaymentMethod `gorm:"column:processor;type:varchar(32);not null" json:"processor"`
	Status      types.PayoutStatus  `gorm:"column:status;type:varchar(32);not null;index" json:"status"`
	// TransferRef is the gateway's identifier for the executed transfer.
	TransferRef  string     `gorm:"column:transfer_ref;type:varchar(128)" json:"transfer_ref"`
	ErrorMessage *string    `gorm:"column:error_message;type:text" json:"error_message,omitempty"`
	CompletedAt  *time.Time `gorm:"column:completed_at;default:null" json:"completed_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (Payout) TableName() string {
	return "payout"
}

package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/storyloom/treasury/pkg/types"
)

type DonationExtra struct {
	// PlatformFeeBps snapshot of the fee rate applied at creation time, so
	// later fee changes never alter recorded net amounts.
	PlatformFeeBps int64 `json:"platform_fee_bps"`
	// GatewayEventID is the last gateway event that touched this donation.
	GatewayEventID string `json:"gateway_event_id,omitempty"`
}

// Donation is a single payment from a donor to a recipient, optionally tied
// to a story. Exactly one row exists per external payment: the composite
// unique index on (payment_method, processor_ref) is what makes concurrent
// creates from the confirmation and webhook paths converge.
type Donation struct {
	ID          string `gorm:"column:id;primary_key;type:uuid" json:"id"`
	DonorID     string `gorm:"column:donor_id;type:varchar(64);not null;index" json:"donor_id"`
	RecipientID string `gorm:"column:recipient_id;type:varchar(64);not null;index:idx_recipient_status,priority:1" json:"recipient_id"`

	AmountCents    int64 `gorm:"column:amount_cents;type:bigint;not null" json:"amount_cents"`
	NetAmountCents int64 `gorm:"column:net_amount_cents;type:bigint;not null" json:"net_amount_cents"`

	PaymentMethod types.PaymentMethod `gorm:"column:payment_method;type:varchar(32);not null;uniqueIndex:unique_method_processor_ref,priority:1" json:"payment_method"`
	ProcessorRef  string              `gorm:"column:processor_ref;type:varchar(128);not null;uniqueIndex:unique_method_processor_ref,priority:2" json:"processor_ref"`

	StoryID *string `gorm:"column:story_id;type:varchar(64)" json:"story_id,omitempty"`
	Message *string `gorm:"column:message;type:text" json:"message,omitempty"`

	Status types.DonationStatus `gorm:"column:status;type:varchar(32);not null;index:idx_recipient_status,priority:2" json:"status"`
	// PayoutID is set exactly once, when the donation is claimed by a payout.
	PayoutID  *string    `gorm:"column:payout_id;type:uuid;index" json:"payout_id"`
	PaidOutAt *time.Time `gorm:"column:paid_out_at;default:null" json:"paid_out_at"`

	Extra     datatypes.JSONType[*DonationExtra] `gorm:"column:extra;type:jsonb;default:'{}'" json:"extra"`
	CreatedAt time.Time                          `json:"created_at"`
	UpdatedAt time.Time                          `json:"updated_at"`
}

func (Donation) TableName() string {
	return "donation"
}

func (d *Donation) Settled() bool {
	if d == nil {
		return false
	}
	return d.Status.IsSettled()
}

func (d *Donation) Claimed() bool {
	return d != nil && d.PayoutID != nil
}

package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/storyloom/treasury/pkg/types"
)

// DonationLog is an append-only before/after audit row written whenever the
// reconciler or the payout aggregator changes a donation.
type DonationLog struct {
	ID           string                         `gorm:"column:id;primary_key;type:uuid" json:"id"`
	DonationID   string                         `gorm:"column:donation_id;type:uuid;not null;index" json:"donation_id"`
	ProcessorRef string                         `gorm:"column:processor_ref;type:varchar(128);not null" json:"processor_ref"`
	Reason       types.DonationChangeReason     `gorm:"column:reason;type:varchar(32);not null" json:"reason"`
	Before       datatypes.JSONType[*Donation]  `gorm:"column:before;type:jsonb" json:"before"`
	After        datatypes.JSONType[*Donation]  `gorm:"column:after;type:jsonb" json:"after"`
	Extra        datatypes.JSONMap              `gorm:"column:extra;type:jsonb;default:'{}'" json:"extra"`
	CreatedAt    time.Time                      `json:"created_at"`
}

func (DonationLog) TableName() string {
	return "donation_log"
}

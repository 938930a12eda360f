package models

import (
	"time"

	"gorm.io/datatypes"
)

const NotificationTypeDonation = "donation"

type NotificationContent struct {
	DonationID  string  `json:"donation_id"`
	DonorID     string  `json:"donor_id"`
	AmountCents int64   `json:"amount_cents"`
	StoryID     *string `json:"story_id,omitempty"`
	Message     *string `json:"message,omitempty"`
}

// Notification is a single in-app notification row. For donation
// notifications DonationID mirrors content.donation_id into an indexed
// column: the unique index on (user_id, donation_id) is what makes the
// dispatcher's insert idempotent under concurrent delivery from the
// confirmation and webhook paths.
type Notification struct {
	ID     string `gorm:"column:id;primary_key;type:uuid" json:"id"`
	UserID string `gorm:"column:user_id;type:varchar(64);not null;index;uniqueIndex:unique_user_donation,priority:1" json:"user_id"`
	Type   string `gorm:"column:type;type:varchar(32);not null" json:"type"`

	Title   string `gorm:"column:title;type:varchar(256);not null" json:"title"`
	Message string `gorm:"column:message;type:text" json:"message"`

	DonationID *string                                  `gorm:"column:donation_id;type:uuid;uniqueIndex:unique_user_donation,priority:2" json:"donation_id,omitempty"`
	Content    datatypes.JSONType[*NotificationContent] `gorm:"column:content;type:jsonb;default:'{}'" json:"content"`

	Read      bool      `gorm:"column:read;not null;default:false" json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

func (Notification) TableName() string {
	return "notification"
}

// NotificationCounter is the durable per-user unread counter. The cache
// layer mirrors it for hot reads; this row is the source of truth.
type NotificationCounter struct {
	UserID    string    `gorm:"column:user_id;primary_key;type:varchar(64)" json:"user_id"`
	Unread    int64     `gorm:"column:unread;type:bigint;not null;default:0" json:"unread"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (NotificationCounter) TableName() string {
	return "notification_counter"
}

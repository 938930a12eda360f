package models

import (
	"time"

	"gorm.io/datatypes"
)

type WebhookEventLogStatus string

const (
	WebhookEventLogStatusReceived     WebhookEventLogStatus = "received"
	WebhookEventLogStatusHandled      WebhookEventLogStatus = "handled"
	WebhookEventLogStatusHandleFailed WebhookEventLogStatus = "handle_failed"
)

// WebhookEventLog records every accepted gateway delivery and its handling
// outcome. Gateways deliver at-least-once, so the same external event may
// appear here multiple times; reconciliation stays idempotent regardless.
type WebhookEventLog struct {
	ID           string                `gorm:"column:id;type:uuid;primary_key" json:"id"`
	Provider     string                `gorm:"column:provider;type:varchar(32);not null" json:"provider"`
	EventKind    string                `gorm:"column:event_kind;type:varchar(64)" json:"event_kind"`
	ProcessorRef string                `gorm:"column:processor_ref;type:varchar(128);index" json:"processor_ref"`
	TraceID      string                `gorm:"column:trace_id;type:varchar(128)" json:"trace_id"`
	Data         datatypes.JSON        `gorm:"column:data;type:jsonb" json:"data"`
	Result       *datatypes.JSON       `gorm:"column:result;type:jsonb" json:"result"`
	Status       WebhookEventLogStatus `gorm:"column:status;type:varchar(32);not null" json:"status"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

func (WebhookEventLog) TableName() string {
	return "webhook_event_log"
}

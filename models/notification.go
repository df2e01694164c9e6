package models

import (
	"time"

	"gorm.io/gorm"
)

// Notification channels
const (
	NotificationEmail    = "Email"
	NotificationWhatsApp = "WhatsApp"
	NotificationSMS      = "SMS"
	NotificationTask     = "Task"
	NotificationFollowUp = "FollowUp"
)

// Notification lifecycle statuses. Pending moves to Sent/Failed when
// dispatched, or to Completed/Dismissed when handled by an operator.
const (
	StatusPending   = "Pending"
	StatusSent      = "Sent"
	StatusFailed    = "Failed"
	StatusCompleted = "Completed"
	StatusDismissed = "Dismissed"
)

// Notification is an immutable record of a generated message. Only the
// status field transitions after creation.
type Notification struct {
	gorm.Model
	Type    string `gorm:"not null" json:"type"`
	Message string `gorm:"type:text;not null" json:"message"`

	// Recipient admin ID
	Recipient uint `gorm:"not null;index" json:"recipient"`

	SentAt time.Time `gorm:"not null" json:"sent_at"`
	Status string    `gorm:"default:Pending" json:"status"`

	RelatedLeadID *uint `json:"related_lead_id,omitempty"`
	RelatedTaskID *uint `json:"related_task_id,omitempty"`
}

// Reminder is a simple title + trigger-instant record, independent of
// campaigns.
type Reminder struct {
	gorm.Model
	Title    string    `gorm:"not null" json:"title"`
	RemindAt time.Time `gorm:"not null" json:"remind_at"`
}

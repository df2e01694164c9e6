package models

import (
	"time"

	"gorm.io/gorm"
)

// Lead interest levels
const (
	InterestHot  = "Hot"
	InterestWarm = "Warm"
	InterestCold = "Cold"
)

// Lead pipeline statuses
const (
	LeadNew           = "New"
	LeadContacted     = "Contacted"
	LeadInNegotiation = "In Negotiation"
	LeadConverted     = "Converted"
	LeadLost          = "Lost"
)

// Lead represents a prospective or active advertising client tracked
// through the sales pipeline.
type Lead struct {
	gorm.Model
	LeadName    string `gorm:"not null" json:"lead_name"`
	CompanyName string `json:"company_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Category    string `json:"category"`

	InterestLevel string `gorm:"default:Warm" json:"interest_level"` // Hot, Warm, Cold
	Status        string `gorm:"default:New" json:"status"`

	// Staff owner, recipient of follow-up notifications
	AssignedTo uint `gorm:"index" json:"assigned_to"`

	CreatedBy    string     `json:"created_by"`
	FollowUpDate *time.Time `json:"follow_up_date,omitempty"`

	// Set once when the lead converts and its first campaign is auto-created
	ConvertedCampaignID *uint `json:"converted_campaign_id,omitempty"`

	// Relations
	Notes []LeadNote `gorm:"foreignKey:LeadID" json:"notes,omitempty"`
	Tasks []Task     `gorm:"foreignKey:LeadID" json:"tasks,omitempty"`
}

// LeadNote is an append-only note on a lead
type LeadNote struct {
	gorm.Model
	LeadID    uint   `gorm:"not null;index" json:"lead_id"`
	NoteText  string `gorm:"type:text;not null" json:"note_text"`
	CreatedBy string `json:"created_by"`
}

// Task is a dated to-do attached to a lead and assigned to an admin
type Task struct {
	gorm.Model
	Title      string    `gorm:"not null" json:"title"`
	DueDate    time.Time `gorm:"not null" json:"due_date"`
	Completed  bool      `gorm:"default:false" json:"completed"`
	AssignedTo uint      `gorm:"not null;index" json:"assigned_to"`
	LeadID     uint      `gorm:"not null;index" json:"lead_id"`
}

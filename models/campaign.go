package models

import (
	"time"

	"gorm.io/gorm"
)

// Campaign media types
const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
)

// Payment statuses
const (
	PaymentPaid    = "Paid"
	PaymentPending = "Pending"
	PaymentOverdue = "Overdue"
)

// Payment modes
const (
	PayModeCash  = "Cash"
	PayModeUPI   = "UPI"
	PayModeBank  = "Bank"
	PayModeOther = "Other"
)

// MediaMetadata holds the merged storage-reported and locally computed
// attributes of an uploaded media file.
type MediaMetadata struct {
	Name            string     `json:"name"`
	Size            int64      `json:"size"`
	ContentType     string     `json:"content_type"`
	LastModified    *time.Time `json:"last_modified,omitempty"`
	Dimensions      string     `json:"dimensions,omitempty"` // "WxH", images only
	DurationSeconds int        `json:"duration_seconds,omitempty"`
	OriginalName    string     `json:"original_name,omitempty"`
}

// Campaign represents a booked advertising contract occupying one or more
// screen slots for a date range.
type Campaign struct {
	gorm.Model
	CampaignName string `gorm:"not null" json:"campaign_name"`

	// Owning client
	LeadID     uint   `gorm:"not null;index" json:"lead_id"`
	ClientName string `json:"client_name"`

	Category  string `json:"category"`
	MediaType string `gorm:"not null" json:"media_type"` // image, video

	// Inline data-URL media kept for records created before object storage
	MediaURL          string `gorm:"type:text" json:"media_url,omitempty"`
	MediaStoragePath  string `json:"media_storage_path,omitempty"`
	MediaDownloadURL  string `json:"media_download_url,omitempty"`
	MediaThumbnailURL string `json:"media_thumbnail_url,omitempty"`

	MediaMeta MediaMetadata `gorm:"embedded;embeddedPrefix:media_meta_" json:"media_metadata"`

	// Ad-exposure units sold, typically 1-3
	Slots int `gorm:"default:1" json:"slots"`

	StartDate time.Time `gorm:"not null" json:"start_date"`
	EndDate   time.Time `gorm:"not null" json:"end_date"`

	PaymentStatus   string  `gorm:"default:Pending" json:"payment_status"`
	Amount          float64 `json:"amount"`
	PaymentMode     string  `gorm:"default:Other" json:"payment_mode"`
	RenewalReminder bool    `gorm:"default:false" json:"renewal_reminder"`

	// Relations
	Screens []Screen `gorm:"many2many:campaign_screens" json:"assigned_screens,omitempty"`
	Lead    *Lead    `gorm:"foreignKey:LeadID" json:"lead,omitempty"`
}

// ScreenIDs returns the IDs of the screens assigned to the campaign.
func (c *Campaign) ScreenIDs() []uint {
	ids := make([]uint, 0, len(c.Screens))
	for _, s := range c.Screens {
		ids = append(ids, s.ID)
	}
	return ids
}

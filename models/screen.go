package models

import (
	"gorm.io/gorm"
)

// Screen venue types
const (
	VenueRestaurant = "restaurant"
	VenueCafe       = "cafe"
	VenueGym        = "gym"
	VenueOther      = "other"
)

// Screen represents a physical display venue that can host campaigns
type Screen struct {
	gorm.Model
	VenueName string  `gorm:"not null" json:"venue_name"`
	Location  string  `gorm:"not null" json:"location"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Geohash   string  `json:"geohash"`

	// Operator-assigned code, unique and immutable once created
	UniqueID string `gorm:"not null;uniqueIndex" json:"unique_id"`

	ImageURL        string `json:"image_url"`
	VenueType       string `gorm:"default:other" json:"venue_type"` // restaurant, cafe, gym, other
	ContactPerson   string `json:"contact_person"`
	PhoneNumber     string `json:"phone_number"`
	AverageFootfall int    `gorm:"default:0" json:"average_footfall"`

	// Relations
	Campaigns []Campaign `gorm:"many2many:campaign_screens" json:"campaigns,omitempty"`
}

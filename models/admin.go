package models

import "gorm.io/gorm"

// Admin is an internal staff user who owns leads and receives notifications
type Admin struct {
	gorm.Model
	Name        string `gorm:"not null" json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
}

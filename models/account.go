package models

import (
	"time"

	"gorm.io/gorm"
)

// Account entry types
const (
	EntryIncome  = "Income"
	EntryExpense = "Expense"
)

// Income sources
const (
	IncomeAdBooking     = "Ad Booking"
	IncomeClientPayment = "Client Payment"
	IncomeSponsorship   = "Sponsorship"
	IncomeOther         = "Other"
)

// Expense categories
const (
	ExpenseRent      = "Rent"
	ExpenseEquipment = "Equipment"
	ExpenseStaff     = "Staff"
	ExpenseMarketing = "Marketing"
	ExpenseOther     = "Other"
)

// IncomeDetails is populated only when EntryType is Income
type IncomeDetails struct {
	Source            string `json:"source,omitempty"`
	RelatedCampaignID *uint  `json:"related_campaign_id,omitempty"`
	ReceivedFrom      string `json:"received_from,omitempty"`
	Status            string `json:"status,omitempty"` // Paid, Pending, Overdue
}

// ExpenseDetails is populated only when EntryType is Expense
type ExpenseDetails struct {
	Category string `json:"category,omitempty"`
	PaidTo   string `json:"paid_to,omitempty"`
	Status   string `json:"status,omitempty"` // Paid, Pending
}

// AccountEntry is a bookkeeping record. EntryType discriminates which of
// the two detail groups carries data; the other stays zero-valued.
type AccountEntry struct {
	gorm.Model
	EntryType   string    `gorm:"not null;index" json:"entry_type"` // Income, Expense
	Amount      float64   `gorm:"not null" json:"amount"`
	Date        time.Time `gorm:"not null" json:"date"`
	PaymentMode string    `gorm:"default:Other" json:"payment_mode"`
	Notes       string    `gorm:"type:text" json:"notes,omitempty"`

	Income  IncomeDetails  `gorm:"embedded;embeddedPrefix:income_" json:"income"`
	Expense ExpenseDetails `gorm:"embedded;embeddedPrefix:expense_" json:"expense"`
}

package controller

import (
	"log"

	"adboard/models"
	"adboard/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AccountController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewAccountController(db *gorm.DB, logger *log.Logger) *AccountController {
	return &AccountController{
		DB:     db,
		Logger: logger,
	}
}

type accountEntryInput struct {
	EntryType   string   `json:"entry_type" validate:"required,oneof=Income Expense"`
	Amount      *float64 `json:"amount" validate:"required,gt=0"`
	Date        string   `json:"date" validate:"required"`
	PaymentMode string   `json:"payment_mode" validate:"omitempty,oneof=Cash UPI Bank Other"`
	Notes       string   `json:"notes"`

	// Income-only fields
	Source            string `json:"source" validate:"omitempty,oneof='Ad Booking' 'Client Payment' Sponsorship Other"`
	RelatedCampaignID *uint  `json:"related_campaign_id"`
	ReceivedFrom      string `json:"received_from"`
	IncomeStatus      string `json:"income_status" validate:"omitempty,oneof=Paid Pending Overdue"`

	// Expense-only fields
	Category      string `json:"category" validate:"omitempty,oneof=Rent Equipment Staff Marketing Other"`
	PaidTo        string `json:"paid_to"`
	ExpenseStatus string `json:"expense_status" validate:"omitempty,oneof=Paid Pending"`
}

// toEntry builds the tagged variant: only the detail group matching the
// entry type carries data, the other stays zero-valued.
func (in *accountEntryInput) toEntry() (*models.AccountEntry, error) {
	date, err := parseDate(in.Date)
	if err != nil {
		return nil, err
	}

	entry := &models.AccountEntry{
		EntryType:   in.EntryType,
		Amount:      *in.Amount,
		Date:        date,
		PaymentMode: defaultString(in.PaymentMode, models.PayModeOther),
		Notes:       in.Notes,
	}

	switch in.EntryType {
	case models.EntryIncome:
		entry.Income = models.IncomeDetails{
			Source:            in.Source,
			RelatedCampaignID: in.RelatedCampaignID,
			ReceivedFrom:      in.ReceivedFrom,
			Status:            in.IncomeStatus,
		}
	case models.EntryExpense:
		entry.Expense = models.ExpenseDetails{
			Category: in.Category,
			PaidTo:   in.PaidTo,
			Status:   in.ExpenseStatus,
		}
	}
	return entry, nil
}

// CreateAccountEntry records an income or expense entry
func (ac *AccountController) CreateAccountEntry(c *fiber.Ctx) error {
	var input accountEntryInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	entry, err := input.toEntry()
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid entry date", err)
	}

	if entry.Income.RelatedCampaignID != nil {
		var campaign models.Campaign
		if err := ac.DB.First(&campaign, *entry.Income.RelatedCampaignID).Error; err != nil {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Related campaign not found", nil)
		}
	}

	if err := ac.DB.Create(entry).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create account entry", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Account entry created successfully.",
		"data":    entry,
	})
}

// GetAccountEntries lists entries, optionally filtered by type
func (ac *AccountController) GetAccountEntries(c *fiber.Ctx) error {
	query := ac.DB.Model(&models.AccountEntry{})

	if entryType := c.Query("entry_type"); entryType != "" {
		query = query.Where("entry_type = ?", entryType)
	}

	var entries []models.AccountEntry
	if err := query.Order("date DESC").Find(&entries).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch account entries", err)
	}

	return c.JSON(utils.SuccessResponse(entries))
}

// UpdateAccountEntry replaces an entry's content. The variant shape makes
// a full replace simpler and safer than a field-level patch here: switching
// entry type swaps which detail group is live.
func (ac *AccountController) UpdateAccountEntry(c *fiber.Ctx) error {
	var input accountEntryInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	var existing models.AccountEntry
	if err := ac.DB.First(&existing, c.Params("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Account entry not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch account entry", err)
	}

	entry, err := input.toEntry()
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid entry date", err)
	}
	entry.ID = existing.ID
	entry.CreatedAt = existing.CreatedAt

	// Save writes every column, clearing the detail group that no longer
	// applies when the entry type changed.
	if err := ac.DB.Save(entry).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update account entry", err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Account entry updated successfully.",
		"data":    entry,
	})
}

// DeleteAccountEntry removes a bookkeeping record
func (ac *AccountController) DeleteAccountEntry(c *fiber.Ctx) error {
	var entry models.AccountEntry
	if err := ac.DB.First(&entry, c.Params("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Account entry not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch account entry", err)
	}

	if err := ac.DB.Delete(&entry).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete account entry", err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Account entry deleted successfully.",
	})
}

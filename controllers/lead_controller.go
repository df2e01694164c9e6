package controller

import (
	"log"
	"time"

	"adboard/models"
	"adboard/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type LeadController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewLeadController(db *gorm.DB, logger *log.Logger) *LeadController {
	return &LeadController{
		DB:     db,
		Logger: logger,
	}
}

// CreateLead creates a new lead with validation
func (lc *LeadController) CreateLead(c *fiber.Ctx) error {
	var input struct {
		LeadName      string  `json:"lead_name" validate:"required,max=200"`
		CompanyName   string  `json:"company_name" validate:"omitempty,max=200"`
		Email         string  `json:"email"`
		PhoneNumber   string  `json:"phone_number"`
		Category      string  `json:"category"`
		InterestLevel string  `json:"interest_level" validate:"omitempty,oneof=Hot Warm Cold"`
		Status        string  `json:"status" validate:"omitempty,oneof=New Contacted 'In Negotiation' Converted Lost"`
		AssignedTo    uint    `json:"assigned_to" validate:"required"`
		Note          string  `json:"note"`
		FollowUpDate  *string `json:"follow_up_date"` // RFC 3339
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}
	if err := utils.ValidateEmailFormat(input.Email); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	var admin models.Admin
	if err := lc.DB.First(&admin, input.AssignedTo).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Assigned admin not found", nil)
	}

	followUp, err := parseOptionalDate(input.FollowUpDate)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid follow-up date", err)
	}

	lead := models.Lead{
		LeadName:      input.LeadName,
		CompanyName:   input.CompanyName,
		Email:         input.Email,
		PhoneNumber:   input.PhoneNumber,
		Category:      input.Category,
		InterestLevel: defaultString(input.InterestLevel, models.InterestWarm),
		Status:        defaultString(input.Status, models.LeadNew),
		AssignedTo:    input.AssignedTo,
		CreatedBy:     admin.Name,
		FollowUpDate:  followUp,
	}
	if input.Note != "" {
		lead.Notes = []models.LeadNote{{NoteText: input.Note, CreatedBy: admin.Name}}
	}

	if err := lc.DB.Create(&lead).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create lead", err)
	}

	if lead.Status == models.LeadConverted {
		if err := lc.convertLead(&lead); err != nil {
			lc.Logger.Printf("Failed to auto-create campaign for converted lead %d: %v", lead.ID, err)
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Lead created successfully.",
		"data":    lead,
	})
}

// GetLeads returns leads with optional status/interest filters
func (lc *LeadController) GetLeads(c *fiber.Ctx) error {
	query := lc.DB.Model(&models.Lead{}).Preload("Notes").Preload("Tasks")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if interest := c.Query("interest_level"); interest != "" {
		query = query.Where("interest_level = ?", interest)
	}
	if assignedTo := c.Query("assigned_to"); assignedTo != "" {
		query = query.Where("assigned_to = ?", assignedTo)
	}

	var leads []models.Lead
	if err := query.Order("created_at DESC").Find(&leads).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch leads", err)
	}

	return c.JSON(utils.SuccessResponse(leads))
}

// GetLead returns a single lead with notes and tasks
func (lc *LeadController) GetLead(c *fiber.Ctx) error {
	var lead models.Lead
	if err := lc.DB.Preload("Notes").Preload("Tasks").First(&lead, c.Params("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Lead not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch lead", err)
	}

	return c.JSON(utils.SuccessResponse(lead))
}

// UpdateLead applies a sparse patch. A note in the payload is appended to
// the lead's note history, never overwritten. Moving the status to
// Converted auto-creates the lead's first campaign exactly once.
func (lc *LeadController) UpdateLead(c *fiber.Ctx) error {
	var input struct {
		LeadName      *string `json:"lead_name" validate:"omitempty,max=200"`
		CompanyName   *string `json:"company_name"`
		Email         *string `json:"email"`
		PhoneNumber   *string `json:"phone_number"`
		Category      *string `json:"category"`
		InterestLevel *string `json:"interest_level" validate:"omitempty,oneof=Hot Warm Cold"`
		Status        *string `json:"status" validate:"omitempty,oneof=New Contacted 'In Negotiation' Converted Lost"`
		AssignedTo    *uint   `json:"assigned_to"`
		Note          string  `json:"note"`
		FollowUpDate  *string `json:"follow_up_date"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}
	if input.Email != nil {
		if err := utils.ValidateEmailFormat(*input.Email); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
		}
	}

	var lead models.Lead
	if err := lc.DB.First(&lead, c.Params("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Lead not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch lead", err)
	}

	updates := map[string]interface{}{}
	if input.LeadName != nil {
		updates["lead_name"] = *input.LeadName
	}
	if input.CompanyName != nil {
		updates["company_name"] = *input.CompanyName
	}
	if input.Email != nil {
		updates["email"] = *input.Email
	}
	if input.PhoneNumber != nil {
		updates["phone_number"] = *input.PhoneNumber
	}
	if input.Category != nil {
		updates["category"] = *input.Category
	}
	if input.InterestLevel != nil {
		updates["interest_level"] = *input.InterestLevel
	}
	if input.Status != nil {
		updates["status"] = *input.Status
	}
	if input.AssignedTo != nil {
		var admin models.Admin
		if err := lc.DB.First(&admin, *input.AssignedTo).Error; err != nil {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Assigned admin not found", nil)
		}
		updates["assigned_to"] = *input.AssignedTo
	}
	if input.FollowUpDate != nil {
		followUp, err := parseOptionalDate(input.FollowUpDate)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid follow-up date", err)
		}
		updates["follow_up_date"] = followUp
	}

	if len(updates) > 0 {
		if err := lc.DB.Model(&lead).Updates(updates).Error; err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update lead", err)
		}
	}

	if input.Note != "" {
		note := models.LeadNote{LeadID: lead.ID, NoteText: input.Note, CreatedBy: lead.CreatedBy}
		if err := lc.DB.Create(&note).Error; err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to append note", err)
		}
	}

	if input.Status != nil && *input.Status == models.LeadConverted && lead.ConvertedCampaignID == nil {
		if err := lc.convertLead(&lead); err != nil {
			lc.Logger.Printf("Failed to auto-create campaign for converted lead %d: %v", lead.ID, err)
		}
	}

	if err := lc.DB.Preload("Notes").Preload("Tasks").First(&lead, lead.ID).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to reload lead", err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Lead updated successfully.",
		"data":    lead,
	})
}

// DeleteLead removes a lead and its notes and tasks
func (lc *LeadController) DeleteLead(c *fiber.Ctx) error {
	var lead models.Lead
	if err := lc.DB.First(&lead, c.Params("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Lead not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch lead", err)
	}

	err := lc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("lead_id = ?", lead.ID).Delete(&models.LeadNote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("lead_id = ?", lead.ID).Delete(&models.Task{}).Error; err != nil {
			return err
		}
		return tx.Delete(&lead).Error
	})
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete lead", err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Lead deleted successfully.",
	})
}

// convertLead creates the auto-generated first campaign for a converted
// lead and links it back. Runs at most once per lead.
func (lc *LeadController) convertLead(lead *models.Lead) error {
	now := time.Now()
	campaign := models.Campaign{
		CampaignName:    lead.LeadName + "'s First Campaign",
		LeadID:          lead.ID,
		ClientName:      lead.LeadName,
		MediaType:       models.MediaTypeImage,
		Slots:           1,
		StartDate:       now,
		EndDate:         now,
		PaymentStatus:   models.PaymentPending,
		PaymentMode:     models.PayModeOther,
		RenewalReminder: true,
	}

	return lc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&campaign).Error; err != nil {
			return err
		}
		return tx.Model(lead).Update("converted_campaign_id", campaign.ID).Error
	})
}

func parseOptionalDate(value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, *value)
	if err != nil {
		// Date-only form used by the console's pickers
		t, err = time.Parse("2006-01-02", *value)
		if err != nil {
			return nil, err
		}
	}
	return &t, nil
}

func defaultString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

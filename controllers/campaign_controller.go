package controller

import (
	"log"
	"time"

	"adboard/models"
	"adboard/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CampaignController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewCampaignController(db *gorm.DB, logger *log.Logger) *CampaignController {
	return &CampaignController{
		DB:     db,
		Logger: logger,
	}
}

type campaignInput struct {
	CampaignName    string   `json:"campaign_name" validate:"required,max=200"`
	LeadID          uint     `json:"lead_id" validate:"required"`
	ClientName      string   `json:"client_name"`
	Category        string   `json:"category"`
	MediaType       string   `json:"media_type" validate:"required,oneof=image video"`
	MediaURL        string   `json:"media_url"`
	Slots           int      `json:"slots" validate:"omitempty,gte=1"`
	ScreenIDs       []uint   `json:"screen_ids"`
	StartDate       string   `json:"start_date" validate:"required"`
	EndDate         string   `json:"end_date" validate:"required"`
	PaymentStatus   string   `json:"payment_status" validate:"omitempty,oneof=Paid Pending Overdue"`
	Amount          *float64 `json:"amount" validate:"required"`
	PaymentMode     string   `json:"payment_mode" validate:"omitempty,oneof=Cash UPI Bank Other"`
	RenewalReminder bool     `json:"renewal_reminder"`
}

// CreateCampaign books a new campaign against a set of screens
func (cc *CampaignController) CreateCampaign(c *fiber.Ctx) error {
	var input campaignInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	startDate, endDate, err := parseCampaignDates(input.StartDate, input.EndDate)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	var lead models.Lead
	if err := cc.DB.First(&lead, input.LeadID).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Client lead not found", nil)
	}

	screens, err := cc.resolveScreens(input.ScreenIDs)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "One or more screens do not exist", err)
	}

	campaign := models.Campaign{
		CampaignName:    input.CampaignName,
		LeadID:          input.LeadID,
		ClientName:      defaultString(input.ClientName, lead.LeadName),
		Category:        input.Category,
		MediaType:       input.MediaType,
		MediaURL:        input.MediaURL,
		Slots:           input.Slots,
		StartDate:       startDate,
		EndDate:         endDate,
		PaymentStatus:   defaultString(input.PaymentStatus, models.PaymentPending),
		Amount:          *input.Amount,
		PaymentMode:     defaultString(input.PaymentMode, models.PayModeOther),
		RenewalReminder: input.RenewalReminder,
		Screens:         screens,
	}
	if campaign.Slots == 0 {
		campaign.Slots = 1
	}

	if err := cc.DB.Create(&campaign).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create campaign", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Campaign created successfully.",
		"data":    campaign,
	})
}

// GetCampaigns returns all campaigns with their screens
func (cc *CampaignController) GetCampaigns(c *fiber.Ctx) error {
	query := cc.DB.Model(&models.Campaign{}).Preload("Screens")

	if status := c.Query("payment_status"); status != "" {
		query = query.Where("payment_status = ?", status)
	}
	if leadID := c.Query("lead_id"); leadID != "" {
		query = query.Where("lead_id = ?", leadID)
	}

	var campaigns []models.Campaign
	if err := query.Order("end_date").Find(&campaigns).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch campaigns", err)
	}

	return c.JSON(utils.SuccessResponse(campaigns))
}

// GetCampaign returns one campaign with screens and owning lead
func (cc *CampaignController) GetCampaign(c *fiber.Ctx) error {
	var campaign models.Campaign
	if err := cc.DB.Preload("Screens").Preload("Lead").First(&campaign, c.Params("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Campaign not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch campaign", err)
	}

	return c.JSON(utils.SuccessResponse(campaign))
}

// UpdateCampaign applies a sparse patch; screen assignment is replaced
// wholesale when screen_ids is present.
func (cc *CampaignController) UpdateCampaign(c *fiber.Ctx) error {
	var input struct {
		CampaignName    *string  `json:"campaign_name" validate:"omitempty,max=200"`
		ClientName      *string  `json:"client_name"`
		Category        *string  `json:"category"`
		MediaType       *string  `json:"media_type" validate:"omitempty,oneof=image video"`
		MediaURL        *string  `json:"media_url"`
		Slots           *int     `json:"slots" validate:"omitempty,gte=1"`
		ScreenIDs       *[]uint  `json:"screen_ids"`
		StartDate       *string  `json:"start_date"`
		EndDate         *string  `json:"end_date"`
		PaymentStatus   *string  `json:"payment_status" validate:"omitempty,oneof=Paid Pending Overdue"`
		Amount          *float64 `json:"amount"`
		PaymentMode     *string  `json:"payment_mode" validate:"omitempty,oneof=Cash UPI Bank Other"`
		RenewalReminder *bool    `json:"renewal_reminder"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	var campaign models.Campaign
	if err := cc.DB.First(&campaign, c.Params("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Campaign not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch campaign", err)
	}

	// Dates are validated as a pair against the stored values
	startDate := campaign.StartDate
	endDate := campaign.EndDate
	if input.StartDate != nil {
		parsed, err := parseDate(*input.StartDate)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid start date", err)
		}
		startDate = parsed
	}
	if input.EndDate != nil {
		parsed, err := parseDate(*input.EndDate)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid end date", err)
		}
		endDate = parsed
	}
	if endDate.Before(startDate) {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "End date must not precede start date", nil)
	}

	updates := map[string]interface{}{}
	if input.CampaignName != nil {
		updates["campaign_name"] = *input.CampaignName
	}
	if input.ClientName != nil {
		updates["client_name"] = *input.ClientName
	}
	if input.Category != nil {
		updates["category"] = *input.Category
	}
	if input.MediaType != nil {
		updates["media_type"] = *input.MediaType
	}
	if input.MediaURL != nil {
		updates["media_url"] = *input.MediaURL
	}
	if input.Slots != nil {
		updates["slots"] = *input.Slots
	}
	if input.StartDate != nil {
		updates["start_date"] = startDate
	}
	if input.EndDate != nil {
		updates["end_date"] = endDate
	}
	if input.PaymentStatus != nil {
		updates["payment_status"] = *input.PaymentStatus
	}
	if input.Amount != nil {
		updates["amount"] = *input.Amount
	}
	if input.PaymentMode != nil {
		updates["payment_mode"] = *input.PaymentMode
	}
	if input.RenewalReminder != nil {
		updates["renewal_reminder"] = *input.RenewalReminder
	}

	err := cc.DB.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&campaign).Updates(updates).Error; err != nil {
				return err
			}
		}
		if input.ScreenIDs != nil {
			screens, err := cc.resolveScreens(*input.ScreenIDs)
			if err != nil {
				return err
			}
			if err := tx.Model(&campaign).Association("Screens").Replace(screens); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update campaign", err)
	}

	if err := cc.DB.Preload("Screens").First(&campaign, campaign.ID).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to reload campaign", err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Campaign updated successfully.",
		"data":    campaign,
	})
}

// DeleteCampaign removes a campaign and its screen assignments
func (cc *CampaignController) DeleteCampaign(c *fiber.Ctx) error {
	var campaign models.Campaign
	if err := cc.DB.First(&campaign, c.Params("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Campaign not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch campaign", err)
	}

	err := cc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&campaign).Association("Screens").Clear(); err != nil {
			return err
		}
		return tx.Delete(&campaign).Error
	})
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete campaign", err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Campaign deleted successfully.",
	})
}

// CheckCompatibility verifies that a screen selection refers only to
// existing screens. The check is a local predicate; each call is recorded
// in the audit log.
func (cc *CampaignController) CheckCompatibility(c *fiber.Ctx) error {
	var input struct {
		CampaignID uint   `json:"campaign_id" validate:"required"`
		ScreenIDs  []uint `json:"screen_ids" validate:"required,min=1"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	var validIDs []uint
	if err := cc.DB.Model(&models.Screen{}).Pluck("id", &validIDs).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch screens", err)
	}

	isValid, invalidIDs := utils.CheckScreenCompatibility(input.ScreenIDs, validIDs)
	cc.Logger.Printf("Compatibility check: campaign=%d screens=%v valid=%t invalid=%v",
		input.CampaignID, input.ScreenIDs, isValid, invalidIDs)

	return c.JSON(utils.SuccessResponse(fiber.Map{
		"is_valid":           isValid,
		"invalid_screen_ids": invalidIDs,
	}))
}

func (cc *CampaignController) resolveScreens(ids []uint) ([]models.Screen, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var screens []models.Screen
	if err := cc.DB.Find(&screens, ids).Error; err != nil {
		return nil, err
	}
	if len(screens) != len(ids) {
		return nil, gorm.ErrRecordNotFound
	}
	return screens, nil
}

func parseCampaignDates(start, end string) (time.Time, time.Time, error) {
	startDate, err := parseDate(start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	endDate, err := parseDate(end)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if endDate.Before(startDate) {
		return time.Time{}, time.Time{}, errEndBeforeStart
	}
	return startDate, endDate, nil
}

var errEndBeforeStart = fiber.NewError(fiber.StatusBadRequest, "end date must not precede start date")

func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}

package controller

import (
	"log"
	"strconv"

	"adboard/models"
	"adboard/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ScreenController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewScreenController(db *gorm.DB, logger *log.Logger) *ScreenController {
	return &ScreenController{
		DB:     db,
		Logger: logger,
	}
}

// CreateScreen registers a new display venue
func (sc *ScreenController) CreateScreen(c *fiber.Ctx) error {
	var input struct {
		VenueName       string  `json:"venue_name" validate:"required,max=200"`
		Location        string  `json:"location" validate:"required"`
		Latitude        float64 `json:"latitude"`
		Longitude       float64 `json:"longitude"`
		UniqueID        string  `json:"unique_id" validate:"required,max=50"`
		ImageURL        string  `json:"image_url"`
		VenueType       string  `json:"venue_type" validate:"omitempty,oneof=restaurant cafe gym other"`
		ContactPerson   string  `json:"contact_person"`
		PhoneNumber     string  `json:"phone_number"`
		AverageFootfall int     `json:"average_footfall" validate:"omitempty,gte=0"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	// Unique ID is immutable once created
	var existing models.Screen
	if err := sc.DB.Where("unique_id = ?", input.UniqueID).First(&existing).Error; err == nil {
		return utils.ErrorResponse(c, fiber.StatusConflict, "Screen with this unique ID already exists", nil)
	}

	venueType := input.VenueType
	if venueType == "" {
		venueType = models.VenueOther
	}

	screen := models.Screen{
		VenueName:       input.VenueName,
		Location:        input.Location,
		Latitude:        input.Latitude,
		Longitude:       input.Longitude,
		UniqueID:        input.UniqueID,
		ImageURL:        input.ImageURL,
		VenueType:       venueType,
		ContactPerson:   input.ContactPerson,
		PhoneNumber:     input.PhoneNumber,
		AverageFootfall: input.AverageFootfall,
	}

	if err := sc.DB.Create(&screen).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create screen", err)
	}

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(screen))
}

// GetScreens returns all screens, optionally filtered by venue type
func (sc *ScreenController) GetScreens(c *fiber.Ctx) error {
	query := sc.DB.Model(&models.Screen{})

	if venueType := c.Query("venue_type"); venueType != "" {
		query = query.Where("venue_type = ?", venueType)
	}

	var screens []models.Screen
	if err := query.Order("venue_name").Find(&screens).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch screens", err)
	}

	return c.JSON(utils.SuccessResponse(screens))
}

// GetScreen returns a single screen with its current campaigns
func (sc *ScreenController) GetScreen(c *fiber.Ctx) error {
	var screen models.Screen
	if err := sc.DB.Preload("Campaigns").First(&screen, c.Params("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Screen not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch screen", err)
	}

	return c.JSON(utils.SuccessResponse(screen))
}

// UpdateScreen applies a sparse patch; absent keys mean no change. The
// unique ID cannot be changed.
func (sc *ScreenController) UpdateScreen(c *fiber.Ctx) error {
	var input struct {
		VenueName       *string  `json:"venue_name" validate:"omitempty,max=200"`
		Location        *string  `json:"location"`
		Latitude        *float64 `json:"latitude"`
		Longitude       *float64 `json:"longitude"`
		ImageURL        *string  `json:"image_url"`
		VenueType       *string  `json:"venue_type" validate:"omitempty,oneof=restaurant cafe gym other"`
		ContactPerson   *string  `json:"contact_person"`
		PhoneNumber     *string  `json:"phone_number"`
		AverageFootfall *int     `json:"average_footfall" validate:"omitempty,gte=0"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	var screen models.Screen
	if err := sc.DB.First(&screen, c.Params("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Screen not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch screen", err)
	}

	updates := map[string]interface{}{}
	if input.VenueName != nil {
		updates["venue_name"] = *input.VenueName
	}
	if input.Location != nil {
		updates["location"] = *input.Location
	}
	if input.Latitude != nil {
		updates["latitude"] = *input.Latitude
	}
	if input.Longitude != nil {
		updates["longitude"] = *input.Longitude
	}
	if input.ImageURL != nil {
		updates["image_url"] = *input.ImageURL
	}
	if input.VenueType != nil {
		updates["venue_type"] = *input.VenueType
	}
	if input.ContactPerson != nil {
		updates["contact_person"] = *input.ContactPerson
	}
	if input.PhoneNumber != nil {
		updates["phone_number"] = *input.PhoneNumber
	}
	if input.AverageFootfall != nil {
		updates["average_footfall"] = *input.AverageFootfall
	}

	if len(updates) > 0 {
		if err := sc.DB.Model(&screen).Updates(updates).Error; err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update screen", err)
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Screen updated successfully.",
		"data":    screen,
	})
}

// DeleteScreen removes a screen and detaches it from every campaign that
// still references it.
func (sc *ScreenController) DeleteScreen(c *fiber.Ctx) error {
	var screen models.Screen
	if err := sc.DB.First(&screen, c.Params("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Screen not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch screen", err)
	}

	err := sc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&screen).Association("Campaigns").Clear(); err != nil {
			return err
		}
		return tx.Delete(&screen).Error
	})
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete screen", err)
	}

	sc.Logger.Printf("Deleted screen %d (%s)", screen.ID, screen.VenueName)
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Screen deleted successfully.",
	})
}

// EstimatePrice computes the campaign price estimate for a screen
// selection. Query params: screens, slots, duration (months, 1 or 3).
func (sc *ScreenController) EstimatePrice(c *fiber.Ctx) error {
	screens, err := strconv.Atoi(c.Query("screens", "0"))
	if err != nil || screens < 0 {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid screen count", nil)
	}
	slots, err := strconv.Atoi(c.Query("slots", "1"))
	if err != nil || slots < 1 {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid slot count", nil)
	}
	duration, err := strconv.Atoi(c.Query("duration", "1"))
	if err != nil || (duration != 1 && duration != 3) {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Duration must be 1 or 3 months", nil)
	}

	price := utils.EstimateCampaignPrice(screens, slots, duration)
	return c.JSON(utils.SuccessResponse(fiber.Map{
		"screens":         screens,
		"slots":           slots,
		"duration_months": duration,
		"total_price":     price,
		"price_per_month": price / duration,
	}))
}

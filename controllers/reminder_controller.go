package controller

import (
	"log"
	"time"

	"adboard/models"
	"adboard/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ReminderController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewReminderController(db *gorm.DB, logger *log.Logger) *ReminderController {
	return &ReminderController{
		DB:     db,
		Logger: logger,
	}
}

// CreateReminder records a personal reminder
func (rc *ReminderController) CreateReminder(c *fiber.Ctx) error {
	var input struct {
		Title    string `json:"title" validate:"required,max=300"`
		RemindAt string `json:"remind_at" validate:"required"` // RFC 3339
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	remindAt, err := time.Parse(time.RFC3339, input.RemindAt)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid remind_at timestamp", err)
	}

	reminder := models.Reminder{
		Title:    input.Title,
		RemindAt: remindAt,
	}

	if err := rc.DB.Create(&reminder).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create reminder", err)
	}

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(reminder))
}

// GetReminders lists reminders, soonest first
func (rc *ReminderController) GetReminders(c *fiber.Ctx) error {
	var reminders []models.Reminder
	if err := rc.DB.Order("remind_at").Find(&reminders).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch reminders", err)
	}
	return c.JSON(utils.SuccessResponse(reminders))
}

// DeleteReminder removes a reminder
func (rc *ReminderController) DeleteReminder(c *fiber.Ctx) error {
	var reminder models.Reminder
	if err := rc.DB.First(&reminder, c.Params("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Reminder not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch reminder", err)
	}

	if err := rc.DB.Delete(&reminder).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete reminder", err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Reminder deleted successfully.",
	})
}

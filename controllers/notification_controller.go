package controller

import (
	"log"

	"adboard/models"
	"adboard/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type NotificationController struct {
	DB      *gorm.DB
	Sweeper *utils.ExpirySweeper
	Mailer  *utils.NotificationMailer
	Logger  *log.Logger
}

func NewNotificationController(db *gorm.DB, sweeper *utils.ExpirySweeper, mailer *utils.NotificationMailer, logger *log.Logger) *NotificationController {
	return &NotificationController{
		DB:      db,
		Sweeper: sweeper,
		Mailer:  mailer,
		Logger:  logger,
	}
}

// GetNotifications lists notifications, newest first, with optional
// status, type, and recipient filters.
func (nc *NotificationController) GetNotifications(c *fiber.Ctx) error {
	query := nc.DB.Model(&models.Notification{})

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if nType := c.Query("type"); nType != "" {
		query = query.Where("type = ?", nType)
	}
	if recipient := c.Query("recipient"); recipient != "" {
		query = query.Where("recipient = ?", recipient)
	}

	var notifications []models.Notification
	if err := query.Order("created_at DESC").Find(&notifications).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch notifications", err)
	}

	return c.JSON(utils.SuccessResponse(notifications))
}

// UpdateNotificationStatus marks a notification Completed or Dismissed
func (nc *NotificationController) UpdateNotificationStatus(c *fiber.Ctx) error {
	var input struct {
		Status string `json:"status" validate:"required,oneof=Completed Dismissed"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	var notification models.Notification
	if err := nc.DB.First(&notification, c.Params("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Notification not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch notification", err)
	}

	if err := nc.DB.Model(&notification).Update("status", input.Status).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update notification", err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Notification updated successfully.",
		"data":    notification,
	})
}

// DeleteNotification removes a notification record
func (nc *NotificationController) DeleteNotification(c *fiber.Ctx) error {
	var notification models.Notification
	if err := nc.DB.First(&notification, c.Params("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Notification not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch notification", err)
	}

	if err := nc.DB.Delete(&notification).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete notification", err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Notification deleted successfully.",
	})
}

// GenerateExpiryNotifications runs the renewal sweep over the current
// state of the database and persists what it produces.
func (nc *NotificationController) GenerateExpiryNotifications(c *fiber.Ctx) error {
	var (
		campaigns []models.Campaign
		leads     []models.Lead
		screens   []models.Screen
		admins    []models.Admin
	)

	if err := nc.DB.Preload("Screens").Where("renewal_reminder = ?", true).Find(&campaigns).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load campaigns", err)
	}
	if err := nc.DB.Find(&leads).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load leads", err)
	}
	if err := nc.DB.Find(&screens).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load screens", err)
	}
	if err := nc.DB.Find(&admins).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load admins", err)
	}

	generated := nc.Sweeper.SweepExpiring(c.Context(), campaigns, leads, screens, admins)
	if len(generated) > 0 {
		if err := nc.DB.Create(&generated).Error; err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to persist notifications", err)
		}
	}

	nc.Logger.Printf("Expiry sweep generated %d notifications", len(generated))
	return c.JSON(utils.SuccessResponse(fiber.Map{
		"generated":     len(generated),
		"notifications": generated,
	}))
}

// GenerateFollowUpNotifications runs the follow-up sweep for leads due
// today and persists what it produces.
func (nc *NotificationController) GenerateFollowUpNotifications(c *fiber.Ctx) error {
	var (
		leads  []models.Lead
		admins []models.Admin
	)

	if err := nc.DB.Where("follow_up_date IS NOT NULL").Find(&leads).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load leads", err)
	}
	if err := nc.DB.Find(&admins).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load admins", err)
	}

	generated := nc.Sweeper.SweepFollowUps(c.Context(), leads, admins)
	if len(generated) > 0 {
		if err := nc.DB.Create(&generated).Error; err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to persist notifications", err)
		}
	}

	nc.Logger.Printf("Follow-up sweep generated %d notifications", len(generated))
	return c.JSON(utils.SuccessResponse(fiber.Map{
		"generated":     len(generated),
		"notifications": generated,
	}))
}

// SendNotification dispatches a Pending Email notification to its
// recipient's address and records the outcome as Sent or Failed.
// Non-email channels have no delivery integration yet and are rejected.
func (nc *NotificationController) SendNotification(c *fiber.Ctx) error {
	var notification models.Notification
	if err := nc.DB.First(&notification, c.Params("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Notification not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch notification", err)
	}

	if notification.Status != models.StatusPending {
		return utils.ErrorResponse(c, fiber.StatusConflict, "Notification is not pending", nil)
	}
	if notification.Type != models.NotificationEmail {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Only email notifications can be dispatched", nil)
	}
	if nc.Mailer == nil {
		return utils.ErrorResponse(c, fiber.StatusServiceUnavailable, "Email dispatch is not configured", nil)
	}

	var admin models.Admin
	if err := nc.DB.First(&admin, notification.Recipient).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Recipient admin not found", nil)
	}
	if admin.Email == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Recipient admin has no email address", nil)
	}

	status := models.StatusSent
	if err := nc.Mailer.Send(admin.Email, "Contract renewal reminder", notification.Message); err != nil {
		nc.Logger.Printf("Failed to dispatch notification %d to %s: %v", notification.ID, admin.Email, err)
		status = models.StatusFailed
	}

	if err := nc.DB.Model(&notification).Update("status", status).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to record dispatch outcome", err)
	}

	if status == models.StatusFailed {
		return utils.ErrorResponse(c, fiber.StatusBadGateway, "Notification dispatch failed", nil)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Notification sent successfully.",
		"data":    notification,
	})
}

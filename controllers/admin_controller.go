package controller

import (
	"log"

	"adboard/models"
	"adboard/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AdminController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewAdminController(db *gorm.DB, logger *log.Logger) *AdminController {
	return &AdminController{
		DB:     db,
		Logger: logger,
	}
}

// CreateAdmin registers a staff user
func (ac *AdminController) CreateAdmin(c *fiber.Ctx) error {
	var input struct {
		Name        string `json:"name" validate:"required,max=200"`
		Email       string `json:"email"`
		PhoneNumber string `json:"phone_number"`
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

	admin := models.Admin{
		Name:        input.Name,
		Email:       input.Email,
		PhoneNumber: input.PhoneNumber,
	}

	if err := ac.DB.Create(&admin).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create admin", err)
	}

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(admin))
}

// GetAdmins returns all staff users
func (ac *AdminController) GetAdmins(c *fiber.Ctx) error {
	var admins []models.Admin
	if err := ac.DB.Order("name").Find(&admins).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch admins", err)
	}
	return c.JSON(utils.SuccessResponse(admins))
}

// UpdateAdmin applies a sparse patch to an admin record
func (ac *AdminController) UpdateAdmin(c *fiber.Ctx) error {
	var input struct {
		Name        *string `json:"name" validate:"omitempty,max=200"`
		Email       *string `json:"email"`
		PhoneNumber *string `json:"phone_number"`
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

	var admin models.Admin
	if err := ac.DB.First(&admin, c.Params("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Admin not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch admin", err)
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Email != nil {
		updates["email"] = *input.Email
	}
	if input.PhoneNumber != nil {
		updates["phone_number"] = *input.PhoneNumber
	}

	if len(updates) > 0 {
		if err := ac.DB.Model(&admin).Updates(updates).Error; err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update admin", err)
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Admin updated successfully.",
		"data":    admin,
	})
}

// DeleteAdmin removes a staff user
func (ac *AdminController) DeleteAdmin(c *fiber.Ctx) error {
	var admin models.Admin
	if err := ac.DB.First(&admin, c.Params("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Admin not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch admin", err)
	}

	if err := ac.DB.Delete(&admin).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete admin", err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Admin deleted successfully.",
	})
}

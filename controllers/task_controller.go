package controller

import (
	"fmt"
	"log"
	"time"

	"adboard/models"
	"adboard/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type TaskController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewTaskController(db *gorm.DB, logger *log.Logger) *TaskController {
	return &TaskController{
		DB:     db,
		Logger: logger,
	}
}

// CreateTask creates a task and notifies the assignee
func (tc *TaskController) CreateTask(c *fiber.Ctx) error {
	var input struct {
		Title      string `json:"title" validate:"required,max=300"`
		DueDate    string `json:"due_date" validate:"required"`
		AssignedTo uint   `json:"assigned_to" validate:"required"`
		LeadID     *uint  `json:"lead_id"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	dueDate, err := parseDate(input.DueDate)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid due date", err)
	}

	var admin models.Admin
	if err := tc.DB.First(&admin, input.AssignedTo).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Assigned admin not found", nil)
	}

	if input.LeadID != nil {
		var lead models.Lead
		if err := tc.DB.First(&lead, *input.LeadID).Error; err != nil {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Lead not found", nil)
		}
	}

	task := models.Task{
		Title:      input.Title,
		DueDate:    dueDate,
		AssignedTo: input.AssignedTo,
	}
	if input.LeadID != nil {
		task.LeadID = *input.LeadID
	}

	err = tc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&task).Error; err != nil {
			return err
		}
		taskID := task.ID
		notification := models.Notification{
			Type: models.NotificationTask,
			Message: fmt.Sprintf("New task assigned to you: %q, due %s.",
				task.Title, task.DueDate.Format("02/01/2006")),
			Recipient:     admin.ID,
			Status:        models.StatusPending,
			SentAt:        time.Now(),
			RelatedTaskID: &taskID,
		}
		return tx.Create(&notification).Error
	})
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create task", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Task created successfully.",
		"data":    task,
	})
}

// GetTasks lists tasks with optional assignee and completion filters
func (tc *TaskController) GetTasks(c *fiber.Ctx) error {
	query := tc.DB.Model(&models.Task{})

	if assignedTo := c.Query("assigned_to"); assignedTo != "" {
		query = query.Where("assigned_to = ?", assignedTo)
	}
	if completed := c.Query("completed"); completed != "" {
		query = query.Where("completed = ?", completed == "true")
	}
	if leadID := c.Query("lead_id"); leadID != "" {
		query = query.Where("lead_id = ?", leadID)
	}

	var tasks []models.Task
	if err := query.Order("due_date").Find(&tasks).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch tasks", err)
	}

	return c.JSON(utils.SuccessResponse(tasks))
}

// UpdateTask applies a sparse patch to a task
func (tc *TaskController) UpdateTask(c *fiber.Ctx) error {
	var input struct {
		Title     *string `json:"title" validate:"omitempty,max=300"`
		DueDate   *string `json:"due_date"`
		Completed *bool   `json:"completed"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	var task models.Task
	if err := tc.DB.First(&task, c.Params("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Task not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch task", err)
	}

	updates := map[string]interface{}{}
	if input.Title != nil {
		updates["title"] = *input.Title
	}
	if input.DueDate != nil {
		dueDate, err := parseDate(*input.DueDate)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid due date", err)
		}
		updates["due_date"] = dueDate
	}
	if input.Completed != nil {
		updates["completed"] = *input.Completed
	}

	if len(updates) > 0 {
		if err := tc.DB.Model(&task).Updates(updates).Error; err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update task", err)
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Task updated successfully.",
		"data":    task,
	})
}

// DeleteTask removes a task
func (tc *TaskController) DeleteTask(c *fiber.Ctx) error {
	var task models.Task
	if err := tc.DB.First(&task, c.Params("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Task not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch task", err)
	}

	if err := tc.DB.Delete(&task).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete task", err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Task deleted successfully.",
	})
}

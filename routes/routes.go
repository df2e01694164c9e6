package routes

import (
	"log"
	"os"
	"strconv"

	controller "adboard/controllers"
	"adboard/middleware"
	"adboard/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Dependencies carries the shared services the route handlers need.
type Dependencies struct {
	DB       *gorm.DB
	Sweeper  *utils.ExpirySweeper
	Mailer   *utils.NotificationMailer
	Pipeline *utils.MediaPipeline
	Storage  utils.ObjectStorage
	MediaLog *logrus.Logger
}

func SetupAPIRoutes(app *fiber.App, deps Dependencies) {
	db := deps.DB

	screenController := controller.NewScreenController(db, log.New(os.Stdout, "SCREEN: ", log.LstdFlags))
	leadController := controller.NewLeadController(db, log.New(os.Stdout, "LEAD: ", log.LstdFlags))
	campaignController := controller.NewCampaignController(db, log.New(os.Stdout, "CAMPAIGN: ", log.LstdFlags))
	adminController := controller.NewAdminController(db, log.New(os.Stdout, "ADMIN: ", log.LstdFlags))
	accountController := controller.NewAccountController(db, log.New(os.Stdout, "ACCOUNT: ", log.LstdFlags))
	taskController := controller.NewTaskController(db, log.New(os.Stdout, "TASK: ", log.LstdFlags))
	notificationController := controller.NewNotificationController(db, deps.Sweeper, deps.Mailer, log.New(os.Stdout, "NOTIFY: ", log.LstdFlags))
	reminderController := controller.NewReminderController(db, log.New(os.Stdout, "REMINDER: ", log.LstdFlags))
	dashboardController := controller.NewDashboardController(db, log.New(os.Stdout, "DASHBOARD: ", log.LstdFlags))

	progressHub := controller.NewProgressHub()
	mediaController := controller.NewMediaController(db, deps.Pipeline, deps.Storage, progressHub, deps.MediaLog)

	// API group with request logging
	api := app.Group("/api/v1", logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// Dashboard routes
	api.Get("/dashboard", dashboardController.GetDashboard)

	// Screen routes
	screen := api.Group("/screens")
	screen.Post("/", screenController.CreateScreen)
	screen.Get("/", screenController.GetScreens)
	screen.Get("/estimate-price", screenController.EstimatePrice)
	screen.Get("/:id", screenController.GetScreen)
	screen.Put("/:id", screenController.UpdateScreen)
	screen.Delete("/:id", screenController.DeleteScreen)

	// Lead routes
	lead := api.Group("/leads")
	lead.Post("/", leadController.CreateLead)
	lead.Get("/", leadController.GetLeads)
	lead.Get("/:id", leadController.GetLead)
	lead.Put("/:id", leadController.UpdateLead)
	lead.Delete("/:id", leadController.DeleteLead)

	// Campaign routes
	campaign := api.Group("/campaigns")
	campaign.Post("/", campaignController.CreateCampaign)
	campaign.Get("/", campaignController.GetCampaigns)
	campaign.Post("/check-compatibility", campaignController.CheckCompatibility)
	campaign.Get("/:id", campaignController.GetCampaign)
	campaign.Put("/:id", campaignController.UpdateCampaign)
	campaign.Delete("/:id", campaignController.DeleteCampaign)

	// Media routes with upload rate limiting
	campaign.Post("/:id/media", middleware.UploadRateLimiter(), mediaController.UploadCampaignMedia)
	campaign.Delete("/:id/media", mediaController.DeleteCampaignMedia)

	// WebSocket route for upload progress
	app.Get("/api/v1/campaigns/:id/media/progress", websocket.New(func(c *websocket.Conn) {
		id, err := strconv.ParseUint(c.Params("id"), 10, 32)
		if err != nil {
			c.Close()
			return
		}
		progressHub.Handler(uint(id))(c)
	}))

	// Admin routes
	admin := api.Group("/admins")
	admin.Post("/", adminController.CreateAdmin)
	admin.Get("/", adminController.GetAdmins)
	admin.Put("/:id", adminController.UpdateAdmin)
	admin.Delete("/:id", adminController.DeleteAdmin)

	// Account routes
	account := api.Group("/accounts")
	account.Post("/", accountController.CreateAccountEntry)
	account.Get("/", accountController.GetAccountEntries)
	account.Put("/:id", accountController.UpdateAccountEntry)
	account.Delete("/:id", accountController.DeleteAccountEntry)

	// Task routes
	task := api.Group("/tasks")
	task.Post("/", taskController.CreateTask)
	task.Get("/", taskController.GetTasks)
	task.Put("/:id", taskController.UpdateTask)
	task.Delete("/:id", taskController.DeleteTask)

	// Notification routes
	notification := api.Group("/notifications")
	notification.Get("/", notificationController.GetNotifications)
	notification.Post("/generate-expiry", notificationController.GenerateExpiryNotifications)
	notification.Post("/generate-followups", notificationController.GenerateFollowUpNotifications)
	notification.Post("/:id/send", notificationController.SendNotification)
	notification.Put("/:id", notificationController.UpdateNotificationStatus)
	notification.Delete("/:id", notificationController.DeleteNotification)

	// Reminder routes
	reminder := api.Group("/reminders")
	reminder.Post("/", reminderController.CreateReminder)
	reminder.Get("/", reminderController.GetReminders)
	reminder.Delete("/:id", reminderController.DeleteReminder)

	log.Println("API routes initialized successfully")
}

func SetupRoutes(app *fiber.App, deps Dependencies) {
	// Setup health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Setup API routes
	SetupAPIRoutes(app, deps)

	// Setup 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "Not Found",
			"message": "The requested resource was not found",
		})
	})
}

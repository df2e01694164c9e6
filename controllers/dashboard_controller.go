package controller

import (
	"log"
	"time"

	"adboard/models"
	"adboard/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type DashboardController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewDashboardController(db *gorm.DB, logger *log.Logger) *DashboardController {
	return &DashboardController{
		DB:     db,
		Logger: logger,
	}
}

// GetDashboard assembles the console landing page numbers: campaign
// lifecycle counts, lead pipeline counts, pending tasks, and the
// income/expense totals from the books.
func (dc *DashboardController) GetDashboard(c *fiber.Ctx) error {
	now := time.Now()

	var totalScreens, totalLeads int64
	if err := dc.DB.Model(&models.Screen{}).Count(&totalScreens).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to count screens", err)
	}
	if err := dc.DB.Model(&models.Lead{}).Count(&totalLeads).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to count leads", err)
	}

	var activeCampaigns, expiredCampaigns, upcomingCampaigns int64
	if err := dc.DB.Model(&models.Campaign{}).
		Where("start_date <= ? AND end_date >= ?", now, now).
		Count(&activeCampaigns).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to count campaigns", err)
	}
	if err := dc.DB.Model(&models.Campaign{}).
		Where("end_date < ?", now).
		Count(&expiredCampaigns).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to count campaigns", err)
	}
	if err := dc.DB.Model(&models.Campaign{}).
		Where("start_date > ?", now).
		Count(&upcomingCampaigns).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to count campaigns", err)
	}

	var convertedLeads, pendingTasks int64
	if err := dc.DB.Model(&models.Lead{}).
		Where("status = ?", models.LeadConverted).
		Count(&convertedLeads).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to count leads", err)
	}
	if err := dc.DB.Model(&models.Task{}).
		Where("completed = ?", false).
		Count(&pendingTasks).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to count tasks", err)
	}

	var totalIncome, totalExpense float64
	if err := dc.DB.Model(&models.AccountEntry{}).
		Where("entry_type = ?", models.EntryIncome).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&totalIncome).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to sum income", err)
	}
	if err := dc.DB.Model(&models.AccountEntry{}).
		Where("entry_type = ?", models.EntryExpense).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&totalExpense).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to sum expenses", err)
	}

	var recentCampaigns []models.Campaign
	if err := dc.DB.Preload("Lead").
		Order("created_at DESC").
		Limit(5).
		Find(&recentCampaigns).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch recent campaigns", err)
	}

	return c.JSON(utils.SuccessResponse(fiber.Map{
		"total_screens":      totalScreens,
		"total_leads":        totalLeads,
		"converted_leads":    convertedLeads,
		"active_campaigns":   activeCampaigns,
		"expired_campaigns":  expiredCampaigns,
		"upcoming_campaigns": upcomingCampaigns,
		"pending_tasks":      pendingTasks,
		"total_income":       totalIncome,
		"total_expense":      totalExpense,
		"net_balance":        totalIncome - totalExpense,
		"recent_campaigns":   recentCampaigns,
	}))
}

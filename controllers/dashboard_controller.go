package controller

import (
	"log"
	"time"

	"estatedesk/models"
	"estatedesk/utils"

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

type DashboardStats struct {
	TotalProperties int64            `json:"total_properties"`
	TotalViews      int64            `json:"total_views"`
	TotalQueries    int64            `json:"total_queries"`
	TotalLeads      int64            `json:"total_leads"`
	LeadsByStatus   map[string]int64 `json:"leads_by_status"`
	QueriesByStatus map[string]int64 `json:"queries_by_status"`
	FollowUpsDue    int64            `json:"follow_ups_due"`
}

type statusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// GetDashboardStats returns the summary cards for the backoffice landing page
func (dc *DashboardController) GetDashboardStats(c *fiber.Ctx) error {
	var stats DashboardStats

	dc.DB.Model(&models.Property{}).Count(&stats.TotalProperties)
	dc.DB.Model(&models.PageView{}).Count(&stats.TotalViews)
	dc.DB.Model(&models.Query{}).Count(&stats.TotalQueries)
	dc.DB.Model(&models.Lead{}).Count(&stats.TotalLeads)

	var leadCounts []statusCount
	if err := dc.DB.Model(&models.Lead{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&leadCounts).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to aggregate leads", err)
	}
	stats.LeadsByStatus = map[string]int64{}
	for _, row := range leadCounts {
		stats.LeadsByStatus[row.Status] = row.Count
	}

	var queryCounts []statusCount
	if err := dc.DB.Model(&models.Query{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&queryCounts).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to aggregate enquiries", err)
	}
	stats.QueriesByStatus = map[string]int64{}
	for _, row := range queryCounts {
		stats.QueriesByStatus[row.Status] = row.Count
	}

	dc.DB.Model(&models.FollowUp{}).
		Where("completed_at IS NULL AND due_at <= ?", time.Now().Add(utils.AlertWindow)).
		Count(&stats.FollowUpsDue)

	return c.JSON(utils.SuccessResponse(stats))
}

type dailyViews struct {
	Day   string `json:"day"`
	Count int64  `json:"count"`
}

// GetPageViewsOverTime returns page views grouped per day for the given range
func (dc *DashboardController) GetPageViewsOverTime(c *fiber.Ctx) error {
	timeFrame := c.Query("time_frame", "week") // day, week, month

	now := time.Now()
	var startTime time.Time
	switch timeFrame {
	case "day":
		startTime = now.Add(-24 * time.Hour)
	case "month":
		startTime = now.Add(-30 * 24 * time.Hour)
	default:
		startTime = now.Add(-7 * 24 * time.Hour)
	}

	var rows []dailyViews
	if err := dc.DB.Model(&models.PageView{}).
		Select("DATE(created_at) as day, COUNT(*) as count").
		Where("created_at BETWEEN ? AND ?", startTime, now).
		Group("DATE(created_at)").
		Order("day ASC").
		Scan(&rows).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to aggregate page views", err)
	}

	return c.JSON(utils.SuccessResponse(rows))
}

// GetTopProperties returns the most viewed listings
func (dc *DashboardController) GetTopProperties(c *fiber.Ctx) error {
	var properties []models.Property
	if err := dc.DB.Order("view_count DESC").Limit(10).Find(&properties).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch top properties", err)
	}
	return c.JSON(utils.SuccessResponse(properties))
}

// GetRecentLeads returns the latest leads for the dashboard feed
func (dc *DashboardController) GetRecentLeads(c *fiber.Ctx) error {
	var leads []models.Lead
	if err := dc.DB.Order("created_at DESC").Limit(10).
		Preload("AssignedTo").Find(&leads).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch recent leads", err)
	}
	return c.JSON(utils.SuccessResponse(leads))
}

package controller

import (
	"errors"
	"log"
	"strconv"

	"estatedesk/models"
	"estatedesk/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type NotificationController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewNotificationController(db *gorm.DB, logger *log.Logger) *NotificationController {
	return &NotificationController{
		DB:     db,
		Logger: logger,
	}
}

// GetNotifications returns the current user's notifications, newest first
func (nc *NotificationController) GetNotifications(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if limit > 100 {
		limit = 100
	}
	offset := (page - 1) * limit

	query := nc.DB.Model(&models.Notification{}).Where("recipient_id = ?", user.ID)

	if c.Query("unread") == "true" {
		query = query.Where("read = ?", false)
	}
	if t := c.Query("type"); t != "" {
		query = query.Where("type = ?", t)
	}

	var total int64
	query.Count(&total)

	var notifications []models.Notification
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).
		Find(&notifications).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch notifications", err)
	}

	return c.JSON(utils.PaginatedResponse{
		Data:  notifications,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// GetUnreadCount returns how many unread notifications the user has
func (nc *NotificationController) GetUnreadCount(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var count int64
	if err := nc.DB.Model(&models.Notification{}).
		Where("recipient_id = ? AND read = ?", user.ID, false).
		Count(&count).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to count notifications", err)
	}

	return c.JSON(utils.SuccessResponse(fiber.Map{"unread": count}))
}

// MarkRead marks one of the user's notifications as read
func (nc *NotificationController) MarkRead(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var notification models.Notification
	err := nc.DB.Where("id = ? AND recipient_id = ?", c.Params("id"), user.ID).
		First(&notification).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Notification not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch notification", err)
	}

	if !notification.Read {
		if err := nc.DB.Model(&notification).Update("read", true).Error; err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update notification", err)
		}
	}

	return c.JSON(utils.SuccessResponse(notification))
}

// MarkAllRead marks every unread notification of the user as read
func (nc *NotificationController) MarkAllRead(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	result := nc.DB.Model(&models.Notification{}).
		Where("recipient_id = ? AND read = ?", user.ID, false).
		Update("read", true)
	if result.Error != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update notifications", result.Error)
	}

	return c.JSON(utils.SuccessResponse(fiber.Map{"updated": result.RowsAffected}))
}

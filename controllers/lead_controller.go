package controller

import (
	"errors"
	"log"
	"strconv"
	"strings"
	"time"

	"estatedesk/models"
	"estatedesk/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type LeadController struct {
	DB        *gorm.DB
	Scheduler *utils.FollowUpScheduler
	Notifier  *utils.Notifier
	Logger    *log.Logger
}

func NewLeadController(db *gorm.DB, scheduler *utils.FollowUpScheduler, notifier *utils.Notifier, logger *log.Logger) *LeadController {
	return &LeadController{
		DB:        db,
		Scheduler: scheduler,
		Notifier:  notifier,
		Logger:    logger,
	}
}

type createLeadInput struct {
	Name         string `json:"name" validate:"required,max=200"`
	Email        string `json:"email" validate:"required,email"`
	Phone        string `json:"phone" validate:"required"`
	Source       string `json:"source"`
	PropertyID   *uint  `json:"property_id"`
	PropertySlug string `json:"property_slug"`
	PropertyName string `json:"property_name"`
	Priority     string `json:"priority" validate:"omitempty,oneof=low medium high"`
	AssignedToID *uint  `json:"assigned_to_id"`
	Notes        string `json:"notes"`
	ContactMode  string `json:"contact_mode"`
	Budget       string `json:"budget"`
	Area         string `json:"area"`
}

// CreateLead creates a lead manually (admin action). The first follow-up is
// auto-scheduled just like leads spawned from the contact form.
func (lc *LeadController) CreateLead(c *fiber.Ctx) error {
	var input createLeadInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	phone, err := utils.NormalizePhone(input.Phone)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid phone number", err)
	}

	source := input.Source
	if source == "" {
		source = models.LeadSourceManual
	}
	priority := input.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}

	lead := models.Lead{
		Name:         strings.TrimSpace(input.Name),
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:        phone,
		Source:       source,
		PropertyID:   input.PropertyID,
		PropertySlug: input.PropertySlug,
		PropertyName: input.PropertyName,
		Priority:     priority,
		AssignedToID: input.AssignedToID,
		Notes:        input.Notes,
		ContactMode:  input.ContactMode,
		Budget:       input.Budget,
		Area:         input.Area,
	}
	if err := lc.Scheduler.CreateLeadWithFirstFollowUp(&lead); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create lead", err)
	}

	go lc.Notifier.NotifyNewLead(&lead)

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(lead))
}

// GetLeads returns paginated leads with filters
func (lc *LeadController) GetLeads(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if limit > 100 {
		limit = 100
	}
	offset := (page - 1) * limit

	query := lc.DB.Model(&models.Lead{})

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if source := c.Query("source"); source != "" {
		query = query.Where("source = ?", source)
	}
	if priority := c.Query("priority"); priority != "" {
		query = query.Where("priority = ?", priority)
	}
	if assigned := c.Query("assigned_to"); assigned != "" {
		if assigned == utils.AssignedUnassigned {
			query = query.Where("assigned_to_id IS NULL")
		} else {
			query = query.Where("assigned_to_id = ?", utils.ParseUint(assigned))
		}
	}
	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("name LIKE ? OR email LIKE ? OR phone LIKE ?", like, like, like)
	}

	var total int64
	query.Count(&total)

	var leads []models.Lead
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).
		Preload("AssignedTo").Find(&leads).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch leads", err)
	}

	return c.JSON(utils.PaginatedResponse{
		Data:  leads,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// GetLead returns a single lead with its follow-ups
func (lc *LeadController) GetLead(c *fiber.Ctx) error {
	var lead models.Lead
	err := lc.DB.Preload("AssignedTo").
		Preload("FollowUps", func(db *gorm.DB) *gorm.DB {
			return db.Order("due_at ASC")
		}).
		First(&lead, c.Params("id")).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Lead not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch lead", err)
	}
	return c.JSON(utils.SuccessResponse(lead))
}

type updateLeadInput struct {
	Status       *string `json:"status" validate:"omitempty,oneof=new contacted qualified proposal negotiation won lost nurturing"`
	Priority     *string `json:"priority" validate:"omitempty,oneof=low medium high"`
	AssignedToID *uint   `json:"assigned_to_id"`
	Notes        *string `json:"notes"`
	ContactMode  *string `json:"contact_mode"`
	Budget       *string `json:"budget"`
	Area         *string `json:"area"`
}

// UpdateLead applies status/assignment/notes updates to a lead
func (lc *LeadController) UpdateLead(c *fiber.Ctx) error {
	var lead models.Lead
	if err := lc.DB.First(&lead, c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Lead not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch lead", err)
	}

	var input updateLeadInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	updates := map[string]interface{}{}
	if input.Status != nil {
		updates["status"] = *input.Status
	}
	if input.Priority != nil {
		updates["priority"] = *input.Priority
	}
	if input.AssignedToID != nil {
		updates["assigned_to_id"] = *input.AssignedToID
	}
	if input.Notes != nil {
		updates["notes"] = *input.Notes
	}
	if input.ContactMode != nil {
		updates["contact_mode"] = *input.ContactMode
	}
	if input.Budget != nil {
		updates["budget"] = *input.Budget
	}
	if input.Area != nil {
		updates["area"] = *input.Area
	}

	if len(updates) > 0 {
		if err := lc.DB.Model(&lead).Updates(updates).Error; err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update lead", err)
		}
	}

	return c.JSON(utils.SuccessResponse(lead))
}

// DeleteLead removes a lead and all of its follow-ups
func (lc *LeadController) DeleteLead(c *fiber.Ctx) error {
	leadID := utils.ParseUint(c.Params("id"))

	if err := lc.Scheduler.DeleteLead(leadID); err != nil {
		if errors.Is(err, utils.ErrLeadNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Lead not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete lead", err)
	}

	return c.JSON(utils.SuccessResponse(fiber.Map{"deleted": leadID}))
}

// GetLeadAlerts returns overdue and due-soon leads plus the raw follow-up
// tasks inside the 24-hour window
func (lc *LeadController) GetLeadAlerts(c *fiber.Ctx) error {
	alerts, err := lc.Scheduler.ListAlerts(c.Query("assigned_to"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch alerts", err)
	}
	return c.JSON(utils.SuccessResponse(alerts))
}

// SendDueReminders triggers a reminder dispatch pass over every follow-up due
// within 24 hours that has not been reminded yet
func (lc *LeadController) SendDueReminders(c *fiber.Ctx) error {
	sent, err := lc.Scheduler.SendDueReminders()
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to send reminders", err)
	}
	return c.JSON(utils.SuccessResponse(fiber.Map{"sent": sent}))
}

type addFollowUpInput struct {
	DueAt time.Time `json:"due_at"`
	Type  string    `json:"type" validate:"omitempty,oneof=call email meeting whatsapp site_visit document other"`
	Title string    `json:"title"`
	Notes string    `json:"notes"`
}

// AddFollowUp schedules an additional follow-up task under a lead
func (lc *LeadController) AddFollowUp(c *fiber.Ctx) error {
	leadID := utils.ParseUint(c.Params("id"))

	var input addFollowUpInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	followUp, err := lc.Scheduler.AddFollowUp(leadID, utils.AddFollowUpInput{
		DueAt: input.DueAt,
		Type:  input.Type,
		Title: strings.TrimSpace(input.Title),
		Notes: input.Notes,
	})
	if err != nil {
		var vErr *utils.ValidationError
		switch {
		case errors.Is(err, utils.ErrLeadNotFound):
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Lead not found", nil)
		case errors.As(err, &vErr):
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", vErr)
		default:
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to add follow-up", err)
		}
	}

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(followUp))
}

// CompleteFollowUp marks a follow-up done on behalf of the current user
func (lc *LeadController) CompleteFollowUp(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	leadID := utils.ParseUint(c.Params("id"))
	followUpID := utils.ParseUint(c.Params("followUpId"))

	followUp, err := lc.Scheduler.CompleteFollowUp(leadID, followUpID, user.ID)
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrFollowUpNotFound):
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Follow-up not found", nil)
		case errors.Is(err, utils.ErrFollowUpCompleted):
			return utils.ErrorResponse(c, fiber.StatusConflict, "Follow-up is already completed", nil)
		default:
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to complete follow-up", err)
		}
	}

	return c.JSON(utils.SuccessResponse(followUp))
}

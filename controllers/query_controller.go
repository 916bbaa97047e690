package controller

import (
	"errors"
	"log"
	"strconv"
	"strings"

	"estatedesk/models"
	"estatedesk/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type QueryController struct {
	DB        *gorm.DB
	Scheduler *utils.FollowUpScheduler
	Notifier  *utils.Notifier
	Mailer    *utils.Mailer
	Logger    *log.Logger
}

func NewQueryController(db *gorm.DB, scheduler *utils.FollowUpScheduler, notifier *utils.Notifier, mailer *utils.Mailer, logger *log.Logger) *QueryController {
	return &QueryController{
		DB:        db,
		Scheduler: scheduler,
		Notifier:  notifier,
		Mailer:    mailer,
		Logger:    logger,
	}
}

type createQueryInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message"`
	Source  string `json:"source"`

	// Property context: any of these makes the enquiry spawn a lead
	InterestedProperty string `json:"interested_property"`
	PropertySlug       string `json:"property_slug"`
	PropertyID         string `json:"property_id"`
	PropertyName       string `json:"property_name"`
}

// CreateQuery is the public contact-intake endpoint. Every valid submission
// stores a Query; submissions carrying property context additionally spawn a
// Lead with its first follow-up scheduled 24 hours out. Admin fan-out and the
// confirmation email are detached from the response path.
func (qc *QueryController) CreateQuery(c *fiber.Ctx) error {
	var input createQueryInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Message = strings.TrimSpace(input.Message)

	if input.Name == "" || input.Email == "" || input.Message == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "name, email and message are required", nil)
	}

	phone, err := utils.NormalizePhone(input.Phone)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid phone number", err)
	}

	source := input.Source
	if source == "" {
		source = models.QuerySourceWebsite
	}

	query := models.Query{
		Name:    input.Name,
		Email:   input.Email,
		Phone:   phone,
		Subject: strings.TrimSpace(input.Subject),
		Message: input.Message,
		Source:  source,
	}
	if err := qc.DB.Create(&query).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to save enquiry", err)
	}

	propertyID, propertySlug, propertyName := qc.resolvePropertyContext(&input)

	// No property context: the enquiry stays a bare query
	if propertyID == nil && propertySlug == "" && propertyName == "" {
		go qc.Notifier.NotifyNewEnquiry(&query)
		go qc.sendConfirmation(&query, "")
		return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(query))
	}

	// Force the lead source to property_detail; mobile_app is preserved
	leadSource := models.LeadSourcePropertyDetail
	if source == models.QuerySourceMobileApp {
		leadSource = models.LeadSourceMobileApp
	}

	lead := models.Lead{
		Name:         query.Name,
		Email:        query.Email,
		Phone:        query.Phone,
		Source:       leadSource,
		QueryID:      &query.ID,
		PropertyID:   propertyID,
		PropertySlug: propertySlug,
		PropertyName: propertyName,
		Notes:        query.Message,
	}
	if err := qc.Scheduler.CreateLeadWithFirstFollowUp(&lead); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create lead", err)
	}

	go qc.Notifier.NotifyNewLead(&lead)
	go qc.sendConfirmation(&query, propertyName)

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(fiber.Map{
		"query": query,
		"lead":  lead,
	}))
}

// resolvePropertyContext decides whether the enquiry names a property: a
// slug, a parseable id, or a property name (given directly or resolved from
// the store). Lookups that miss fall back to whatever the submitter typed so
// the lead still records the interest.
func (qc *QueryController) resolvePropertyContext(input *createQueryInput) (*uint, string, string) {
	name := strings.TrimSpace(input.PropertyName)
	if name == "" {
		name = strings.TrimSpace(input.InterestedProperty)
	}

	slug := strings.TrimSpace(input.PropertySlug)
	if slug != "" {
		var property models.Property
		if err := qc.DB.Where("slug = ?", slug).First(&property).Error; err == nil {
			return utils.Pointer(property.ID), slug, property.Title
		}
		return nil, slug, name
	}

	if input.PropertyID != "" {
		id, err := strconv.ParseUint(input.PropertyID, 10, 32)
		if err == nil && id > 0 {
			var property models.Property
			if err := qc.DB.First(&property, uint(id)).Error; err == nil {
				return utils.Pointer(property.ID), property.Slug, property.Title
			}
			return utils.Pointer(uint(id)), "", name
		}
	}

	return nil, "", name
}

func (qc *QueryController) sendConfirmation(query *models.Query, propertyName string) {
	if err := qc.Mailer.SendEnquiryConfirmation(query.Email, query.Name, query.Message, propertyName); err != nil {
		qc.Logger.Printf("Confirmation email for query %d failed: %v", query.ID, err)
	}
}

// GetQueries returns paginated enquiries with filters
func (qc *QueryController) GetQueries(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if limit > 100 {
		limit = 100
	}
	offset := (page - 1) * limit

	query := qc.DB.Model(&models.Query{})

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if source := c.Query("source"); source != "" {
		query = query.Where("source = ?", source)
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

	var queries []models.Query
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).
		Preload("AssignedTo").Find(&queries).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch enquiries", err)
	}

	return c.JSON(utils.PaginatedResponse{
		Data:  queries,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// GetQuery returns a single enquiry by ID
func (qc *QueryController) GetQuery(c *fiber.Ctx) error {
	var query models.Query
	if err := qc.DB.Preload("AssignedTo").First(&query, c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Enquiry not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch enquiry", err)
	}
	return c.JSON(utils.SuccessResponse(query))
}

type updateQueryInput struct {
	Status       *string `json:"status" validate:"omitempty,oneof=new in_progress resolved closed"`
	Priority     *string `json:"priority" validate:"omitempty,oneof=low medium high"`
	Notes        *string `json:"notes"`
	AssignedToID *uint   `json:"assigned_to_id"`
	Tags         *string `json:"tags"`
}

// UpdateQuery applies admin review actions to an enquiry
func (qc *QueryController) UpdateQuery(c *fiber.Ctx) error {
	var query models.Query
	if err := qc.DB.First(&query, c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Enquiry not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch enquiry", err)
	}

	var input updateQueryInput
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
	if input.Notes != nil {
		updates["notes"] = *input.Notes
	}
	if input.AssignedToID != nil {
		updates["assigned_to_id"] = *input.AssignedToID
	}
	if input.Tags != nil {
		updates["tags"] = *input.Tags
	}

	if len(updates) > 0 {
		if err := qc.DB.Model(&query).Updates(updates).Error; err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update enquiry", err)
		}
	}

	return c.JSON(utils.SuccessResponse(query))
}

package controller

import (
	"errors"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"

	"estatedesk/models"
	"estatedesk/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type PropertyController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewPropertyController(db *gorm.DB, logger *log.Logger) *PropertyController {
	return &PropertyController{
		DB:     db,
		Logger: logger,
	}
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = slugPattern.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

type propertyInput struct {
	Title       string  `json:"title" validate:"required,max=200"`
	Slug        string  `json:"slug"`
	Description string  `json:"description"`
	Type        string  `json:"type"`
	Status      string  `json:"status" validate:"omitempty,oneof=available reserved sold rented hidden"`
	Price       float64 `json:"price" validate:"omitempty,gte=0"`
	Area        float64 `json:"area" validate:"omitempty,gte=0"`
	City        string  `json:"city"`
	Address     string  `json:"address"`
	Bedrooms    int     `json:"bedrooms" validate:"omitempty,gte=0"`
	Bathrooms   int     `json:"bathrooms" validate:"omitempty,gte=0"`
	ImageURL    string  `json:"image_url"`
	IsFeatured  bool    `json:"is_featured"`
}

// CreateProperty creates a new listing. The slug is derived from the title
// when not supplied, with a numeric suffix on collision.
func (pc *PropertyController) CreateProperty(c *fiber.Ctx) error {
	var input propertyInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	slug := input.Slug
	if slug == "" {
		slug = slugify(input.Title)
	}
	if slug == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Could not derive a slug from the title", nil)
	}

	// Deduplicate the slug
	base := slug
	for i := 2; ; i++ {
		var count int64
		pc.DB.Model(&models.Property{}).Where("slug = ?", slug).Count(&count)
		if count == 0 {
			break
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}

	status := input.Status
	if status == "" {
		status = models.PropertyStatusAvailable
	}

	property := models.Property{
		Title:       input.Title,
		Slug:        slug,
		Description: input.Description,
		Type:        input.Type,
		Status:      status,
		Price:       input.Price,
		Area:        input.Area,
		City:        input.City,
		Address:     input.Address,
		Bedrooms:    input.Bedrooms,
		Bathrooms:   input.Bathrooms,
		ImageURL:    input.ImageURL,
		IsFeatured:  input.IsFeatured,
	}
	if err := pc.DB.Create(&property).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create property", err)
	}

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(property))
}

// GetProperties returns paginated listings with filters (public)
func (pc *PropertyController) GetProperties(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if limit > 100 {
		limit = 100
	}
	offset := (page - 1) * limit

	query := pc.DB.Model(&models.Property{})

	if city := c.Query("city"); city != "" {
		query = query.Where("city = ?", city)
	}
	if pType := c.Query("type"); pType != "" {
		query = query.Where("type = ?", pType)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	} else {
		query = query.Where("status <> ?", models.PropertyStatusHidden)
	}
	if minPrice := c.Query("min_price"); minPrice != "" {
		if v, err := strconv.ParseFloat(minPrice, 64); err == nil {
			query = query.Where("price >= ?", v)
		}
	}
	if maxPrice := c.Query("max_price"); maxPrice != "" {
		if v, err := strconv.ParseFloat(maxPrice, 64); err == nil {
			query = query.Where("price <= ?", v)
		}
	}
	if c.Query("featured") == "true" {
		query = query.Where("is_featured = ?", true)
	}

	var total int64
	query.Count(&total)

	var properties []models.Property
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).
		Find(&properties).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch properties", err)
	}

	return c.JSON(utils.PaginatedResponse{
		Data:  properties,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// GetPropertyBySlug returns one listing (public), bumping its view counter
// and recording a page view for the analytics dashboard
func (pc *PropertyController) GetPropertyBySlug(c *fiber.Ctx) error {
	slug := c.Params("slug")

	var property models.Property
	if err := pc.DB.Where("slug = ?", slug).First(&property).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Property not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch property", err)
	}

	if err := pc.DB.Model(&property).
		Update("view_count", gorm.Expr("view_count + ?", 1)).Error; err != nil {
		pc.Logger.Printf("Failed to bump view count for property %d: %v", property.ID, err)
	}

	pageView := models.PageView{
		Path:       c.Path(),
		PropertyID: &property.ID,
		Referrer:   c.Get("Referer"),
		VisitorIP:  c.IP(),
	}
	if err := pc.DB.Create(&pageView).Error; err != nil {
		pc.Logger.Printf("Failed to record page view: %v", err)
	}

	return c.JSON(utils.SuccessResponse(property))
}

// GetProperty returns one listing by ID (admin)
func (pc *PropertyController) GetProperty(c *fiber.Ctx) error {
	var property models.Property
	if err := pc.DB.First(&property, c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Property not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch property", err)
	}
	return c.JSON(utils.SuccessResponse(property))
}

// UpdateProperty updates listing details (admin)
func (pc *PropertyController) UpdateProperty(c *fiber.Ctx) error {
	var property models.Property
	if err := pc.DB.First(&property, c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Property not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch property", err)
	}

	var input propertyInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	updates := map[string]interface{}{
		"title":       input.Title,
		"description": input.Description,
		"type":        input.Type,
		"price":       input.Price,
		"area":        input.Area,
		"city":        input.City,
		"address":     input.Address,
		"bedrooms":    input.Bedrooms,
		"bathrooms":   input.Bathrooms,
		"image_url":   input.ImageURL,
		"is_featured": input.IsFeatured,
	}
	if input.Status != "" {
		updates["status"] = input.Status
	}

	if err := pc.DB.Model(&property).Updates(updates).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update property", err)
	}

	return c.JSON(utils.SuccessResponse(property))
}

// DeleteProperty removes a listing. Leads keep working because property data
// is denormalized onto them at creation time.
func (pc *PropertyController) DeleteProperty(c *fiber.Ctx) error {
	var property models.Property
	if err := pc.DB.First(&property, c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Property not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch property", err)
	}

	if err := pc.DB.Unscoped().Delete(&property).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete property", err)
	}

	return c.JSON(utils.SuccessResponse(fiber.Map{"deleted": property.ID}))
}

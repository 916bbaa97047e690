package models

import (
	"gorm.io/gorm"
)

// Property listing statuses. hidden keeps a listing out of public results
// without deleting it.
const (
	PropertyStatusAvailable = "available"
	PropertyStatusReserved  = "reserved"
	PropertyStatusSold      = "sold"
	PropertyStatusRented    = "rented"
	PropertyStatusHidden    = "hidden"
)

// Property types
const (
	PropertyTypeApartment  = "apartment"
	PropertyTypeVilla      = "villa"
	PropertyTypePlot       = "plot"
	PropertyTypeCommercial = "commercial"
)

// Property represents a real-estate listing
type Property struct {
	gorm.Model
	Title       string `gorm:"not null" json:"title"`
	Slug        string `gorm:"not null;uniqueIndex" json:"slug"`
	Description string `gorm:"type:text" json:"description"`
	Type        string `gorm:"index" json:"type"`
	Status      string `gorm:"default:'available';index" json:"status"`

	Price     float64 `json:"price"`
	Area      float64 `json:"area"` // built-up area in square meters
	City      string  `gorm:"index" json:"city"`
	Address   string  `json:"address"`
	Bedrooms  int     `json:"bedrooms"`
	Bathrooms int     `json:"bathrooms"`
	ImageURL  string  `json:"image_url"`

	IsFeatured bool  `gorm:"default:false;index" json:"is_featured"`
	ViewCount  int64 `gorm:"default:0" json:"view_count"`
}

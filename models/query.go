package models

import (
	"gorm.io/gorm"
)

// Enquiry sources
const (
	QuerySourceWebsite   = "website"
	QuerySourceMobileApp = "mobile_app"
	QuerySourceOther     = "other"
)

// Enquiry review statuses
const (
	QueryStatusNew        = "new"
	QueryStatusInProgress = "in_progress"
	QueryStatusResolved   = "resolved"
	QueryStatusClosed     = "closed"
)

// Query is a raw contact-form enquiry. Every public submission stores one,
// whether or not it also spawns a lead.
type Query struct {
	gorm.Model
	Name    string `gorm:"not null" json:"name"`
	Email   string `gorm:"not null;index" json:"email"`
	Phone   string `gorm:"not null" json:"phone"`
	Subject string `json:"subject"`
	Message string `gorm:"type:text;not null" json:"message"`

	Source   string `gorm:"default:'website';index" json:"source"`
	Status   string `gorm:"default:'new';index" json:"status"`
	Priority string `gorm:"default:'medium'" json:"priority"`

	AssignedToID *uint  `gorm:"index" json:"assigned_to_id"`
	Notes        string `gorm:"type:text" json:"notes"`
	Tags         string `json:"tags"` // comma-separated labels

	AssignedTo *User `gorm:"foreignKey:AssignedToID" json:"assigned_to,omitempty"`
}

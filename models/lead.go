package models

import (
	"time"

	"gorm.io/gorm"
)

// Lead sources (superset of query sources)
const (
	LeadSourceWebsite        = "website"
	LeadSourceMobileApp      = "mobile_app"
	LeadSourcePropertyDetail = "property_detail"
	LeadSourceWhatsApp       = "whatsapp"
	LeadSourceReferral       = "referral"
	LeadSourceManual         = "manual"
	LeadSourceOther          = "other"
)

// Lead pipeline statuses. nurturing is a side-state, not part of the
// new -> ... -> won/lost progression.
const (
	LeadStatusNew         = "new"
	LeadStatusContacted   = "contacted"
	LeadStatusQualified   = "qualified"
	LeadStatusProposal    = "proposal"
	LeadStatusNegotiation = "negotiation"
	LeadStatusWon         = "won"
	LeadStatusLost        = "lost"
	LeadStatusNurturing   = "nurturing"
)

// Lead priorities
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// LeadStatuses lists every valid pipeline status
var LeadStatuses = []string{
	LeadStatusNew, LeadStatusContacted, LeadStatusQualified,
	LeadStatusProposal, LeadStatusNegotiation, LeadStatusWon,
	LeadStatusLost, LeadStatusNurturing,
}

// Lead represents a sales lead, usually spawned from an enquiry that carried
// property context. Property fields are denormalized so the lead survives
// deletion of the listing it came from.
type Lead struct {
	gorm.Model
	Name  string `gorm:"not null" json:"name"`
	Email string `gorm:"not null;index" json:"email"`
	Phone string `gorm:"not null" json:"phone"`

	Source  string `gorm:"default:'website';index" json:"source"`
	QueryID *uint  `gorm:"index" json:"query_id"` // one-way link to the originating enquiry

	PropertyID   *uint  `gorm:"index" json:"property_id"`
	PropertySlug string `json:"property_slug"`
	PropertyName string `json:"property_name"`

	Status       string `gorm:"default:'new';index" json:"status"`
	Priority     string `gorm:"default:'medium'" json:"priority"`
	AssignedToID *uint  `gorm:"index" json:"assigned_to_id"`
	Notes        string `gorm:"type:text" json:"notes"`

	// Cached pointer: always the earliest due_at among this lead's incomplete
	// follow-ups, or NULL when none remain. Maintained by the scheduler.
	NextFollowUpAt *time.Time `gorm:"index" json:"next_follow_up_at"`

	ContactMode string `json:"contact_mode"` // phone, email, whatsapp
	Budget      string `json:"budget"`
	Area        string `json:"area"` // area of interest, free text

	AssignedTo *User      `gorm:"foreignKey:AssignedToID" json:"assigned_to,omitempty"`
	FollowUps  []FollowUp `gorm:"foreignKey:LeadID" json:"follow_ups,omitempty"`
}

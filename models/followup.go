package models

import (
	"time"

	"gorm.io/gorm"
)

// Follow-up channels
const (
	FollowUpTypeCall      = "call"
	FollowUpTypeEmail     = "email"
	FollowUpTypeMeeting   = "meeting"
	FollowUpTypeWhatsApp  = "whatsapp"
	FollowUpTypeSiteVisit = "site_visit"
	FollowUpTypeDocument  = "document"
	FollowUpTypeOther     = "other"
)

// FollowUp is a scheduled task bound to exactly one lead. Completion is a
// one-way transition; EmailReminderSentAt is likewise set at most once so a
// due reminder is never dispatched twice for the same task.
type FollowUp struct {
	gorm.Model
	LeadID uint      `gorm:"not null;index" json:"lead_id"`
	DueAt  time.Time `gorm:"not null;index" json:"due_at"`
	Type   string    `gorm:"default:'call'" json:"type"`
	Title  string    `gorm:"not null" json:"title"`
	Notes  string    `gorm:"type:text" json:"notes"`

	CompletedAt   *time.Time `json:"completed_at"`
	CompletedByID *uint      `json:"completed_by_id"`

	EmailReminderSentAt *time.Time `json:"email_reminder_sent_at"`

	Lead        *Lead `gorm:"foreignKey:LeadID" json:"lead,omitempty"`
	CompletedBy *User `gorm:"foreignKey:CompletedByID" json:"completed_by,omitempty"`
}

// IsCompleted reports whether the follow-up has been marked done
func (f *FollowUp) IsCompleted() bool {
	return f.CompletedAt != nil
}

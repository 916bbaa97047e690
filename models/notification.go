package models

import (
	"gorm.io/gorm"
)

// Notification types
const (
	NotificationNewLead     = "new_lead"
	NotificationNewEnquiry  = "new_enquiry"
	NotificationFollowUpDue = "follow_up_due"
)

// Notification is an in-app message addressed to one specific user. Fan-out
// creates one row per recipient so each recipient's read state is independent.
// The correlation columns let the frontend deep-link to the related record.
type Notification struct {
	gorm.Model
	RecipientID uint   `gorm:"not null;index" json:"recipient_id"`
	Title       string `gorm:"not null" json:"title"`
	Message     string `gorm:"type:text" json:"message"`
	Type        string `gorm:"not null;index" json:"type"` // new_lead, new_enquiry, follow_up_due
	Read        bool   `gorm:"default:false;index" json:"read"`

	LeadID     *uint `json:"lead_id"`
	FollowUpID *uint `json:"follow_up_id"`
	QueryID    *uint `json:"query_id"`

	Recipient *User `gorm:"foreignKey:RecipientID" json:"recipient,omitempty"`
}

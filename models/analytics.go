package models

import (
	"time"
)

// PageView records a single public page read for the analytics dashboard.
// Rows are append-only; aggregation happens at query time.
type PageView struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Path       string    `gorm:"not null;index" json:"path"`
	PropertyID *uint     `gorm:"index" json:"property_id"`
	Referrer   string    `json:"referrer"`
	VisitorIP  string    `json:"visitor_ip"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

package models

import (
	"gorm.io/gorm"
)

// User roles
const (
	RoleAdmin = "admin"
	RoleAgent = "agent"
)

// User represents a backoffice account (admin or listing agent)
type User struct {
	gorm.Model
	Email        string `gorm:"not null;uniqueIndex" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	Name         string `gorm:"not null" json:"name"`
	Phone        string `json:"phone"`
	Role         string `gorm:"default:'agent';index" json:"role"` // admin, agent
	IsActive     bool   `gorm:"default:true" json:"is_active"`
	TokenVersion int    `gorm:"default:0" json:"-"`

	// Relations
	AssignedLeads   []Lead  `gorm:"foreignKey:AssignedToID" json:"assigned_leads,omitempty"`
	AssignedQueries []Query `gorm:"foreignKey:AssignedToID" json:"assigned_queries,omitempty"`
}

// IsAdmin reports whether the user carries the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

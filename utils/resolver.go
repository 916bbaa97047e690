package utils

import (
	"strings"

	"estatedesk/models"

	"github.com/badoux/checkmail"
	"gorm.io/gorm"
)

// AdminEmailResolver yields the email addresses that should receive admin
// alert mail. The static-list and live-query implementations are composed
// override-first, so a configured list short-circuits the database lookup.
type AdminEmailResolver interface {
	ResolveAdminEmails() ([]string, error)
}

// AdminRecipient is the identity shape needed for in-app fan-out
type AdminRecipient struct {
	ID    uint
	Email string
	Name  string
}

// StaticListResolver serves a fixed, comma-separated override list
type StaticListResolver struct {
	emails []string
}

// NewStaticListResolver parses a comma-separated address list: entries are
// trimmed and lower-cased, empties and malformed addresses dropped. Returns
// nil when nothing usable remains, so the caller can fall through.
func NewStaticListResolver(raw string) *StaticListResolver {
	var emails []string
	for _, entry := range strings.Split(raw, ",") {
		email := strings.ToLower(strings.TrimSpace(entry))
		if email == "" {
			continue
		}
		if err := checkmail.ValidateFormat(email); err != nil {
			continue
		}
		emails = append(emails, email)
	}
	if len(emails) == 0 {
		return nil
	}
	return &StaticListResolver{emails: emails}
}

func (r *StaticListResolver) ResolveAdminEmails() ([]string, error) {
	return r.emails, nil
}

// UserStoreResolver resolves admins from the live user table
type UserStoreResolver struct {
	DB *gorm.DB
}

func NewUserStoreResolver(db *gorm.DB) *UserStoreResolver {
	return &UserStoreResolver{DB: db}
}

func (r *UserStoreResolver) ResolveAdminEmails() ([]string, error) {
	admins, err := r.ResolveAdminUsers()
	if err != nil {
		return nil, err
	}
	emails := make([]string, 0, len(admins))
	for _, a := range admins {
		emails = append(emails, a.Email)
	}
	return emails, nil
}

// ResolveAdminUsers always hits the user store; in-app fan-out needs
// identities, not just address strings.
func (r *UserStoreResolver) ResolveAdminUsers() ([]AdminRecipient, error) {
	var users []models.User
	if err := r.DB.Where("role = ? AND is_active = ?", models.RoleAdmin, true).Find(&users).Error; err != nil {
		return nil, err
	}

	recipients := make([]AdminRecipient, 0, len(users))
	for _, u := range users {
		recipients = append(recipients, AdminRecipient{ID: u.ID, Email: u.Email, Name: u.Name})
	}
	return recipients, nil
}

// NewAdminEmailResolver composes the override-first precedence: a usable
// static list wins, otherwise the live user store is queried per call.
func NewAdminEmailResolver(overrideList string, db *gorm.DB) AdminEmailResolver {
	if static := NewStaticListResolver(overrideList); static != nil {
		return static
	}
	return NewUserStoreResolver(db)
}

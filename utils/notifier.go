package utils

import (
	"fmt"

	"estatedesk/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Notifier fans an event out to admins: one email per resolved address and
// one in-app Notification row per admin identity. Callers invoke it from a
// detached goroutine; nothing here is ever surfaced to the request that
// triggered the event, failures are logged and dropped.
type Notifier struct {
	DB     *gorm.DB
	Mailer *Mailer
	Emails AdminEmailResolver
	Users  *UserStoreResolver
	Logger *logrus.Logger

	// Publish, when set, is offered every stored notification so connected
	// websocket subscribers see it without polling
	Publish func(n models.Notification)
}

func NewNotifier(db *gorm.DB, mailer *Mailer, emails AdminEmailResolver, logger *logrus.Logger) *Notifier {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Notifier{
		DB:     db,
		Mailer: mailer,
		Emails: emails,
		Users:  NewUserStoreResolver(db),
		Logger: logger,
	}
}

// NotifyNewLead alerts every admin that a lead was created
func (n *Notifier) NotifyNewLead(lead *models.Lead) {
	title := "New lead: " + lead.Name
	message := fmt.Sprintf("%s (%s) is interested", lead.Name, lead.Phone)
	if lead.PropertyName != "" {
		message += " in " + lead.PropertyName
	}

	n.insertAdminRows(models.Notification{
		Title:   title,
		Message: message,
		Type:    models.NotificationNewLead,
		LeadID:  &lead.ID,
		QueryID: lead.QueryID,
	})

	n.emailAdmins(AdminAlertData{
		Subject:      title,
		Heading:      "A new lead just came in",
		Name:         lead.Name,
		Email:        lead.Email,
		Phone:        lead.Phone,
		PropertyName: lead.PropertyName,
	})
}

// NotifyNewEnquiry alerts every admin that a bare enquiry was submitted
func (n *Notifier) NotifyNewEnquiry(query *models.Query) {
	title := "New enquiry: " + query.Name

	n.insertAdminRows(models.Notification{
		Title:   title,
		Message: query.Message,
		Type:    models.NotificationNewEnquiry,
		QueryID: &query.ID,
	})

	n.emailAdmins(AdminAlertData{
		Subject: title,
		Heading: "A new enquiry just came in",
		Name:    query.Name,
		Email:   query.Email,
		Phone:   query.Phone,
		Message: query.Message,
	})
}

// NotifyFollowUpDue alerts every admin that a follow-up has come due
func (n *Notifier) NotifyFollowUpDue(lead *models.Lead, followUp *models.FollowUp) {
	title := "Follow-up due: " + followUp.Title
	message := fmt.Sprintf("%s for lead %s is due at %s",
		followUp.Title, lead.Name, followUp.DueAt.Format("Jan 2 15:04"))

	n.insertAdminRows(models.Notification{
		Title:      title,
		Message:    message,
		Type:       models.NotificationFollowUpDue,
		LeadID:     &lead.ID,
		FollowUpID: &followUp.ID,
	})

	n.emailAdmins(AdminAlertData{
		Subject:      title,
		Heading:      "A follow-up has come due",
		Name:         lead.Name,
		Email:        lead.Email,
		Phone:        lead.Phone,
		Message:      message,
		PropertyName: lead.PropertyName,
	})
}

// NotifyAssignee reminds the lead owner directly: a reminder email plus an
// in-app row of their own, so the owner's read state is independent of the
// admin fan-out.
func (n *Notifier) NotifyAssignee(assignee *models.User, lead *models.Lead, followUp *models.FollowUp) {
	if assignee.Email != "" {
		err := n.Mailer.SendFollowUpReminder(assignee.Email, ReminderData{
			Title:        followUp.Title,
			DueAt:        followUp.DueAt.Format("Jan 2 15:04"),
			Type:         followUp.Type,
			Notes:        followUp.Notes,
			LeadName:     lead.Name,
			LeadPhone:    lead.Phone,
			PropertyName: lead.PropertyName,
		})
		if err != nil {
			n.Logger.WithError(err).WithField("to", assignee.Email).Warn("assignee reminder email failed")
		}
	}

	row := models.Notification{
		RecipientID: assignee.ID,
		Title:       "Follow-up due: " + followUp.Title,
		Message:     fmt.Sprintf("Your follow-up for %s is due at %s", lead.Name, followUp.DueAt.Format("Jan 2 15:04")),
		Type:        models.NotificationFollowUpDue,
		LeadID:      &lead.ID,
		FollowUpID:  &followUp.ID,
	}
	if err := n.DB.Create(&row).Error; err != nil {
		n.Logger.WithError(err).Warn("failed to store assignee notification")
		return
	}
	if n.Publish != nil {
		n.Publish(row)
	}
}

// insertAdminRows resolves admin identities and writes one row per admin as a
// single batch insert. Zero admins means zero rows, not an error.
func (n *Notifier) insertAdminRows(proto models.Notification) {
	admins, err := n.Users.ResolveAdminUsers()
	if err != nil {
		n.Logger.WithError(err).Warn("failed to resolve admin users for in-app fan-out")
		return
	}
	if len(admins) == 0 {
		return
	}

	rows := make([]models.Notification, 0, len(admins))
	for _, admin := range admins {
		row := proto
		row.RecipientID = admin.ID
		rows = append(rows, row)
	}

	if err := n.DB.Create(&rows).Error; err != nil {
		n.Logger.WithError(err).Warn("failed to store admin notifications")
		return
	}

	if n.Publish != nil {
		for _, row := range rows {
			n.Publish(row)
		}
	}
}

// emailAdmins resolves recipient addresses (override list first) and sends
// one email per address. One bad mailbox never blocks the rest.
func (n *Notifier) emailAdmins(data AdminAlertData) {
	if !n.Mailer.IsConfigured() {
		return
	}

	emails, err := n.Emails.ResolveAdminEmails()
	if err != nil {
		n.Logger.WithError(err).Warn("failed to resolve admin emails")
		return
	}

	for _, email := range emails {
		if err := n.Mailer.SendAdminAlert(email, data); err != nil {
			n.Logger.WithError(err).WithField("to", email).Warn("admin alert email failed")
		}
	}
}

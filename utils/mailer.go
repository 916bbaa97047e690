package utils

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"estatedesk/config"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

// Mailer wraps the SMTP transport. An unconfigured mailer (no host) turns
// every send into a logged no-op so callers never need to branch on it.
type Mailer struct {
	cfg    config.SMTPConfig
	logger *logrus.Logger
}

func NewMailer(cfg config.SMTPConfig, logger *logrus.Logger) *Mailer {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Mailer{cfg: cfg, logger: logger}
}

// IsConfigured reports whether an SMTP host is set
func (m *Mailer) IsConfigured() bool {
	return m.cfg.Host != ""
}

// Embedded email templates
var emailTemplates = map[string]string{
	"enquiry_confirmation": `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>We received your enquiry</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { color: #2c3e50; border-bottom: 1px solid #eee; padding-bottom: 10px; }
        .content { margin: 20px 0; }
        .summary { background: #f8f9fa; border-radius: 4px; padding: 15px; }
        .footer { margin-top: 30px; font-size: 12px; color: #7f8c8d; text-align: center; }
    </style>
</head>
<body>
    <div class="header">
        <h2>Thank you for contacting us</h2>
    </div>

    <div class="content">
        <p>Hello {{.Name}},</p>
        <p>We received your enquiry and one of our agents will get back to you shortly.</p>

        <div class="summary">
            {{if .PropertyName}}<p><strong>Property:</strong> {{.PropertyName}}</p>{{end}}
            <p><strong>Your message:</strong></p>
            <p>{{.Message}}</p>
        </div>
    </div>

    <div class="footer">
        <p>© {{.Year}} EstateDesk. All rights reserved.</p>
    </div>
</body>
</html>`,

	"admin_alert": `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{.Subject}}</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { color: #2c3e50; border-bottom: 1px solid #eee; padding-bottom: 10px; }
        .content { margin: 20px 0; }
        .detail { background: #f8f9fa; border-radius: 4px; padding: 15px; }
        .detail p { margin: 4px 0; }
        .footer { margin-top: 30px; font-size: 12px; color: #7f8c8d; text-align: center; }
    </style>
</head>
<body>
    <div class="header">
        <h2>{{.Heading}}</h2>
    </div>

    <div class="content">
        <div class="detail">
            <p><strong>Name:</strong> {{.Name}}</p>
            <p><strong>Email:</strong> {{.Email}}</p>
            <p><strong>Phone:</strong> {{.Phone}}</p>
            {{if .PropertyName}}<p><strong>Property:</strong> {{.PropertyName}}</p>{{end}}
            {{if .Message}}<p><strong>Message:</strong> {{.Message}}</p>{{end}}
        </div>
    </div>

    <div class="footer">
        <p>© {{.Year}} EstateDesk. All rights reserved.</p>
    </div>
</body>
</html>`,

	"follow_up_reminder": `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{.Subject}}</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { color: #2c3e50; border-bottom: 1px solid #eee; padding-bottom: 10px; }
        .content { margin: 20px 0; }
        .due { font-size: 18px; font-weight: bold; color: #e74c3c; }
        .detail { background: #f8f9fa; border-radius: 4px; padding: 15px; }
        .detail p { margin: 4px 0; }
        .footer { margin-top: 30px; font-size: 12px; color: #7f8c8d; text-align: center; }
    </style>
</head>
<body>
    <div class="header">
        <h2>Follow-up due</h2>
    </div>

    <div class="content">
        <p class="due">{{.Title}} — due {{.DueAt}}</p>

        <div class="detail">
            <p><strong>Lead:</strong> {{.LeadName}}</p>
            <p><strong>Phone:</strong> {{.LeadPhone}}</p>
            <p><strong>Type:</strong> {{.Type}}</p>
            {{if .PropertyName}}<p><strong>Property:</strong> {{.PropertyName}}</p>{{end}}
            {{if .Notes}}<p><strong>Notes:</strong> {{.Notes}}</p>{{end}}
        </div>
    </div>

    <div class="footer">
        <p>© {{.Year}} EstateDesk. All rights reserved.</p>
    </div>
</body>
</html>`,
}

// SendMail renders the named template and delivers it to every recipient.
// A no-op when the transport is not configured.
func (m *Mailer) SendMail(to []string, subject, templateName string, data interface{}) error {
	if !m.IsConfigured() {
		m.logger.WithFields(logrus.Fields{
			"template": templateName,
			"to":       to,
		}).Debug("SMTP not configured, skipping email")
		return nil
	}

	tmplContent, ok := emailTemplates[templateName]
	if !ok {
		return fmt.Errorf("template '%s' not found", templateName)
	}

	tmpl, err := template.New("email").Parse(tmplContent)
	if err != nil {
		return fmt.Errorf("error parsing template: %w", err)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("error executing template: %w", err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", fmt.Sprintf("%s <%s>", m.cfg.FromName, m.cfg.FromEmail))
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body.String())

	d := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	if err := d.DialAndSend(msg); err != nil {
		return fmt.Errorf("error sending email: %w", err)
	}

	m.logger.WithFields(logrus.Fields{
		"template": templateName,
		"to":       to,
	}).Info("email sent")
	return nil
}

// SendEnquiryConfirmation sends the best-effort acknowledgement to the person
// who submitted the contact form
func (m *Mailer) SendEnquiryConfirmation(email, name, message, propertyName string) error {
	return m.SendMail([]string{email}, "We received your enquiry", "enquiry_confirmation", struct {
		Name         string
		Message      string
		PropertyName string
		Year         int
	}{
		Name:         name,
		Message:      message,
		PropertyName: propertyName,
		Year:         time.Now().Year(),
	})
}

// AdminAlertData carries the fields rendered into an admin alert email
type AdminAlertData struct {
	Subject      string
	Heading      string
	Name         string
	Email        string
	Phone        string
	Message      string
	PropertyName string
	Year         int
}

// SendAdminAlert emails a single admin recipient about a new lead or enquiry
func (m *Mailer) SendAdminAlert(to string, data AdminAlertData) error {
	data.Year = time.Now().Year()
	return m.SendMail([]string{to}, data.Subject, "admin_alert", data)
}

// ReminderData carries the fields rendered into a follow-up reminder email
type ReminderData struct {
	Subject      string
	Title        string
	DueAt        string
	Type         string
	Notes        string
	LeadName     string
	LeadPhone    string
	PropertyName string
	Year         int
}

// SendFollowUpReminder emails one recipient about a due follow-up
func (m *Mailer) SendFollowUpReminder(to string, data ReminderData) error {
	data.Year = time.Now().Year()
	if data.Subject == "" {
		data.Subject = "Follow-up due: " + data.Title
	}
	return m.SendMail([]string{to}, data.Subject, "follow_up_reminder", data)
}

package services

import (
	"fmt"
	"os"
	"strings"

	"fleetdocs/internal/models"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type EmailService struct {
	send      func(*mail.SGMailV3) (*rest.Response, error)
	fromEmail string
	fromName  string
}

func NewEmailService() *EmailService {
	apiKey := os.Getenv("SENDGRID_API_KEY")
	fromEmail := os.Getenv("SENDGRID_NOTIFICATIONS_FROM_EMAIL")
	fromName := os.Getenv("SENDGRID_FROM_NAME")

	client := sendgrid.NewSendClient(apiKey)

	return &EmailService{
		send:      client.Send,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

// SendReminderDigest sends one digest email per recipient listing all documents
// due under the same reminder configuration. Every recipient is attempted; a
// failure for one never skips the rest, and the failures come back aggregated.
func (s *EmailService) SendReminderDigest(configName string, offsetDays int, items []models.DueReminder, recipients []models.ReminderRecipient, preface, triggeredBy string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)

	subject := fmt.Sprintf("Reminder: %d fleet document(s) - %s", len(items), configName)
	if offsetDays == 0 {
		subject = fmt.Sprintf("Alert: %d fleet document(s) expired", len(items))
	}

	plainContent, htmlContent := renderDigest(configName, items, preface, triggeredBy)

	var failures []string
	for _, recipient := range recipients {
		to := mail.NewEmail(recipient.Name, recipient.Email)

		message := mail.NewSingleEmail(from, subject, to, plainContent, htmlContent)

		response, err := s.send(message)
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", recipient.Email, err))
			continue
		}
		if response.StatusCode >= 400 {
			failures = append(failures, fmt.Sprintf("%s: status %d", recipient.Email, response.StatusCode))
		}
	}

	if len(failures) > 0 {
		return fmt.Errorf("failed to send to %d of %d recipient(s): %s",
			len(failures), len(recipients), strings.Join(failures, "; "))
	}
	return nil
}

func renderDigest(configName string, items []models.DueReminder, preface, triggeredBy string) (string, string) {
	var plain strings.Builder
	var html strings.Builder

	if preface != "" {
		plain.WriteString(preface + "\n\n")
		html.WriteString("<p>" + preface + "</p>")
	}

	plain.WriteString(fmt.Sprintf("The following documents need attention (%s):\n", configName))
	html.WriteString(fmt.Sprintf("<p>The following documents need attention (<strong>%s</strong>):</p><ul>", configName))

	for _, item := range items {
		line := fmt.Sprintf("%s %s for %s, expires %s",
			item.DocumentTypeName, item.DocumentNo, item.VehicleName,
			item.ExpiryDate.Format("Mon Jan 2 2006"))
		plain.WriteString("- " + line + "\n")
		html.WriteString("<li>" + line + "</li>")
	}
	html.WriteString("</ul>")

	plain.WriteString(fmt.Sprintf("\nTriggered by: %s\n", triggeredBy))
	html.WriteString(fmt.Sprintf("<p><small>Triggered by: %s</small></p>", triggeredBy))

	return plain.String(), html.String()
}

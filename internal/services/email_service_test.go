package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"fleetdocs/internal/models"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

func TestSendReminderDigest_AttemptsAllRecipients(t *testing.T) {
	var sentTo []string
	svc := &EmailService{
		fromEmail: "noreply@example.com",
		fromName:  "FleetDocs",
		send: func(m *mail.SGMailV3) (*rest.Response, error) {
			to := m.Personalizations[0].To[0].Address
			sentTo = append(sentTo, to)
			if to == "second@example.com" {
				return nil, errors.New("connection reset")
			}
			return &rest.Response{StatusCode: 202}, nil
		},
	}

	items := []models.DueReminder{
		{DocumentNo: "INS-001", VehicleName: "Truck A", DocumentTypeName: "Insurance", ExpiryDate: time.Now()},
	}
	recipients := []models.ReminderRecipient{
		{Email: "first@example.com", Active: true},
		{Email: "second@example.com", Active: true},
		{Email: "third@example.com", Active: true},
	}

	err := svc.SendReminderDigest("1 week before expiry", 7, items, recipients, "", "cron")

	if err == nil {
		t.Fatalf("expected an aggregate error for the failed recipient")
	}
	if len(sentTo) != 3 {
		t.Errorf("attempted %d recipient(s), want all 3: %v", len(sentTo), sentTo)
	}
	if !strings.Contains(err.Error(), "second@example.com") {
		t.Errorf("error %q does not name the failed recipient", err)
	}
	if strings.Contains(err.Error(), "first@example.com") || strings.Contains(err.Error(), "third@example.com") {
		t.Errorf("error %q names a recipient that succeeded", err)
	}
	if !strings.Contains(err.Error(), "1 of 3") {
		t.Errorf("error %q does not report the failure count", err)
	}
}

func TestSendReminderDigest_RejectedStatusReported(t *testing.T) {
	svc := &EmailService{
		fromEmail: "noreply@example.com",
		send: func(m *mail.SGMailV3) (*rest.Response, error) {
			return &rest.Response{StatusCode: 401}, nil
		},
	}

	err := svc.SendReminderDigest("Expired", 0, nil,
		[]models.ReminderRecipient{{Email: "ops@example.com", Active: true}}, "", "cron")

	if err == nil || !strings.Contains(err.Error(), "status 401") {
		t.Errorf("err = %v, want rejected status reported", err)
	}
}

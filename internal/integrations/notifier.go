package integrations

import (
	"fmt"

	"camp-management-backend/internal/models"
	"camp-management-backend/pkg/logger"
)

// Notifier delivers registration confirmations. Delivery is best-effort: a
// failure is logged, never returned to the admission path.
type Notifier interface {
	SendRegistrationConfirmation(registration *models.Registration, camp *models.Camp)
}

// SMSNotifier confirms registrations over SMS.
type SMSNotifier struct {
	sms *SMSClient
}

func NewSMSNotifier(sms *SMSClient) *SMSNotifier {
	return &SMSNotifier{sms: sms}
}

func (n *SMSNotifier) SendRegistrationConfirmation(registration *models.Registration, camp *models.Camp) {
	message := fmt.Sprintf(
		"Your registration for %s is successful! Your camp code is %s. Amount due: %.2f.",
		camp.Name, registration.CamperCode, registration.TotalAmount,
	)

	if err := n.sms.SendSMS(registration.PhoneNumber, message); err != nil {
		logger.WithField("registration_id", registration.ID.String()).
			Warnf("Failed to send confirmation SMS: %v", err)
	}
}

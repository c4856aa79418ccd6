// internal/email/mailer/account_confirmation.go
package mailer

import "github.com/jerent/carfleet/internal/email"

// ConfirmationTemplateData contains data for the confirmation email template
type ConfirmationTemplateData struct {
	FullName         string
	ConfirmationLink string
}

// SendConfirmationEmail sends the account confirmation email to a new user
func SendConfirmationEmail(s *email.Service, to, fullName, confirmationLink string) error {
	templateData := ConfirmationTemplateData{
		FullName:         fullName,
		ConfirmationLink: confirmationLink,
	}

	emailData := email.EmailData{
		To:           to,
		FromName:     "CarFleet",
		Subject:      "Welcome to CarFleet! Please confirm your email",
		TemplateName: "account_confirmation",
		TemplateData: templateData,
	}

	return s.SendEmail(emailData)
}

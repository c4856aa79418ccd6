// internal/email/mailer/mailer.go

// Package mailer wraps the email service with per-message helpers for the
// console's transactional mail.
package mailer

import "github.com/jerent/carfleet/internal/email"

// AccountMailer sends account lifecycle emails through the email service.
type AccountMailer struct {
	svc *email.Service
}

func NewAccountMailer(svc *email.Service) *AccountMailer {
	return &AccountMailer{svc: svc}
}

func (m *AccountMailer) SendConfirmation(to, fullName, confirmationLink string) error {
	return SendConfirmationEmail(m.svc, to, fullName, confirmationLink)
}

package email

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrymomot/authkit/pkg/auth"
	"github.com/dmitrymomot/authkit/pkg/email/templates"
)

// AuthMailer implements auth.Mailer on top of an EmailSender. It owns the
// subjects, tags, and templates of the authentication emails; the sender
// decides how they leave the building.
type AuthMailer struct {
	sender  EmailSender
	appName string
}

// NewAuthMailer wires the authentication mail flows to a sender. appName
// shows up in subjects and bodies.
func NewAuthMailer(sender EmailSender, appName string) *AuthMailer {
	return &AuthMailer{sender: sender, appName: appName}
}

func (m *AuthMailer) SendConfirmationEmail(ctx context.Context, recipient, link string) error {
	body, err := templates.Render(ctx, templates.ConfirmationEmail(m.appName, link))
	if err != nil {
		return errors.Join(ErrFailedToSendEmail, err)
	}
	return m.sender.SendEmail(ctx, SendEmailParams{
		SendTo:   recipient,
		Subject:  fmt.Sprintf("Confirm your %s email", m.appName),
		BodyHTML: body,
		Tag:      "confirm-email",
	})
}

func (m *AuthMailer) SendPasswordResetEmail(ctx context.Context, recipient, link string) error {
	body, err := templates.Render(ctx, templates.PasswordResetEmail(m.appName, link))
	if err != nil {
		return errors.Join(ErrFailedToSendEmail, err)
	}
	return m.sender.SendEmail(ctx, SendEmailParams{
		SendTo:   recipient,
		Subject:  fmt.Sprintf("Reset your %s password", m.appName),
		BodyHTML: body,
		Tag:      "reset-password",
	})
}

var _ auth.Mailer = (*AuthMailer)(nil)

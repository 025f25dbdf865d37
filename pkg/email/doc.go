// Package email delivers the authentication service's transactional mail:
// the address-confirmation message sent after sign-up and the single-use
// password-reset message.
//
// # Architecture
//
// The package is built around the EmailSender interface, allowing email
// providers to be swapped without changing application code:
//   - PostmarkClient for production delivery with open/click tracking
//   - DevSender for local development (saves emails to disk)
//
// AuthMailer sits on top of an EmailSender and implements the auth
// package's Mailer interface. It owns subjects, analytics tags, and the
// templ-built HTML bodies in the templates subpackage; the sender it wraps
// decides how messages actually leave the building.
//
// # Usage
//
//	client, err := email.NewPostmarkClient(cfg)
//	if err != nil {
//	    // handle configuration error
//	}
//	mailer := email.NewAuthMailer(client, "Acme")
//
//	err = mailer.SendConfirmationEmail(ctx, "user@example.com", confirmLink)
//
// Development mode saves emails locally instead:
//
//	mailer := email.NewAuthMailer(email.NewDevSender("./email-output"), "Acme")
//
// # Configuration
//
// Config is populated from environment variables. Both Postmark tokens are
// required for production use; SenderEmail is the From address and
// SupportEmail the Reply-To, so user replies reach a mailbox somebody
// reads.
//
// # Error Handling
//
// Sentinel errors cover the common failures:
//   - ErrInvalidConfig: configuration validation failed
//   - ErrInvalidParams: email parameters validation failed
//   - ErrFailedToSendEmail: delivery failed
//
// All are comparable with errors.Is. Delivery failures never reach end
// users of the auth package; the Authenticator logs and swallows them.
package email

package templates

import (
	"context"
	"fmt"
	"html"
	"io"

	"github.com/a-h/templ"
)

// ConfirmationEmail builds the body for the address-confirmation email sent
// after sign-up. The link carries the confirm-email token.
func ConfirmationEmail(appName, link string) templ.Component {
	return layout(
		fmt.Sprintf("Welcome to %s", appName),
		"Please confirm your email address to activate your account. The link expires in 24 hours.",
		"Confirm email",
		link,
	)
}

// PasswordResetEmail builds the body for the password-reset email. The link
// carries a single-use reset token.
func PasswordResetEmail(appName, link string) templ.Component {
	return layout(
		fmt.Sprintf("Reset your %s password", appName),
		"We received a request to reset your password. If this wasn't you, you can safely ignore this email. The link expires in one hour and works only once.",
		"Reset password",
		link,
	)
}

// layout is the shared transactional email frame: heading, one paragraph,
// one call-to-action button, and the raw link as a fallback for clients
// that strip buttons. Inline CSS only; email clients ignore everything else.
func layout(title, intro, buttonLabel, link string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html>
<body style="margin:0;padding:0;background-color:#f4f4f7;font-family:Helvetica,Arial,sans-serif;">
<table role="presentation" width="100%%" cellpadding="0" cellspacing="0">
<tr><td align="center" style="padding:32px 16px;">
<table role="presentation" width="560" cellpadding="0" cellspacing="0" style="background-color:#ffffff;border-radius:8px;padding:40px;">
<tr><td>
<h1 style="margin:0 0 16px;font-size:22px;color:#111827;">%s</h1>
<p style="margin:0 0 24px;font-size:15px;line-height:1.6;color:#374151;">%s</p>
<table role="presentation" cellpadding="0" cellspacing="0"><tr><td style="border-radius:6px;background-color:#2563eb;">
<a href="%s" style="display:inline-block;padding:12px 24px;font-size:15px;color:#ffffff;text-decoration:none;">%s</a>
</td></tr></table>
<p style="margin:24px 0 0;font-size:13px;line-height:1.6;color:#6b7280;">If the button doesn't work, copy this link into your browser:<br><a href="%s" style="color:#2563eb;word-break:break-all;">%s</a></p>
</td></tr>
</table>
</td></tr>
</table>
</body>
</html>`,
			html.EscapeString(title),
			html.EscapeString(intro),
			html.EscapeString(link),
			html.EscapeString(buttonLabel),
			html.EscapeString(link),
			html.EscapeString(link),
		)
		return err
	})
}

package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"civiceye/config"

	"github.com/resend/resend-go/v2"
)

// notifyTimeout bounds the fire-and-forget notification send. The submission
// path never waits on it.
const notifyTimeout = 10 * time.Second

// Email represents an email message
type Email struct {
	To       []string
	Subject  string
	HTMLBody string
	TextBody string
}

// SendEmail sends an email using the Resend API
func SendEmail(ctx context.Context, cfg *config.Config, email *Email) error {
	// In development mode, log the email instead of sending
	if cfg.EmailTestMode {
		logEmailToConsole(email)
		return nil
	}

	if cfg.ResendAPIKey == "" {
		return fmt.Errorf("RESEND_API_KEY not configured")
	}

	if email.HTMLBody == "" && email.TextBody == "" {
		return fmt.Errorf("email must have either HTMLBody or TextBody")
	}

	client := resend.NewClient(cfg.ResendAPIKey)

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", cfg.EmailFromName, cfg.EmailFrom),
		To:      email.To,
		Subject: email.Subject,
		Html:    email.HTMLBody,
		Text:    email.TextBody,
	}

	sent, err := client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to send email via Resend: %v", err)
	}

	log.Printf("Email sent successfully via Resend (ID: %s) to: %v", sent.Id, email.To)
	return nil
}

// SendEmailAsync dispatches an email in a goroutine with a bounded timeout.
// Failures are logged and discarded; the caller's outcome never depends on
// the send.
func SendEmailAsync(cfg *config.Config, email *Email) {
	// Copy to avoid races with the caller mutating the original
	emailCopy := &Email{
		To:       append([]string{}, email.To...),
		Subject:  email.Subject,
		HTMLBody: email.HTMLBody,
		TextBody: email.TextBody,
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		if err := SendEmail(ctx, cfg, emailCopy); err != nil {
			log.Printf("Error sending async email: %v", err)
		}
	}()
}

// logEmailToConsole logs email details in development mode
func logEmailToConsole(email *Email) {
	separator := strings.Repeat("=", 80)
	log.Printf("\n%s\nEMAIL (Development Mode - Not Actually Sent)\n%s", separator, separator)
	log.Printf("To: %v", email.To)
	log.Printf("Subject: %s", email.Subject)
	log.Printf("\n--- TEXT BODY ---\n%s", email.TextBody)
	log.Printf("%s\n", separator)
}

// BuildReportConfirmationEmail creates the confirmation sent to a reporter
// after a successful submission.
func BuildReportConfirmationEmail(toEmail, name, reportCode string, evidenceCount int) *Email {
	textBody := fmt.Sprintf(
		"Hello %s,\n\nYour crime report has been registered.\n\nReport ID: %s\nEvidence files: %d\n\nUse the Report ID to track your case status at any time.\n",
		name, reportCode, evidenceCount,
	)
	htmlBody := fmt.Sprintf(
		"<p>Hello %s,</p><p>Your crime report has been registered.</p><p><strong>Report ID:</strong> %s<br><strong>Evidence files:</strong> %d</p><p>Use the Report ID to track your case status at any time.</p>",
		name, reportCode, evidenceCount,
	)

	return &Email{
		To:       []string{toEmail},
		Subject:  "Your crime report has been registered",
		TextBody: textBody,
		HTMLBody: htmlBody,
	}
}

package services

import (
	"context"
	"testing"

	"civiceye/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildReportConfirmationEmail(t *testing.T) {
	email := BuildReportConfirmationEmail("jane@example.com", "Jane Doe", "MH-2024-123456", 3)

	assert.Equal(t, []string{"jane@example.com"}, email.To)
	assert.Contains(t, email.Subject, "registered")
	assert.Contains(t, email.TextBody, "Jane Doe")
	assert.Contains(t, email.TextBody, "MH-2024-123456")
	assert.Contains(t, email.TextBody, "Evidence files: 3")
	assert.Contains(t, email.HTMLBody, "MH-2024-123456")
}

func TestSendEmailTestMode(t *testing.T) {
	cfg := &config.Config{EmailTestMode: true}
	email := BuildReportConfirmationEmail("jane@example.com", "Jane Doe", "MH-2024-123456", 0)

	// Test mode logs instead of dispatching, so no API key is required
	require.NoError(t, SendEmail(context.Background(), cfg, email))
}

func TestSendEmailMissingAPIKey(t *testing.T) {
	cfg := &config.Config{EmailTestMode: false}
	email := BuildReportConfirmationEmail("jane@example.com", "Jane Doe", "MH-2024-123456", 0)

	err := SendEmail(context.Background(), cfg, email)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RESEND_API_KEY")
}

func TestSendEmailRequiresBody(t *testing.T) {
	cfg := &config.Config{ResendAPIKey: "re_test_key"}

	err := SendEmail(context.Background(), cfg, &Email{
		To:      []string{"jane@example.com"},
		Subject: "empty",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTMLBody or TextBody")
}

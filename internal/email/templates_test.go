package email

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPasswordResetEmailHTML(t *testing.T) {
	html := PasswordResetEmailHTML("https://app.example.com/reset-password?token=abc123", "Sourcery", 30)

	assert.Contains(t, html, "https://app.example.com/reset-password?token=abc123")
	assert.Contains(t, html, "Sourcery")
	assert.Contains(t, html, "30")
	assert.True(t, strings.Contains(html, "<html") || strings.Contains(html, "<!DOCTYPE"))
}

func TestPasswordResetEmailText(t *testing.T) {
	text := PasswordResetEmailText("https://app.example.com/reset-password?token=abc123", "Sourcery", 30)

	assert.Contains(t, text, "https://app.example.com/reset-password?token=abc123")
	assert.Contains(t, text, "Sourcery")
	assert.NotContains(t, text, "<html")
}

package model

import (
	"time"
)

// EmailTemplate represents a saved email template.
// Subject and content may contain merge fields like {{first_name}}
// that are substituted per contact at send time.
type EmailTemplate struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Subject   string    `json:"subject"`
	Content   string    `json:"content"`
	Category  string    `json:"category,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// GeneratedTemplate is the response of the template generation endpoint
type GeneratedTemplate struct {
	Subject       string `json:"subject"`
	Content       string `json:"content"`
	TemplateIndex int    `json:"templateIndex"`
	HasMore       bool   `json:"hasMore"`
}

// GenerateTemplateRequest is the request body for template generation
type GenerateTemplateRequest struct {
	Prompt  string `json:"prompt"`
	Exclude []int  `json:"exclude,omitempty"`
}

package model

import (
	"time"
)

// SequenceStatus represents the lifecycle state of an email sequence
type SequenceStatus string

const (
	SequenceStatusDraft     SequenceStatus = "draft"
	SequenceStatusActive    SequenceStatus = "active"
	SequenceStatusPaused    SequenceStatus = "paused"
	SequenceStatusCompleted SequenceStatus = "completed"
)

// EmailSequence represents an automated follow-up sequence built on a template
type EmailSequence struct {
	ID           string         `json:"id"`
	UserID       string         `json:"userId"`
	TemplateID   string         `json:"templateId"`
	Status       SequenceStatus `json:"status"`
	IntervalDays int            `json:"intervalDays"`
	MaxFollowups int            `json:"maxFollowups"`
	// BatchSize is the number of emails sent per batch
	BatchSize int `json:"batchSize"`
	// StaggerDelayMinutes is the pause between batches
	StaggerDelayMinutes int `json:"staggerDelayMinutes"`
	// TimeWindowStart and TimeWindowEnd bound sending to business hours ("09:00")
	TimeWindowStart string `json:"timeWindowStart"`
	TimeWindowEnd   string `json:"timeWindowEnd"`
	// DaysActive lists the weekdays sending is allowed on ("monday", ...)
	DaysActive []string  `json:"daysActive"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// SequenceWithTemplate joins a sequence with its template's display fields
type SequenceWithTemplate struct {
	EmailSequence
	TemplateName    string `json:"templateName"`
	TemplateSubject string `json:"templateSubject"`
}

// SequenceSendResult summarizes one sequence send run
type SequenceSendResult struct {
	SequenceID string `json:"sequenceId"`
	Sent       int    `json:"sent"`
	Failed     int    `json:"failed"`
	// QuotaRemaining is the user's email quota after this run
	QuotaRemaining int `json:"quotaRemaining"`
}

package model

import (
	"time"
)

// EmailEvent represents the outcome recorded for a sent email
type EmailEvent string

const (
	EmailEventSent      EmailEvent = "sent"
	EmailEventBounced   EmailEvent = "bounced"
	EmailEventOpened    EmailEvent = "opened"
	EmailEventResponded EmailEvent = "responded"
)

// EmailStat is one recorded email event
type EmailStat struct {
	ID         string     `json:"id"`
	UserID     string     `json:"userId"`
	SequenceID *string    `json:"sequenceId,omitempty"`
	ContactID  *string    `json:"contactId,omitempty"`
	Status     EmailEvent `json:"status"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// EmailStatsSummary aggregates events by outcome
type EmailStatsSummary struct {
	Sent      int `json:"sent"`
	Bounced   int `json:"bounced"`
	Opened    int `json:"opened"`
	Responded int `json:"responded"`
}

// DailyStat is one day's aggregated send activity
type DailyStat struct {
	Date      string `json:"date"` // "Jan 02"
	Sent      int    `json:"sent"`
	Opened    int    `json:"opened"`
	Responded int    `json:"responded"`
}

// DashboardStats is the aggregate view backing the dashboard overview
type DashboardStats struct {
	TotalContacts  int               `json:"totalContacts"`
	TotalTemplates int               `json:"totalTemplates"`
	TotalSequences int               `json:"totalSequences"`
	EmailQuota     int               `json:"emailQuota"`
	EmailStats     EmailStatsSummary `json:"emailStats"`
	DailyStats     []DailyStat       `json:"dailyStats"`
}

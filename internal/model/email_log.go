// internal/model/email_log.go
package model

import "time"

const (
	EmailStatusSent   = "sent"
	EmailStatusFailed = "failed"
)

// EmailLog is one delivery attempt. Rows are append-only; only the
// first-open/first-click hooks touch an existing row, and only once.
// DeliveryID is minted once per logical send and shared by every retry
// of that send, so a retried job produces several rows under one id.
type EmailLog struct {
	ID           int64      `db:"id" json:"id"`
	DeliveryID   string     `db:"delivery_id" json:"delivery_id"` // doubles as the tracking id
	Recipient    string     `db:"recipient" json:"recipient"`
	Subject      string     `db:"subject" json:"subject"`
	TemplateName string     `db:"template_name" json:"template_name"`
	MessageID    string     `db:"message_id,omitempty" json:"message_id,omitempty"` // transport id, success only
	Status       string     `db:"status" json:"status"`                             // sent, failed
	Error        string     `db:"error,omitempty" json:"error,omitempty"`
	OpenedAt     *time.Time `db:"opened_at" json:"opened_at,omitempty"`
	ClickedAt    *time.Time `db:"clicked_at" json:"clicked_at,omitempty"`
	ClickedURL   string     `db:"clicked_url,omitempty" json:"clicked_url,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
}

// EmailAnalyticsRow is one bucket of the grouped delivery report.
type EmailAnalyticsRow struct {
	TemplateName string `json:"template_name"`
	Status       string `json:"status"`
	Count        int    `json:"count"`
}

// DailyEmailStat is one day of sent/failed counts.
type DailyEmailStat struct {
	Day    time.Time `json:"day"`
	Sent   int       `json:"sent"`
	Failed int       `json:"failed"`
}

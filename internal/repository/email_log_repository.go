package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/unclebandit/coursemail-backend/internal/model"
)

type EmailLogRepositoryInterface interface {
	Create(entry *model.EmailLog) error
	GetByDeliveryID(deliveryID string) (*model.EmailLog, error)
	MarkOpened(deliveryID string) (bool, error)
	MarkClicked(deliveryID, url string) (bool, error)
	GetAnalytics(start, end time.Time, templateName string) ([]model.EmailAnalyticsRow, error)
	GetDailyStats(start, end time.Time, templateName string) ([]model.DailyEmailStat, error)
}

type EmailLogRepository struct {
	DB *sql.DB
}

// Create appends one delivery attempt. Rows are never updated afterwards
// except through MarkOpened/MarkClicked.
func (r *EmailLogRepository) Create(entry *model.EmailLog) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	query := `
        INSERT INTO email_logs
        (delivery_id, recipient, subject, template_name, message_id, status, error, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id
    `
	return r.DB.QueryRow(
		query,
		entry.DeliveryID,
		entry.Recipient,
		entry.Subject,
		entry.TemplateName,
		entry.MessageID,
		entry.Status,
		entry.Error,
		entry.CreatedAt,
	).Scan(&entry.ID)
}

// GetByDeliveryID returns the latest attempt for a delivery id, or nil
// when the id is unknown.
func (r *EmailLogRepository) GetByDeliveryID(deliveryID string) (*model.EmailLog, error) {
	query := `
        SELECT id, delivery_id, recipient, subject, template_name, message_id, status, error,
               opened_at, clicked_at, clicked_url, created_at
        FROM email_logs
        WHERE delivery_id=$1
        ORDER BY id DESC
        LIMIT 1
    `
	var entry model.EmailLog
	var messageID, errText, clickedURL sql.NullString
	err := r.DB.QueryRow(query, deliveryID).Scan(
		&entry.ID,
		&entry.DeliveryID,
		&entry.Recipient,
		&entry.Subject,
		&entry.TemplateName,
		&messageID,
		&entry.Status,
		&errText,
		&entry.OpenedAt,
		&entry.ClickedAt,
		&clickedURL,
		&entry.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	entry.MessageID = messageID.String
	entry.Error = errText.String
	entry.ClickedURL = clickedURL.String
	return &entry, nil
}

// MarkOpened stamps the first open. The conditional WHERE makes repeat
// pixel hits no-ops, so duplicate hits never overwrite the timestamp.
// Returns whether this call was the first hit.
func (r *EmailLogRepository) MarkOpened(deliveryID string) (bool, error) {
	query := `
        UPDATE email_logs SET opened_at=NOW()
        WHERE delivery_id=$1 AND status='sent' AND opened_at IS NULL
    `
	res, err := r.DB.Exec(query, deliveryID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// MarkClicked stamps the first click, keeping the first clicked URL.
func (r *EmailLogRepository) MarkClicked(deliveryID, url string) (bool, error) {
	query := `
        UPDATE email_logs SET clicked_at=NOW(), clicked_url=$2
        WHERE delivery_id=$1 AND status='sent' AND clicked_at IS NULL
    `
	res, err := r.DB.Exec(query, deliveryID, url)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// GetAnalytics groups log rows by template and status over [start, end).
// Callers pass an exclusive end; the service layer normalizes inclusive
// date ranges before calling.
func (r *EmailLogRepository) GetAnalytics(start, end time.Time, templateName string) ([]model.EmailAnalyticsRow, error) {
	query := `
        SELECT template_name, status, COUNT(*)
        FROM email_logs
        WHERE created_at >= $1 AND created_at < $2
    `
	args := []interface{}{start, end}
	if templateName != "" {
		query += fmt.Sprintf(" AND template_name=$%d", len(args)+1)
		args = append(args, templateName)
	}
	query += " GROUP BY template_name, status ORDER BY template_name, status DESC"

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []model.EmailAnalyticsRow{}
	for rows.Next() {
		var row model.EmailAnalyticsRow
		if err := rows.Scan(&row.TemplateName, &row.Status, &row.Count); err != nil {
			return nil, err
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

func (r *EmailLogRepository) GetDailyStats(start, end time.Time, templateName string) ([]model.DailyEmailStat, error) {
	query := `
        SELECT date_trunc('day', created_at) AS day,
               COUNT(*) FILTER (WHERE status='sent'),
               COUNT(*) FILTER (WHERE status='failed')
        FROM email_logs
        WHERE created_at >= $1 AND created_at < $2
    `
	args := []interface{}{start, end}
	if templateName != "" {
		query += fmt.Sprintf(" AND template_name=$%d", len(args)+1)
		args = append(args, templateName)
	}
	query += " GROUP BY day ORDER BY day"

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := []model.DailyEmailStat{}
	for rows.Next() {
		var s model.DailyEmailStat
		if err := rows.Scan(&s.Day, &s.Sent, &s.Failed); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

var _ EmailLogRepositoryInterface = (*EmailLogRepository)(nil)

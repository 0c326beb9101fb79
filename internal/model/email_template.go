// internal/model/email_template.go
package model

import "time"

// EmailTemplate is a persisted template override. When a row with a given
// name exists it always wins over the bundled default file.
type EmailTemplate struct {
	ID        int       `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

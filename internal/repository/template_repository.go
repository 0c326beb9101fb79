package repository

import (
	"database/sql"

	"github.com/unclebandit/coursemail-backend/internal/model"
)

type TemplateRepositoryInterface interface {
	GetByName(name string) (*model.EmailTemplate, error)
	Upsert(name, content string) (*model.EmailTemplate, error)
}

type TemplateRepository struct {
	DB *sql.DB
}

// GetByName returns nil without error when no override is stored.
func (r *TemplateRepository) GetByName(name string) (*model.EmailTemplate, error) {
	query := `SELECT id, name, content, created_at, updated_at FROM email_templates WHERE name=$1`
	var t model.EmailTemplate
	err := r.DB.QueryRow(query, name).Scan(&t.ID, &t.Name, &t.Content, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *TemplateRepository) Upsert(name, content string) (*model.EmailTemplate, error) {
	query := `
        INSERT INTO email_templates (name, content, created_at, updated_at)
        VALUES ($1, $2, NOW(), NOW())
        ON CONFLICT (name) DO UPDATE SET content=$2, updated_at=NOW()
        RETURNING id, name, content, created_at, updated_at
    `
	var t model.EmailTemplate
	err := r.DB.QueryRow(query, name, content).Scan(&t.ID, &t.Name, &t.Content, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

var _ TemplateRepositoryInterface = (*TemplateRepository)(nil)

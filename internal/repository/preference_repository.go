package repository

import (
	"database/sql"

	"github.com/unclebandit/coursemail-backend/internal/model"
)

type PreferenceRepositoryInterface interface {
	GetByEmail(email string) (*model.EmailPreference, error)
	Upsert(email string, optOut bool) (*model.EmailPreference, error)
}

type PreferenceRepository struct {
	DB *sql.DB
}

// GetByEmail returns nil without error when no row exists (opted-in).
func (r *PreferenceRepository) GetByEmail(email string) (*model.EmailPreference, error) {
	query := `SELECT email, opt_out, updated_at FROM email_preferences WHERE email=$1`
	var pref model.EmailPreference
	err := r.DB.QueryRow(query, email).Scan(&pref.Email, &pref.OptOut, &pref.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &pref, nil
}

// Upsert creates or updates the single preference row for an address.
// ON CONFLICT keeps concurrent updates from racing into duplicates.
func (r *PreferenceRepository) Upsert(email string, optOut bool) (*model.EmailPreference, error) {
	query := `
        INSERT INTO email_preferences (email, opt_out, updated_at)
        VALUES ($1, $2, NOW())
        ON CONFLICT (email) DO UPDATE SET opt_out=$2, updated_at=NOW()
        RETURNING email, opt_out, updated_at
    `
	var pref model.EmailPreference
	err := r.DB.QueryRow(query, email, optOut).Scan(&pref.Email, &pref.OptOut, &pref.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &pref, nil
}

var _ PreferenceRepositoryInterface = (*PreferenceRepository)(nil)

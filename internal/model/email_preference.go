// internal/model/email_preference.go
package model

import "time"

// EmailPreference is the per-recipient opt-out flag. At most one row per
// address; absence means opted-in.
type EmailPreference struct {
	Email     string    `db:"email" json:"email"`
	OptOut    bool      `db:"opt_out" json:"opt_out"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// PreferenceStatus reports the opt-out state for one notification type.
// The flag is currently global, so every type carries the same value.
type PreferenceStatus struct {
	EmailType string `json:"email_type"`
	OptedOut  bool   `json:"opted_out"`
}

package repository_test

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unclebandit/coursemail-backend/internal/repository"
)

func newPrefRepo(t *testing.T) (*repository.PreferenceRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &repository.PreferenceRepository{DB: db}, mock
}

func TestGetByEmailAbsentMeansOptedIn(t *testing.T) {
	repo, mock := newPrefRepo(t)

	mock.ExpectQuery("SELECT email, opt_out, updated_at FROM email_preferences").
		WithArgs("alice@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"email", "opt_out", "updated_at"}))

	pref, err := repo.GetByEmail("alice@example.com")
	require.NoError(t, err)
	assert.Nil(t, pref, "unknown address should read as opted-in")
}

func TestUpsertPreference(t *testing.T) {
	repo, mock := newPrefRepo(t)

	now := time.Now()
	mock.ExpectQuery("INSERT INTO email_preferences").
		WithArgs("bob@example.com", true).
		WillReturnRows(sqlmock.NewRows([]string{"email", "opt_out", "updated_at"}).
			AddRow("bob@example.com", true, now))

	pref, err := repo.Upsert("bob@example.com", true)
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", pref.Email)
	assert.True(t, pref.OptOut)
	assert.NoError(t, mock.ExpectationsWereMet())
}

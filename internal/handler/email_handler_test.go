package handler_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/unclebandit/coursemail-backend/internal/handler"
	"github.com/unclebandit/coursemail-backend/internal/model"
	"github.com/unclebandit/coursemail-backend/internal/service"
)

type emptyTemplateRepo struct{}

func (emptyTemplateRepo) GetByName(name string) (*model.EmailTemplate, error) { return nil, nil }
func (emptyTemplateRepo) Upsert(name, content string) (*model.EmailTemplate, error) {
	return &model.EmailTemplate{Name: name, Content: content}, nil
}

func newTestRouter(t *testing.T) *chi.Mux {
	t.Helper()
	templates := service.NewTemplateService(emptyTemplateRepo{}, t.TempDir())
	h := handler.NewEmailHandler(&service.EmailService{Templates: templates}, templates)

	r := chi.NewRouter()
	r.Post("/emails/send", h.SendEmailHandler)
	r.Get("/analytics/emails", h.AnalyticsHandler)
	r.Get("/templates/{name}", h.GetTemplateHandler)
	return r
}

func TestSendEmailHandlerValidatesBody(t *testing.T) {
	r := newTestRouter(t)

	cases := []string{
		`not json`,
		`{}`,
		`{"to": ["a@example.com"]}`,
		`{"template_name": "welcome"}`,
	}
	for _, body := range cases {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest("POST", "/emails/send", strings.NewReader(body)))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %q: status %d, want 400", body, rec.Code)
		}
	}
}

func TestAnalyticsHandlerValidatesDates(t *testing.T) {
	r := newTestRouter(t)

	cases := []string{
		"/analytics/emails",
		"/analytics/emails?start=2024-01-01",
		"/analytics/emails?start=bad&end=2024-01-31",
		"/analytics/emails?start=2024-01-01&end=31-01-2024",
	}
	for _, path := range cases {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest("GET", path, nil))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status %d, want 400", path, rec.Code)
		}
	}
}

func TestGetTemplateHandlerUnknownName(t *testing.T) {
	r := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/templates/missing", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status %d, want 404", rec.Code)
	}
}

// internal/handler/email_handler.go
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	appErrors "github.com/unclebandit/coursemail-backend/internal/errors"
	"github.com/unclebandit/coursemail-backend/internal/model"
	"github.com/unclebandit/coursemail-backend/internal/service"
)

// EmailHandler holds the dependencies for email-related HTTP handlers
type EmailHandler struct {
	Service   *service.EmailService
	Templates *service.TemplateService
}

func NewEmailHandler(svc *service.EmailService, templates *service.TemplateService) *EmailHandler {
	return &EmailHandler{Service: svc, Templates: templates}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// SendEmailHandler queues a raw send request.
func (h *EmailHandler) SendEmailHandler(w http.ResponseWriter, r *http.Request) {
	var opts model.EmailOptions
	if err := json.NewDecoder(r.Body).Decode(&opts); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if len(opts.To) == 0 || opts.TemplateName == "" {
		http.Error(w, "to and template_name are required", http.StatusBadRequest)
		return
	}

	writeJSON(w, map[string]bool{"queued": h.Service.Send(opts)})
}

func (h *EmailHandler) SendVerificationHandler(w http.ResponseWriter, r *http.Request) {
	var ctx model.VerificationContext
	if err := json.NewDecoder(r.Body).Decode(&ctx); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, map[string]bool{"queued": h.Service.SendVerificationEmail(ctx)})
}

func (h *EmailHandler) SendEnrollmentHandler(w http.ResponseWriter, r *http.Request) {
	var ctx model.EnrollmentContext
	if err := json.NewDecoder(r.Body).Decode(&ctx); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, map[string]bool{"queued": h.Service.SendCourseEnrollmentEmail(ctx)})
}

func (h *EmailHandler) SendCompletionHandler(w http.ResponseWriter, r *http.Request) {
	var ctx model.CompletionContext
	if err := json.NewDecoder(r.Body).Decode(&ctx); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, map[string]bool{"queued": h.Service.SendCourseCompletionEmail(ctx)})
}

func (h *EmailHandler) SendForumHandler(w http.ResponseWriter, r *http.Request) {
	var ctx model.ForumContext
	if err := json.NewDecoder(r.Body).Decode(&ctx); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, map[string]bool{"queued": h.Service.SendForumNotificationEmail(ctx)})
}

// GetEmailStatusHandler returns the latest delivery attempt for an id.
func (h *EmailHandler) GetEmailStatusHandler(w http.ResponseWriter, r *http.Request) {
	deliveryID := chi.URLParam(r, "id")
	entry, err := h.Service.GetDeliveryStatus(deliveryID)
	if err != nil {
		var notFound *appErrors.ErrEmailLogNotFound
		if errors.As(err, &notFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, "failed to fetch delivery status: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, entry)
}

// GetPreferencesHandler lists every notification category with its
// opted-out status for one address.
func (h *EmailHandler) GetPreferencesHandler(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")
	statuses, err := h.Service.ListPreferences(email)
	if err != nil {
		http.Error(w, "failed to fetch preferences: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]interface{}{"email": email, "preferences": statuses})
}

func (h *EmailHandler) UpdatePreferenceHandler(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")

	var body struct {
		OptOut bool `json:"opt_out"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	pref, err := h.Service.UpdatePreference(email, body.OptOut)
	if err != nil {
		http.Error(w, "failed to update preference: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, pref)
}

// UnsubscribeHandler opts an address out after verifying the signed token
// from the email footer.
func (h *EmailHandler) UnsubscribeHandler(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if !h.Service.VerifyUnsubscribeToken(body.Email, body.Token) {
		http.Error(w, "invalid or expired unsubscribe token", http.StatusForbidden)
		return
	}

	pref, err := h.Service.UpdatePreference(body.Email, true)
	if err != nil {
		http.Error(w, "failed to update preference: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, pref)
}

// AnalyticsHandler reports grouped delivery counts for an inclusive date
// range: /analytics/emails?start=2024-01-01&end=2024-01-31&template=...
func (h *EmailHandler) AnalyticsHandler(w http.ResponseWriter, r *http.Request) {
	start, end, ok := parseDateRange(w, r)
	if !ok {
		return
	}

	rows, err := h.Service.GetAnalytics(start, end, r.URL.Query().Get("template"))
	if err != nil {
		http.Error(w, "failed to fetch analytics: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]interface{}{"data": rows})
}

func (h *EmailHandler) DailyStatsHandler(w http.ResponseWriter, r *http.Request) {
	start, end, ok := parseDateRange(w, r)
	if !ok {
		return
	}

	stats, err := h.Service.GetDailyStats(start, end, r.URL.Query().Get("template"))
	if err != nil {
		http.Error(w, "failed to fetch daily stats: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]interface{}{"data": stats})
}

func parseDateRange(w http.ResponseWriter, r *http.Request) (time.Time, time.Time, bool) {
	const layout = "2006-01-02"
	start, err := time.Parse(layout, r.URL.Query().Get("start"))
	if err != nil {
		http.Error(w, "invalid start date, want YYYY-MM-DD", http.StatusBadRequest)
		return time.Time{}, time.Time{}, false
	}
	end, err := time.Parse(layout, r.URL.Query().Get("end"))
	if err != nil {
		http.Error(w, "invalid end date, want YYYY-MM-DD", http.StatusBadRequest)
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

// GetTemplateHandler returns the resolved content for a template name,
// override or bundled.
func (h *EmailHandler) GetTemplateHandler(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	content, err := h.Templates.Resolve(name)
	if err != nil {
		var notFound *appErrors.ErrTemplateNotFound
		if errors.As(err, &notFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, "failed to resolve template: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]string{"name": name, "content": content})
}

// UpsertTemplateHandler stores a persisted override.
func (h *EmailHandler) UpsertTemplateHandler(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var body struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if body.Content == "" {
		http.Error(w, "content is required", http.StatusBadRequest)
		return
	}

	tpl, err := h.Templates.Repo.Upsert(name, body.Content)
	if err != nil {
		http.Error(w, "failed to save template: "+err.Error(), http.StatusInternalServerError)
		return
	}
	h.Templates.ClearCache()
	writeJSON(w, tpl)
}

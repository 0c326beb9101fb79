package controller_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/unclebandit/coursemail-backend/internal/controller"
	"github.com/unclebandit/coursemail-backend/internal/model"
	"github.com/unclebandit/coursemail-backend/internal/service"
)

// StubLogRepo records tracking hits.
type StubLogRepo struct {
	Opened  []string
	Clicked map[string]string
}

func (s *StubLogRepo) Create(entry *model.EmailLog) error { return nil }
func (s *StubLogRepo) GetByDeliveryID(deliveryID string) (*model.EmailLog, error) {
	return nil, nil
}
func (s *StubLogRepo) MarkOpened(deliveryID string) (bool, error) {
	s.Opened = append(s.Opened, deliveryID)
	return true, nil
}
func (s *StubLogRepo) MarkClicked(deliveryID, url string) (bool, error) {
	if s.Clicked == nil {
		s.Clicked = map[string]string{}
	}
	s.Clicked[deliveryID] = url
	return true, nil
}
func (s *StubLogRepo) GetAnalytics(start, end time.Time, templateName string) ([]model.EmailAnalyticsRow, error) {
	return nil, nil
}
func (s *StubLogRepo) GetDailyStats(start, end time.Time, templateName string) ([]model.DailyEmailStat, error) {
	return nil, nil
}

// StubPrefRepo records upserts.
type StubPrefRepo struct {
	Upserts map[string]bool
}

func (s *StubPrefRepo) GetByEmail(email string) (*model.EmailPreference, error) { return nil, nil }
func (s *StubPrefRepo) Upsert(email string, optOut bool) (*model.EmailPreference, error) {
	if s.Upserts == nil {
		s.Upserts = map[string]bool{}
	}
	s.Upserts[email] = optOut
	return &model.EmailPreference{Email: email, OptOut: optOut}, nil
}

func newRouter(logs *StubLogRepo, prefs *StubPrefRepo) (*chi.Mux, *service.EmailService) {
	svc := &service.EmailService{
		Logs:              logs,
		Prefs:             prefs,
		UnsubscribeSecret: "test-secret",
	}
	tc := controller.NewTrackingController(service.NewTrackingService(logs), svc)

	r := chi.NewRouter()
	r.Get("/track/open/{id}", tc.OpenHandler)
	r.Get("/track/click/{id}", tc.ClickHandler)
	r.Get("/unsubscribe", tc.UnsubscribeHandler)
	return r, svc
}

func TestOpenHandlerServesPixel(t *testing.T) {
	logs := &StubLogRepo{}
	r, _ := newRouter(logs, &StubPrefRepo{})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/track/open/d-1", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "image/gif" {
		t.Errorf("content type %q", got)
	}
	if rec.Body.Len() == 0 {
		t.Error("empty pixel body")
	}
	if len(logs.Opened) != 1 || logs.Opened[0] != "d-1" {
		t.Errorf("opens recorded: %v", logs.Opened)
	}
}

func TestClickHandlerRedirects(t *testing.T) {
	logs := &StubLogRepo{}
	r, _ := newRouter(logs, &StubPrefRepo{})

	target := "https://example.com/course?id=7"
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/track/click/d-1?url="+url.QueryEscape(target), nil))

	if rec.Code != http.StatusFound {
		t.Fatalf("status %d", rec.Code)
	}
	if got := rec.Header().Get("Location"); got != target {
		t.Errorf("redirected to %q", got)
	}
	if logs.Clicked["d-1"] != target {
		t.Errorf("clicks recorded: %v", logs.Clicked)
	}
}

func TestClickHandlerRequiresURL(t *testing.T) {
	r, _ := newRouter(&StubLogRepo{}, &StubPrefRepo{})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/track/click/d-1", nil))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status %d, want 400", rec.Code)
	}
}

func TestUnsubscribeHandlerOptsOut(t *testing.T) {
	prefs := &StubPrefRepo{}
	r, svc := newRouter(&StubLogRepo{}, prefs)

	token, err := svc.UnsubscribeToken("alice@example.com")
	if err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/unsubscribe?email=alice%40example.com&token="+token, nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	if !prefs.Upserts["alice@example.com"] {
		t.Error("address not opted out")
	}
	if !strings.Contains(rec.Body.String(), "unsubscribed") {
		t.Errorf("body %q", rec.Body.String())
	}
}

func TestUnsubscribeHandlerRejectsBadToken(t *testing.T) {
	prefs := &StubPrefRepo{}
	r, _ := newRouter(&StubLogRepo{}, prefs)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/unsubscribe?email=alice%40example.com&token=garbage", nil))

	if rec.Code != http.StatusForbidden {
		t.Errorf("status %d, want 403", rec.Code)
	}
	if len(prefs.Upserts) != 0 {
		t.Error("preference changed despite a bad token")
	}
}

// internal/service/tracking_service.go
package service

import (
	"fmt"
	"log"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/unclebandit/coursemail-backend/internal/repository"
)

// GenerateEmailID mints a delivery id. One id per logical send; retries
// re-use the id carried in the job.
func GenerateEmailID() string {
	return uuid.NewString()
}

// InjectTracking rewrites links through the click-redirect endpoint and
// appends a 1x1 open pixel. Pure and deterministic: same inputs, same
// output, no side effects.
func InjectTracking(html, deliveryID, baseURL string) string {
	result := replaceLinks(html, deliveryID, baseURL)

	pixel := fmt.Sprintf(`<img src="%s/track/open/%s" width="1" height="1" style="display:none" />`,
		baseURL, deliveryID)
	if strings.Contains(result, "</body>") {
		return strings.Replace(result, "</body>", pixel+"</body>", 1)
	}
	return result + pixel
}

// replaceLinks routes every http(s) href through /track/click carrying the
// delivery id and the original URL. Links already pointing at the tracker
// are left alone.
func replaceLinks(html, deliveryID, baseURL string) string {
	var b strings.Builder
	rest := html
	for {
		idx := strings.Index(rest, `href="http`)
		if idx == -1 {
			b.WriteString(rest)
			break
		}
		start := idx + len(`href="`)
		end := strings.Index(rest[start:], `"`)
		if end == -1 {
			b.WriteString(rest)
			break
		}

		original := rest[start : start+end]
		b.WriteString(rest[:start])
		if strings.Contains(original, "/track/") {
			b.WriteString(original)
		} else {
			b.WriteString(fmt.Sprintf("%s/track/click/%s?url=%s",
				baseURL, deliveryID, url.QueryEscape(original)))
		}
		rest = rest[start+end:]
	}
	return b.String()
}

// TrackingService records open/click hits against the email log.
type TrackingService struct {
	Logs repository.EmailLogRepositoryInterface
}

func NewTrackingService(logs repository.EmailLogRepositoryInterface) *TrackingService {
	return &TrackingService{Logs: logs}
}

// RecordOpen stamps the first open for a delivery id. Repeat pixel hits
// are no-ops; the repository update is conditional.
func (ts *TrackingService) RecordOpen(deliveryID string) error {
	first, err := ts.Logs.MarkOpened(deliveryID)
	if err != nil {
		return err
	}
	if first {
		log.Println("📬 first open recorded for", deliveryID)
	}
	return nil
}

// RecordClick stamps the first click and its URL for a delivery id.
func (ts *TrackingService) RecordClick(deliveryID, clickedURL string) error {
	first, err := ts.Logs.MarkClicked(deliveryID, clickedURL)
	if err != nil {
		return err
	}
	if first {
		log.Println("🔗 first click recorded for", deliveryID)
	}
	return nil
}

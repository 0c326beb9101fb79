// internal/service/email_service.go
package service

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"

	appErrors "github.com/unclebandit/coursemail-backend/internal/errors"
	"github.com/unclebandit/coursemail-backend/internal/mailer"
	"github.com/unclebandit/coursemail-backend/internal/model"
	"github.com/unclebandit/coursemail-backend/internal/queue"
	"github.com/unclebandit/coursemail-backend/internal/repository"
)

// EmailService is the dispatch core: it gates sends on opt-out, queues
// them for asynchronous delivery, and performs the actual
// render → track → transmit → log pipeline when a worker picks a job up.
type EmailService struct {
	Templates *TemplateService
	Logs      repository.EmailLogRepositoryInterface
	Prefs     repository.PreferenceRepositoryInterface
	Transport mailer.Transport
	Queue     queue.Queue

	FromAddress       string
	BaseURL           string // public base for tracking endpoints
	FrontendURL       string
	UnsubscribeSecret string
}

// Send queues an email for asynchronous delivery. Returns true if the
// request was queued, false if any recipient opted out or enqueuing
// failed. Delivery outcome is reported only through the email log.
func (s *EmailService) Send(opts model.EmailOptions) bool {
	if s.IsOptedOut(opts.To...) {
		log.Printf("recipient opted out of %s emails: %s", opts.TemplateName, strings.Join(opts.To, ", "))
		return false
	}

	job := model.SendJob{
		Options:    opts,
		DeliveryID: GenerateEmailID(),
	}

	if err := s.Queue.Publish(queue.EmailSendTopic, job); err != nil {
		log.Println("⚠️ failed to queue email:", err)
		return false
	}

	return true
}

// SendImmediate delivers synchronously, bypassing the queue. A fresh
// delivery id is minted per call.
func (s *EmailService) SendImmediate(opts model.EmailOptions) bool {
	return s.deliver(opts, GenerateEmailID()) == nil
}

// ProcessJob is the worker entry point. The error return feeds the queue
// retry layer; the job's delivery id is re-used on every attempt so
// tracking stays bound to the original send.
func (s *EmailService) ProcessJob(job model.SendJob) error {
	deliveryID := job.DeliveryID
	if deliveryID == "" {
		deliveryID = GenerateEmailID()
	}
	return s.deliver(job.Options, deliveryID)
}

// deliver runs resolve → render → track → transmit and writes exactly one
// log row for the attempt. All failures are captured here; nothing
// escapes except the error handed to the retry layer.
func (s *EmailService) deliver(opts model.EmailOptions, deliveryID string) error {
	content, err := s.Templates.Resolve(opts.TemplateName)
	if err != nil {
		s.logFailure(deliveryID, opts, err)
		return err
	}

	html, err := s.Templates.Render(opts.TemplateName, content, opts.Context)
	if err != nil {
		s.logFailure(deliveryID, opts, err)
		return err
	}

	if !opts.SkipTracking {
		html = InjectTracking(html, deliveryID, s.BaseURL)
	}

	messageID, err := s.Transport.Send(&model.MailMessage{
		From:        s.FromAddress,
		To:          opts.To,
		CC:          opts.CC,
		BCC:         opts.BCC,
		Subject:     opts.Subject,
		HTML:        html,
		Attachments: opts.Attachments,
	})
	if err != nil {
		log.Println("⚠️ failed to send email:", err)
		s.logFailure(deliveryID, opts, err)
		return err
	}

	s.logEmail(&model.EmailLog{
		DeliveryID:   deliveryID,
		Recipient:    strings.Join(opts.To, ", "),
		Subject:      opts.Subject,
		TemplateName: opts.TemplateName,
		MessageID:    messageID,
		Status:       model.EmailStatusSent,
	})
	return nil
}

func (s *EmailService) logEmail(entry *model.EmailLog) {
	if err := s.Logs.Create(entry); err != nil {
		log.Println("⚠️ failed to write email log:", err)
	}
}

func (s *EmailService) logFailure(deliveryID string, opts model.EmailOptions, cause error) {
	s.logEmail(&model.EmailLog{
		DeliveryID:   deliveryID,
		Recipient:    strings.Join(opts.To, ", "),
		Subject:      opts.Subject,
		TemplateName: opts.TemplateName,
		Status:       model.EmailStatusFailed,
		Error:        cause.Error(),
	})
}

// IsOptedOut reports whether any of the addresses has opted out. Lookup
// failures count as opted-in so a flaky preference store cannot block
// legitimate sends.
func (s *EmailService) IsOptedOut(emails ...string) bool {
	for _, email := range emails {
		pref, err := s.Prefs.GetByEmail(email)
		if err != nil {
			log.Println("⚠️ preference lookup failed for", email, ":", err)
			continue
		}
		if pref != nil && pref.OptOut {
			return true
		}
	}
	return false
}

// UpdatePreference upserts the opt-out flag for an address.
func (s *EmailService) UpdatePreference(email string, optOut bool) (*model.EmailPreference, error) {
	return s.Prefs.Upsert(email, optOut)
}

// ListPreferences enumerates every notification category with its
// opted-out status. The flag is global, not per category, so each entry
// reports the same value.
func (s *EmailService) ListPreferences(email string) ([]model.PreferenceStatus, error) {
	pref, err := s.Prefs.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	optedOut := pref != nil && pref.OptOut

	types := model.EmailTypes()
	statuses := make([]model.PreferenceStatus, len(types))
	for i, t := range types {
		statuses[i] = model.PreferenceStatus{EmailType: t, OptedOut: optedOut}
	}
	return statuses, nil
}

const unsubscribeTokenTTL = 30 * 24 * time.Hour

// UnsubscribeToken mints a signed, expiring token bound to the address.
func (s *EmailService) UnsubscribeToken(email string) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   email,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(unsubscribeTokenTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.UnsubscribeSecret))
}

// VerifyUnsubscribeToken checks signature, expiry, and that the token was
// issued for this address.
func (s *EmailService) VerifyUnsubscribeToken(email, tokenString string) bool {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.UnsubscribeSecret), nil
	})
	if err != nil || !token.Valid {
		return false
	}
	return claims.Subject == email
}

// GetDeliveryStatus returns the latest log row for a delivery id.
func (s *EmailService) GetDeliveryStatus(deliveryID string) (*model.EmailLog, error) {
	entry, err := s.Logs.GetByDeliveryID(deliveryID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, appErrors.NewEmailLogNotFound(deliveryID)
	}
	return entry, nil
}

// GetAnalytics reports delivery counts grouped by template and status
// over an inclusive date range, optionally filtered to one template.
func (s *EmailService) GetAnalytics(start, end time.Time, templateName string) ([]model.EmailAnalyticsRow, error) {
	return s.Logs.GetAnalytics(start, endExclusive(end), templateName)
}

// GetDailyStats reports per-day sent/failed counts over an inclusive
// date range.
func (s *EmailService) GetDailyStats(start, end time.Time, templateName string) ([]model.DailyEmailStat, error) {
	return s.Logs.GetDailyStats(start, endExclusive(end), templateName)
}

// endExclusive turns an inclusive end date into the exclusive bound the
// repository queries expect.
func endExclusive(end time.Time) time.Time {
	return end.AddDate(0, 0, 1)
}

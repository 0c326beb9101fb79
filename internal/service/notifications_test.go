package service_test

import (
	"strings"
	"testing"
	"time"

	"github.com/unclebandit/coursemail-backend/internal/model"
)

func TestSendVerificationEmailBuildsContext(t *testing.T) {
	svc, _, _ := newTestService(t, nil)
	capture := &CaptureQueue{}
	svc.Queue = capture

	ok := svc.SendVerificationEmail(model.VerificationContext{
		Email:             "alice@example.com",
		Name:              "Alice",
		VerificationCode:  "123456",
		VerificationToken: "tok-abc",
	})
	if !ok {
		t.Fatal("send was not queued")
	}

	job := capture.Jobs[0]
	if job.Options.TemplateName != model.EmailTypeVerification {
		t.Errorf("template %q", job.Options.TemplateName)
	}
	if job.Options.Subject != "Verify Your Email Address" {
		t.Errorf("subject %q", job.Options.Subject)
	}
	if got := job.Options.Context["verificationUrl"].(string); !strings.Contains(got, "token=tok-abc") {
		t.Errorf("verification url %q missing token", got)
	}
	if job.Options.Context["verificationCode"] != "123456" {
		t.Error("verification code missing from context")
	}
	if got := job.Options.Context["unsubscribeUrl"].(string); !strings.Contains(got, "token=") {
		t.Errorf("unsubscribe url %q carries no signed token", got)
	}
	if job.Options.Context["year"] != time.Now().Year() {
		t.Error("year missing from context")
	}
}

func TestSendVerificationEmailRejectsMissingToken(t *testing.T) {
	svc, _, _ := newTestService(t, nil)
	capture := &CaptureQueue{}
	svc.Queue = capture

	if svc.SendVerificationEmail(model.VerificationContext{Email: "alice@example.com"}) {
		t.Error("queued without a verification token")
	}
	if len(capture.Jobs) != 0 {
		t.Error("job published for an invalid context")
	}
}

func TestSendCourseEnrollmentEmailBuildsContext(t *testing.T) {
	svc, _, _ := newTestService(t, nil)
	capture := &CaptureQueue{}
	svc.Queue = capture

	start := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	ok := svc.SendCourseEnrollmentEmail(model.EnrollmentContext{
		Email:          "alice@example.com",
		Name:           "Alice",
		CourseID:       "go-101",
		CourseName:     "Intro to Go",
		InstructorName: "Rob",
		StartDate:      start,
		Duration:       "6 weeks",
	})
	if !ok {
		t.Fatal("send was not queued")
	}

	job := capture.Jobs[0]
	if job.Options.Subject != "Enrollment Confirmation: Intro to Go" {
		t.Errorf("subject %q", job.Options.Subject)
	}
	if got := job.Options.Context["courseUrl"].(string); !strings.HasSuffix(got, "/courses/go-101") {
		t.Errorf("course url %q", got)
	}
	if job.Options.Context["startDate"] != "September 14, 2026" {
		t.Errorf("start date %v", job.Options.Context["startDate"])
	}
}

func TestSendCourseCompletionEmailBuildsContext(t *testing.T) {
	svc, _, _ := newTestService(t, nil)
	capture := &CaptureQueue{}
	svc.Queue = capture

	ok := svc.SendCourseCompletionEmail(model.CompletionContext{
		Email:      "alice@example.com",
		Name:       "Alice",
		CourseID:   "go-101",
		CourseName: "Intro to Go",
		Score:      97.5,
	})
	if !ok {
		t.Fatal("send was not queued")
	}

	job := capture.Jobs[0]
	if job.Options.Subject != "Congratulations on Completing Intro to Go!" {
		t.Errorf("subject %q", job.Options.Subject)
	}
	if got := job.Options.Context["certificateUrl"].(string); !strings.HasSuffix(got, "/certificates/go-101") {
		t.Errorf("certificate url %q", got)
	}
	if job.Options.Context["score"] != 97.5 {
		t.Error("score missing from context")
	}
}

func TestSendForumNotificationEmailBuildsContext(t *testing.T) {
	svc, _, _ := newTestService(t, nil)
	capture := &CaptureQueue{}
	svc.Queue = capture

	ok := svc.SendForumNotificationEmail(model.ForumContext{
		Email:      "alice@example.com",
		Name:       "Alice",
		PostID:     "42",
		Type:       "New Reply",
		Message:    "Bob replied to your post",
		PostAuthor: "Bob",
		PostDate:   time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
	})
	if !ok {
		t.Fatal("send was not queued")
	}

	job := capture.Jobs[0]
	if job.Options.Subject != "Forum Notification: New Reply" {
		t.Errorf("subject %q", job.Options.Subject)
	}
	if got := job.Options.Context["postUrl"].(string); !strings.HasSuffix(got, "/forum/posts/42") {
		t.Errorf("post url %q", got)
	}
	if job.Options.Context["notificationMessage"] != "Bob replied to your post" {
		t.Error("message missing from context")
	}
}

func TestBuildersRespectOptOut(t *testing.T) {
	svc, _, _ := newTestService(t, nil)
	svc.Prefs = &MockPrefRepo{OptOuts: map[string]bool{"bob@example.com": true}}
	capture := &CaptureQueue{}
	svc.Queue = capture

	ok := svc.SendForumNotificationEmail(model.ForumContext{
		Email:  "bob@example.com",
		PostID: "42",
	})
	if ok || len(capture.Jobs) != 0 {
		t.Error("builder bypassed the opt-out gate")
	}
}

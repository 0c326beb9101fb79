// internal/service/notifications.go
package service

import (
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/unclebandit/coursemail-backend/internal/model"
)

// The four notification builders. Each one assembles a normalized send
// request from a typed context and hands it to Send; they never touch
// preferences or I/O themselves.

const dateLayout = "January 2, 2006"

func (s *EmailService) SendVerificationEmail(ctx model.VerificationContext) bool {
	if err := ctx.Validate(); err != nil {
		log.Println("⚠️ rejected verification email:", err)
		return false
	}

	verificationURL := fmt.Sprintf("%s/verify-email?token=%s", s.FrontendURL, url.QueryEscape(ctx.VerificationToken))

	return s.Send(model.EmailOptions{
		To:           []string{ctx.Email},
		Subject:      "Verify Your Email Address",
		TemplateName: model.EmailTypeVerification,
		Context: map[string]interface{}{
			"name":             ctx.Name,
			"verificationUrl":  verificationURL,
			"verificationCode": ctx.VerificationCode,
			"expiryTime":       24,
			"unsubscribeUrl":   s.unsubscribeURL(ctx.Email),
			"year":             time.Now().Year(),
		},
	})
}

func (s *EmailService) SendCourseEnrollmentEmail(ctx model.EnrollmentContext) bool {
	if err := ctx.Validate(); err != nil {
		log.Println("⚠️ rejected enrollment email:", err)
		return false
	}

	courseURL := fmt.Sprintf("%s/courses/%s", s.FrontendURL, ctx.CourseID)

	return s.Send(model.EmailOptions{
		To:           []string{ctx.Email},
		Subject:      fmt.Sprintf("Enrollment Confirmation: %s", ctx.CourseName),
		TemplateName: model.EmailTypeEnrollment,
		Context: map[string]interface{}{
			"name":           ctx.Name,
			"courseName":     ctx.CourseName,
			"instructorName": ctx.InstructorName,
			"startDate":      ctx.StartDate.Format(dateLayout),
			"duration":       ctx.Duration,
			"courseUrl":      courseURL,
			"unsubscribeUrl": s.unsubscribeURL(ctx.Email),
			"year":           time.Now().Year(),
		},
	})
}

func (s *EmailService) SendCourseCompletionEmail(ctx model.CompletionContext) bool {
	if err := ctx.Validate(); err != nil {
		log.Println("⚠️ rejected completion email:", err)
		return false
	}

	certificateURL := fmt.Sprintf("%s/certificates/%s", s.FrontendURL, ctx.CourseID)
	courseCatalogURL := fmt.Sprintf("%s/courses", s.FrontendURL)

	return s.Send(model.EmailOptions{
		To:           []string{ctx.Email},
		Subject:      fmt.Sprintf("Congratulations on Completing %s!", ctx.CourseName),
		TemplateName: model.EmailTypeCompletion,
		Context: map[string]interface{}{
			"name":             ctx.Name,
			"courseName":       ctx.CourseName,
			"score":            ctx.Score,
			"completionDate":   time.Now().Format(dateLayout),
			"certificateUrl":   certificateURL,
			"courseCatalogUrl": courseCatalogURL,
			"unsubscribeUrl":   s.unsubscribeURL(ctx.Email),
			"year":             time.Now().Year(),
		},
	})
}

func (s *EmailService) SendForumNotificationEmail(ctx model.ForumContext) bool {
	if err := ctx.Validate(); err != nil {
		log.Println("⚠️ rejected forum email:", err)
		return false
	}

	postURL := fmt.Sprintf("%s/forum/posts/%s", s.FrontendURL, ctx.PostID)

	return s.Send(model.EmailOptions{
		To:           []string{ctx.Email},
		Subject:      fmt.Sprintf("Forum Notification: %s", ctx.Type),
		TemplateName: model.EmailTypeForum,
		Context: map[string]interface{}{
			"name":                ctx.Name,
			"notificationType":    ctx.Type,
			"notificationMessage": ctx.Message,
			"postAuthor":          ctx.PostAuthor,
			"postDate":            ctx.PostDate.Format(dateLayout),
			"postContent":         ctx.PostContent,
			"postUrl":             postURL,
			"unsubscribeUrl":      s.unsubscribeURL(ctx.Email),
			"year":                time.Now().Year(),
		},
	})
}

// unsubscribeURL builds the preferences link with a signed token so the
// unsubscribe endpoint can verify the request actually came from an email
// we sent.
func (s *EmailService) unsubscribeURL(email string) string {
	token, err := s.UnsubscribeToken(email)
	if err != nil {
		log.Println("⚠️ failed to sign unsubscribe token:", err)
		return fmt.Sprintf("%s/preferences?email=%s", s.FrontendURL, url.QueryEscape(email))
	}
	return fmt.Sprintf("%s/preferences?email=%s&token=%s", s.FrontendURL, url.QueryEscape(email), token)
}

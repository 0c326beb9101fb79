// internal/model/notification.go
package model

import (
	"fmt"
	"time"
)

// Notification template names. These match the bundled template files.
const (
	EmailTypeVerification = "email-verification"
	EmailTypeEnrollment   = "course-enrollment"
	EmailTypeCompletion   = "course-completion"
	EmailTypeForum        = "forum-notification"
)

// EmailTypes lists every notification category, in a fixed order.
func EmailTypes() []string {
	return []string{
		EmailTypeVerification,
		EmailTypeEnrollment,
		EmailTypeCompletion,
		EmailTypeForum,
	}
}

// VerificationContext is the input for an email-verification notification.
type VerificationContext struct {
	Email             string `json:"email"`
	Name              string `json:"name"`
	VerificationCode  string `json:"verification_code"`
	VerificationToken string `json:"verification_token"`
}

func (c VerificationContext) Validate() error {
	if c.Email == "" {
		return fmt.Errorf("verification: email is required")
	}
	if c.VerificationToken == "" {
		return fmt.Errorf("verification: token is required")
	}
	return nil
}

// EnrollmentContext is the input for a course-enrollment notification.
type EnrollmentContext struct {
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	CourseID       string    `json:"course_id"`
	CourseName     string    `json:"course_name"`
	InstructorName string    `json:"instructor_name"`
	StartDate      time.Time `json:"start_date"`
	Duration       string    `json:"duration"`
}

func (c EnrollmentContext) Validate() error {
	if c.Email == "" {
		return fmt.Errorf("enrollment: email is required")
	}
	if c.CourseID == "" || c.CourseName == "" {
		return fmt.Errorf("enrollment: course id and name are required")
	}
	return nil
}

// CompletionContext is the input for a course-completion notification.
type CompletionContext struct {
	Email      string  `json:"email"`
	Name       string  `json:"name"`
	CourseID   string  `json:"course_id"`
	CourseName string  `json:"course_name"`
	Score      float64 `json:"score"`
}

func (c CompletionContext) Validate() error {
	if c.Email == "" {
		return fmt.Errorf("completion: email is required")
	}
	if c.CourseID == "" || c.CourseName == "" {
		return fmt.Errorf("completion: course id and name are required")
	}
	return nil
}

// ForumContext is the input for a forum-notification email.
type ForumContext struct {
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	PostID      string    `json:"post_id"`
	Type        string    `json:"type"` // reply, mention, ...
	Message     string    `json:"message"`
	PostAuthor  string    `json:"post_author"`
	PostContent string    `json:"post_content"`
	PostDate    time.Time `json:"post_date"`
}

func (c ForumContext) Validate() error {
	if c.Email == "" {
		return fmt.Errorf("forum: email is required")
	}
	if c.PostID == "" {
		return fmt.Errorf("forum: post id is required")
	}
	return nil
}

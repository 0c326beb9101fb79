// internal/mailer/mailer.go
package mailer

import (
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/gomail.v2"

	"github.com/unclebandit/coursemail-backend/internal/model"
)

// Transport sends a rendered mail message and returns the transport
// message id. Implementations must be safe to call repeatedly for the
// same logical send (retries re-use the delivery id, not the message id).
type Transport interface {
	Send(msg *model.MailMessage) (string, error)
}

// SMTPSender delivers mail over SMTP via gomail. Constructed once at
// startup from configuration and injected into the dispatcher.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
	domain string
}

func NewSMTPSender(host string, port int, secure bool, user, password, from string) *SMTPSender {
	d := gomail.NewDialer(host, port, user, password)
	d.SSL = secure

	domain := host
	if at := strings.LastIndex(from, "@"); at != -1 {
		domain = from[at+1:]
	}

	log.Printf("mailer: initialized SMTP sender host=%s port=%d secure=%v", host, port, secure)
	return &SMTPSender{dialer: d, from: from, domain: domain}
}

func (s *SMTPSender) Send(msg *model.MailMessage) (string, error) {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To...)
	if len(msg.CC) > 0 {
		m.SetHeader("Cc", msg.CC...)
	}
	if len(msg.BCC) > 0 {
		m.SetHeader("Bcc", msg.BCC...)
	}
	m.SetHeader("Subject", msg.Subject)

	// Message-ID is assigned here so the caller gets it back even though
	// SMTP itself has no send receipt.
	messageID := fmt.Sprintf("<%s@%s>", uuid.NewString(), s.domain)
	m.SetHeader("Message-ID", messageID)

	m.SetBody("text/html", msg.HTML)

	for _, att := range msg.Attachments {
		content := att.Content
		settings := []gomail.FileSetting{
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(content)
				return err
			}),
		}
		if att.ContentType != "" {
			settings = append(settings, gomail.SetHeader(map[string][]string{
				"Content-Type": {att.ContentType},
			}))
		}
		m.Attach(att.Filename, settings...)
	}

	if err := s.dialer.DialAndSend(m); err != nil {
		return "", err
	}
	return messageID, nil
}

var _ Transport = (*SMTPSender)(nil)

// internal/model/email.go
package model

// Attachment is a binary file included with an outgoing email.
type Attachment struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Content     []byte `json:"content"`
}

// EmailOptions describes one send request. It is immutable once submitted:
// the dispatcher copies it into a SendJob and never writes it back.
type EmailOptions struct {
	To           []string               `json:"to"`
	Subject      string                 `json:"subject"`
	TemplateName string                 `json:"template_name"`
	Context      map[string]interface{} `json:"context"`
	CC           []string               `json:"cc,omitempty"`
	BCC          []string               `json:"bcc,omitempty"`
	Attachments  []Attachment           `json:"attachments,omitempty"`
	SkipTracking bool                   `json:"skip_tracking,omitempty"`
}

// MailMessage is the fully rendered message handed to the transport.
type MailMessage struct {
	From        string
	To          []string
	CC          []string
	BCC         []string
	Subject     string
	HTML        string
	Attachments []Attachment
}

// SendJob is the queue payload: the original options plus the delivery id
// minted at enqueue time. Retries re-use the same DeliveryID so tracking
// stays consistent across attempts.
type SendJob struct {
	Options    EmailOptions `json:"options"`
	DeliveryID string       `json:"delivery_id"`
	Attempt    int          `json:"attempt"`
}

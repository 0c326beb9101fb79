// internal/errors/errors.go
package appErrors

import "fmt"

// ErrTemplateNotFound means neither a persisted override nor a bundled
// default exists for the template name. Fatal for the single send.
type ErrTemplateNotFound struct {
	Name string
}

func (e *ErrTemplateNotFound) Error() string {
	return fmt.Sprintf("email template %q not found", e.Name)
}

// Helper constructor
func NewTemplateNotFound(name string) error {
	return &ErrTemplateNotFound{Name: name}
}

// ErrEmailLogNotFound is returned when a delivery id has no log row.
type ErrEmailLogNotFound struct {
	ID string
}

func (e *ErrEmailLogNotFound) Error() string {
	return fmt.Sprintf("email log %q not found", e.ID)
}

func NewEmailLogNotFound(id string) error {
	return &ErrEmailLogNotFound{ID: id}
}

package handlers

import (
	"github.com/dmitrymomot/mailcast/pkg/dispatch"
	"github.com/dmitrymomot/mailcast/pkg/validator"
)

// SendRequest is the body of every dispatch route.
type SendRequest struct {
	To          []string `json:"to"`
	Subject     string   `json:"subject"`
	FromName    string   `json:"fromName"`
	FromEmail   string   `json:"fromEmail"`
	HTMLContent string   `json:"htmlContent"`
}

// Validate checks the request before any stream is opened. An empty
// recipient list is accepted; a missing one is not.
func (r *SendRequest) Validate() error {
	return validator.Apply(
		validator.PresentSlice("to", r.To),
		validator.RequiredString("subject", r.Subject),
		validator.RequiredString("fromName", r.FromName),
		validator.RequiredString("fromEmail", r.FromEmail),
		validator.Check("fromEmail", r.FromEmail == "" || dispatch.IsWellFormed(r.FromEmail),
			"email", "must be a valid email address"),
		validator.RequiredString("htmlContent", r.HTMLContent),
	)
}

// Dispatch converts the request into a dispatch.Request.
func (r *SendRequest) Dispatch() dispatch.Request {
	return dispatch.Request{
		Recipients:  r.To,
		Subject:     r.Subject,
		FromName:    r.FromName,
		FromAddress: r.FromEmail,
		HTML:        r.HTMLContent,
	}
}

// ListRequest creates or replaces a recipient list.
type ListRequest struct {
	Name        string   `json:"name"`
	Emails      []string `json:"emails"`
	Description string   `json:"description"`
}

func (r *ListRequest) Validate() error {
	return validator.Apply(
		validator.RequiredString("name", r.Name),
		validator.PresentSlice("emails", r.Emails),
	)
}

// Import formats accepted by the parse route.
const (
	FormatText = "text"
	FormatCSV  = "csv"
)

// ParseRequest extracts addresses from pasted text or CSV content.
type ParseRequest struct {
	Text   string `json:"text"`
	Format string `json:"format"`
}

func (r *ParseRequest) Validate() error {
	return validator.Apply(
		validator.Check("format", r.Format == "" || r.Format == FormatText || r.Format == FormatCSV,
			"one_of", "must be one of: text, csv"),
	)
}

// RemoveFailuresRequest deletes selected failure log entries.
type RemoveFailuresRequest struct {
	IDs []string `json:"ids"`
}

func (r *RemoveFailuresRequest) Validate() error {
	return validator.Apply(validator.RequiredSlice("ids", r.IDs))
}

// FilterRequest removes previously failed addresses from a recipient list.
type FilterRequest struct {
	Emails []string `json:"emails"`
}

func (r *FilterRequest) Validate() error {
	return validator.Apply(validator.PresentSlice("emails", r.Emails))
}

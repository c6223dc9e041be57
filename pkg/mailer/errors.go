package mailer

import "errors"

var (
	// ErrNoRecipient indicates no recipient was specified.
	ErrNoRecipient = errors.New("mailer: email must have at least one recipient")

	// ErrNoSubject indicates no subject was provided.
	ErrNoSubject = errors.New("mailer: email must have a subject")

	// ErrNoContent indicates no HTML content was provided.
	ErrNoContent = errors.New("mailer: email must have HTML content")

	// ErrNotConfigured indicates the provider is missing credentials or
	// settings and cannot send anything.
	ErrNotConfigured = errors.New("mailer: provider not configured")

	// ErrUnavailable indicates the provider rejected the account itself
	// (bad credentials, suspended sending). No later message will succeed.
	ErrUnavailable = errors.New("mailer: provider unavailable")

	// ErrSendFailed indicates a single message could not be delivered.
	ErrSendFailed = errors.New("mailer: failed to send email")

	// ErrInvalidFrontmatter indicates invalid YAML frontmatter.
	ErrInvalidFrontmatter = errors.New("mailer: invalid frontmatter")

	// ErrRenderFailed indicates the draft body could not be rendered.
	ErrRenderFailed = errors.New("mailer: failed to render draft")
)

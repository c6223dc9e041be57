package mailcast

import "errors"

var (
	// ErrUnknownTransport is returned for a MAIL_TRANSPORT value with no sender.
	ErrUnknownTransport = errors.New("mailcast: unknown mail transport")

	// ErrUnknownStorage is returned for a STORAGE_DRIVER value with no backend.
	ErrUnknownStorage = errors.New("mailcast: unknown storage driver")
)

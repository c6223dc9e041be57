package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/mailcast/internal"
	"github.com/dmitrymomot/mailcast/internal/failurelog"
	"github.com/dmitrymomot/mailcast/internal/recipientlist"
	"github.com/dmitrymomot/mailcast/middlewares"
	"github.com/dmitrymomot/mailcast/pkg/validator"
)

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Error     string `json:"error"`
	Details   any    `json:"details,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

// ErrorHandler renders handler errors as JSON.
//
// Validation errors become 422 with per-field messages, *internal.HTTPError
// keeps its status, unknown list or failure ids become 404, and everything
// else is logged and reported as a bare 500.
func ErrorHandler(c internal.Context, err error) error {
	resp := ErrorResponse{RequestID: middlewares.GetRequestID(c)}
	code := http.StatusInternalServerError

	switch {
	case validator.IsValidationError(err):
		code = http.StatusUnprocessableEntity
		resp.Error = "validation failed"
		resp.Details = validator.ExtractValidationErrors(err).Fields()

	case internal.IsHTTPError(err):
		he := internal.AsHTTPError(err)
		code = he.Code
		resp.Error = he.Message
		switch {
		case len(he.Fields) > 0:
			resp.Details = he.Fields
		case he.Detail != "":
			resp.Details = he.Detail
		}
		if code >= http.StatusInternalServerError {
			c.LogError("request failed", slog.Int("status", code), slog.Any("error", err))
		}

	case errors.Is(err, recipientlist.ErrNotFound), errors.Is(err, failurelog.ErrNotFound):
		code = http.StatusNotFound
		resp.Error = err.Error()

	case middlewares.IsPanicError(err):
		resp.Error = http.StatusText(code)

	default:
		c.LogError("unhandled error", slog.String("error", err.Error()))
		resp.Error = http.StatusText(code)
	}

	return c.JSON(code, resp)
}

// NotFound renders unknown routes through ErrorHandler.
func NotFound(internal.Context) error {
	return internal.ErrNotFound("route not found")
}

// MethodNotAllowed renders known routes hit with the wrong method.
func MethodNotAllowed(internal.Context) error {
	return internal.ErrMethodNotAllowed("method not allowed")
}

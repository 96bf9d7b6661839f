package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/i18ndata/pkg/blobstore"
	"github.com/dmitrymomot/i18ndata/pkg/locale"
	"github.com/dmitrymomot/i18ndata/pkg/provider"
)

// HTTPError is an error with the status and body it renders to.
type HTTPError struct {
	// Err is logged but never rendered.
	Err error `json:"-"`

	Code      int    `json:"-"`
	Message   string `json:"message"`
	ErrorCode string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func (e *HTTPError) Error() string { return e.Message }

func (e *HTTPError) Unwrap() error { return e.Err }

// NewHTTPError creates an error rendered with code and message.
func NewHTTPError(code int, errorCode, message string, err error) *HTTPError {
	return &HTTPError{Code: code, ErrorCode: errorCode, Message: message, Err: err}
}

func errBadRequest(errorCode, message string, err error) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, errorCode, message, err)
}

func errNotFound(errorCode, message string, err error) *HTTPError {
	return NewHTTPError(http.StatusNotFound, errorCode, message, err)
}

// toHTTPError maps package errors onto responses.
func toHTTPError(err error) *HTTPError {
	var he *HTTPError
	if errors.As(err, &he) {
		return he
	}

	var missing *provider.MissingPayloadError
	switch {
	case errors.As(err, &missing):
		return errNotFound("missing_payload", missing.Error(), err)
	case errors.Is(err, locale.ErrInvalid), errors.Is(err, locale.ErrEmpty):
		return errBadRequest("invalid_locale", err.Error(), err)
	case errors.Is(err, provider.ErrTypeMismatch):
		return NewHTTPError(http.StatusInternalServerError, "type_mismatch", "payload has an unexpected type", err)
	case errors.Is(err, blobstore.ErrNotLoaded):
		return NewHTTPError(http.StatusServiceUnavailable, "table_not_loaded", "data table is not loaded", err)
	}
	return NewHTTPError(http.StatusInternalServerError, "internal", http.StatusText(http.StatusInternalServerError), err)
}

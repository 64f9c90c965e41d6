// Package errors provides the standardized error type shared by the HTML and
// JSON surfaces of the site.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeSessionNotFound         ErrorCode = "SESSION_NOT_FOUND"
	ErrCodeSessionStoreUnavailable ErrorCode = "SESSION_STORE_UNAVAILABLE"

	ErrCodeUnknownField   ErrorCode = "UNKNOWN_FIELD"
	ErrCodeFieldNotOnStep ErrorCode = "FIELD_NOT_ON_STEP"
	ErrCodeResultsFinal   ErrorCode = "RESULTS_FINAL"
	ErrCodeStepIncomplete ErrorCode = "STEP_INCOMPLETE"

	ErrCodeServiceNotFound ErrorCode = "SERVICE_NOT_FOUND"

	ErrCodeFormValidationFailed ErrorCode = "FORM_VALIDATION_FAILED"
	ErrCodeSubmissionInProgress ErrorCode = "SUBMISSION_IN_PROGRESS"

	ErrCodeBadRequest  ErrorCode = "BAD_REQUEST"
	ErrCodeRateLimited ErrorCode = "RATE_LIMITED"
	ErrCodeInternal    ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Is matches another StandardError by code, so errors.Is(err, &StandardError{Code: X}) works.
func (e *StandardError) Is(target error) bool {
	t, ok := target.(*StandardError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithMetadata returns e with key set in its metadata.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

func newError(code ErrorCode, message, details string, retryable bool) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 2. Error Constructors
// ==========================

// NewSessionNotFoundError reports an unknown or expired wizard session.
func NewSessionNotFoundError(sessionID string) *StandardError {
	return newError(ErrCodeSessionNotFound, "Assessment session not found",
		fmt.Sprintf("sessionId: %s", sessionID), false)
}

// NewSessionStoreUnavailableError wraps a backend failure of the session store.
func NewSessionStoreUnavailableError(err error) *StandardError {
	return newError(ErrCodeSessionStoreUnavailable, "Session store unavailable", err.Error(), true)
}

// NewUnknownFieldError reports an update to a field the assessment does not have.
func NewUnknownFieldError(field string) *StandardError {
	return newError(ErrCodeUnknownField, "Unknown assessment field",
		fmt.Sprintf("field: %s", field), false)
}

// NewFieldNotOnStepError reports an answer for a field the current step does
// not ask for.
func NewFieldNotOnStepError(field string, step int, stepFields []string) *StandardError {
	return newError(ErrCodeFieldNotOnStep, "Field is not part of the current step",
		fmt.Sprintf("field %s, step %d accepts: %s", field, step, strings.Join(stepFields, ", ")), false).
		WithMetadata("step", step).
		WithMetadata("stepFields", stepFields)
}

// NewResultsFinalError reports an attempt to step back once results are shown.
func NewResultsFinalError() *StandardError {
	return newError(ErrCodeResultsFinal, "Assessment results are final",
		"returning from results is not supported", false)
}

// NewStepIncompleteError lists the fields still empty on the current step.
func NewStepIncompleteError(step int, missing []string) *StandardError {
	return newError(ErrCodeStepIncomplete, "Please complete all required fields",
		fmt.Sprintf("step %d missing: %s", step, strings.Join(missing, ", ")), false).
		WithMetadata("step", step).
		WithMetadata("missingFields", missing)
}

// NewServiceNotFoundError reports an unknown service identifier.
func NewServiceNotFoundError(serviceID string) *StandardError {
	return newError(ErrCodeServiceNotFound, "Service Not Found",
		fmt.Sprintf("serviceId: %s", serviceID), false)
}

// NewFormValidationFailedError carries per-field messages from schema validation.
func NewFormValidationFailedError(form string, fieldErrors map[string]string) *StandardError {
	return newError(ErrCodeFormValidationFailed, "Form validation failed",
		fmt.Sprintf("form: %s, %d field errors", form, len(fieldErrors)), false).
		WithMetadata("fieldErrors", fieldErrors)
}

// NewSubmissionInProgressError is returned while an identical submission is in flight.
func NewSubmissionInProgressError(form string) *StandardError {
	return newError(ErrCodeSubmissionInProgress, "Submission already in progress",
		fmt.Sprintf("form: %s", form), true)
}

// NewBadRequestError reports an unparseable request.
func NewBadRequestError(details string) *StandardError {
	return newError(ErrCodeBadRequest, "Malformed request", details, false)
}

// NewRateLimitedError reports a client over its request budget.
func NewRateLimitedError() *StandardError {
	return newError(ErrCodeRateLimited, "Too many requests", "", true)
}

// NewInternalError wraps an unexpected failure.
func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", err.Error(), false)
}

// ==========================
// 3. Classification
// ==========================

// HTTPStatus maps an error code to the response status.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeSessionNotFound, ErrCodeServiceNotFound:
		return http.StatusNotFound
	case ErrCodeUnknownField, ErrCodeBadRequest:
		return http.StatusBadRequest
	case ErrCodeResultsFinal, ErrCodeFieldNotOnStep, ErrCodeSubmissionInProgress:
		return http.StatusConflict
	case ErrCodeStepIncomplete, ErrCodeFormValidationFailed:
		return http.StatusUnprocessableEntity
	case ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case ErrCodeSessionStoreUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "SESSION"):
		return "SESSION"
	case code == ErrCodeUnknownField || code == ErrCodeFieldNotOnStep ||
		code == ErrCodeResultsFinal || code == ErrCodeStepIncomplete:
		return "ASSESSMENT"
	case strings.Contains(codeStr, "SERVICE"):
		return "CONTENT"
	case strings.Contains(codeStr, "FORM") || strings.Contains(codeStr, "SUBMISSION"):
		return "SUBMISSION"
	case code == ErrCodeRateLimited || code == ErrCodeBadRequest:
		return "REQUEST"
	default:
		return "OTHER"
	}
}

// Normalize ensures we always have a StandardError.
func Normalize(err error) *StandardError {
	if err == nil {
		return nil
	}
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return NewInternalError(err)
}

// HasCode reports whether err is a StandardError with the given code.
func HasCode(err error, code ErrorCode) bool {
	var stdErr *StandardError
	return stderrors.As(err, &stdErr) && stdErr.Code == code
}

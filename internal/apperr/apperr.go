// Package apperr defines the typed errors the services raise for business-rule
// violations. Each error carries a machine-readable code and the HTTP status it
// maps to, so handlers can translate rejections 1:1 without string matching.
package apperr

import "errors"

type Error struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Status  int                    `json:"-"`
}

func (e *Error) Error() string {
	return e.Message
}

func New(code, message string, status int) *Error {
	return &Error{Code: code, Message: message, Status: status}
}

// WithDetails returns a copy of the error carrying extra context for the client.
func (e *Error) WithDetails(details map[string]interface{}) *Error {
	clone := *e
	clone.Details = details
	return &clone
}

// As unwraps err into an *Error if possible.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Admission and lifecycle rejections.
var (
	ErrCampNotFound        = New("CAMP_NOT_FOUND", "Camp not found or not active", 404)
	ErrCampInactive        = New("CAMP_INACTIVE", "Camp is not active", 404)
	ErrDeadlinePassed      = New("DEADLINE_PASSED", "Registration deadline has passed", 422)
	ErrCapacityExceeded    = New("CAPACITY_EXCEEDED", "Camp is at full capacity", 422)
	ErrInvalidChurch       = New("INVALID_CHURCH", "Invalid church selection", 400)
	ErrInvalidCategory     = New("INVALID_CATEGORY", "Invalid category selection", 400)
	ErrCategoryNotAllowed  = New("CATEGORY_NOT_ALLOWED", "Selected category is not allowed for this registration link", 400)
	ErrInvalidLink         = New("INVALID_LINK", "Invalid registration link", 404)
	ErrLinkExpired         = New("LINK_EXPIRED", "Registration link has expired or reached usage limit", 410)
	ErrCodeExhausted       = New("CODE_GENERATION_EXHAUSTED", "Failed to generate a unique camper code", 500)
	ErrRegistrationMissing = New("REGISTRATION_NOT_FOUND", "The registration was not found", 404)
	ErrPersistence         = New("PERSISTENCE_ERROR", "Failed to complete the request due to a database error", 500)
)

// Validation returns a 400 VALIDATION_ERROR with the given message.
func Validation(message string) *Error {
	return New("VALIDATION_ERROR", message, 400)
}

// NotFound returns a 404 error with the given message.
func NotFound(message string) *Error {
	return New("NOT_FOUND", message, 404)
}

package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a turbobar error code.
type ErrorCode string

const (
	ErrInvalidRequest          ErrorCode = "INVALID_REQUEST"          // 400
	ErrMissingCredentials      ErrorCode = "MISSING_CREDENTIALS"      // 400
	ErrNotFound                ErrorCode = "NOT_FOUND"                // 404
	ErrClassificationTransport ErrorCode = "CLASSIFICATION_TRANSPORT" // 502
	ErrClassificationEnvelope  ErrorCode = "CLASSIFICATION_ENVELOPE"  // 502
	ErrClassificationParse     ErrorCode = "CLASSIFICATION_PARSE"     // 502
	ErrSchemaRetrieval         ErrorCode = "SCHEMA_RETRIEVAL"         // 502
	ErrWriteFailure            ErrorCode = "WRITE_FAILURE"            // 502
	ErrInternal                ErrorCode = "INTERNAL"                 // 500
)

// TurboError represents a structured error with code, status, and details.
type TurboError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *TurboError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *TurboError {
	return &TurboError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewMissingCredentials creates a 400 error when a required secret is not configured.
func NewMissingCredentials(setting string) *TurboError {
	return &TurboError{
		Code:    ErrMissingCredentials,
		Status:  400,
		Message: fmt.Sprintf("missing %s; add it to config or the environment", setting),
		Details: map[string]any{"setting": setting},
	}
}

// NewNotFound creates a 404 error for when a journaled capture cannot be found.
func NewNotFound(identifier string) *TurboError {
	return &TurboError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("capture not found: %s", identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewClassificationTransport creates a 502 error for a failed classifier call.
// status is 0 when no HTTP response was received.
func NewClassificationTransport(status int, body string) *TurboError {
	msg := fmt.Sprintf("classifier request failed (%d): %s", status, body)
	if status == 0 {
		msg = fmt.Sprintf("classifier request failed: %s", body)
	}
	return &TurboError{
		Code:    ErrClassificationTransport,
		Status:  502,
		Message: msg,
		Details: map[string]any{"upstream_status": status, "upstream_body": body},
	}
}

// NewClassificationEnvelope creates a 502 error when the classifier response
// does not carry usable candidate text.
func NewClassificationEnvelope(reason string) *TurboError {
	return &TurboError{
		Code:    ErrClassificationEnvelope,
		Status:  502,
		Message: reason,
	}
}

// NewClassificationParse creates a 502 error when the candidate text is not JSON.
func NewClassificationParse(err error, text string) *TurboError {
	return &TurboError{
		Code:    ErrClassificationParse,
		Status:  502,
		Message: fmt.Sprintf("classifier returned invalid JSON: %v", err),
		Details: map[string]any{"response_text": text},
	}
}

// NewSchemaRetrieval creates a 502 error when a collection schema cannot be fetched.
func NewSchemaRetrieval(collectionID string, err error) *TurboError {
	return &TurboError{
		Code:    ErrSchemaRetrieval,
		Status:  502,
		Message: fmt.Sprintf("failed to retrieve schema for collection %s: %v", collectionID, err),
		Details: map[string]any{"collection_id": collectionID},
	}
}

// NewWriteFailure creates a 502 error carrying the document store's rejection verbatim.
func NewWriteFailure(status int, message, body string) *TurboError {
	return &TurboError{
		Code:    ErrWriteFailure,
		Status:  502,
		Message: message,
		Details: map[string]any{"upstream_status": status, "upstream_body": body},
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
// The original error is kept in Details for logging, not in the message.
func NewInternal(err error) *TurboError {
	details := map[string]any{}
	if err != nil {
		details["internal_error"] = err.Error()
	}
	return &TurboError{
		Code:    ErrInternal,
		Status:  500,
		Message: "an internal error occurred",
		Details: details,
	}
}

// As returns the TurboError in err's chain, if any.
func As(err error) (*TurboError, bool) {
	var tErr *TurboError
	if stderrors.As(err, &tErr) {
		return tErr, true
	}
	return nil, false
}

// Is checks if an error is a TurboError with the given code.
func Is(err error, code ErrorCode) bool {
	if tErr, ok := As(err); ok {
		return tErr.Code == code
	}
	return false
}

package bylawsiq

import (
	"errors"
	"fmt"
)

// Application error codes.
//
// These codes classify errors for programmatic handling. Machine-readable
// codes travel with the error through wrapping; human-readable messages are
// for operators and logs.
const (
	EBLOCKED       = "blocked"        // navigation refused by the target site
	EBUDGET        = "budget"         // wall-clock or attempt budget exhausted
	ECAPTCHA       = "captcha"        // bot challenge persisted after retry
	ECONFLICT      = "conflict"       // action conflicts with existing state
	EINVALID       = "invalid"        // validation failed on caller input
	EINTERNAL      = "internal"       // internal error
	ELOWCONFIDENCE = "lowconfidence"  // acquired artifact failed content validation
	ENODOWNLOAD    = "nodownload"     // no download affordance on platform page
	ENOSEARCH      = "nosearch"       // no usable search interface on the site
	ENOTFOUND      = "notfound"       // entity or page does not exist
	ETIMEOUT       = "timeout"        // bounded wait expired
	ETRANSIENT     = "transient"      // transient network failure, retryable
)

// Error represents an application-specific error. Application errors carry a
// machine-readable code and a human-readable message.
type Error struct {
	// Code is one of the E* constants above.
	Code string

	// Message is a human-readable description of the error.
	Message string
}

// Error implements the error interface. Not used by the application
// otherwise.
func (e *Error) Error() string {
	return fmt.Sprintf("bylawsiq error: code=%s message=%s", e.Code, e.Message)
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error".
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

// Errorf is a helper function to return an Error with a given code and
// formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

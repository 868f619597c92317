package session

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError is bad local input. It is always raised before any network
// call.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Errors, "; "))
}

func invalid(format string, args ...any) *ValidationError {
	return &ValidationError{Errors: []string{fmt.Sprintf(format, args...)}}
}

var (
	// ErrSecurityTokenMissing means the backend requires an anti-forgery
	// token and none is configured; nothing was sent.
	ErrSecurityTokenMissing = errors.New("security token missing")

	// ErrEmptyResult means generation succeeded but returned no questions.
	ErrEmptyResult = errors.New("no questions were generated")

	// ErrNoSelection means grading was attempted without a chosen option.
	ErrNoSelection = errors.New("no option selected")

	// ErrSuperseded is returned to a generation call whose result arrived
	// after a newer call had started. Its result was discarded.
	ErrSuperseded = errors.New("generation superseded by a newer request")
)

const (
	genericGenerationMessage = "Failed to generate quiz. Please try again."
	genericSaveMessage       = "Failed to save quiz. Please try again."
)

// GenerationError is a failed generation call: a non-2xx status, an
// unreachable backend or an unreadable response.
type GenerationError struct {
	Status  int
	Message string
	Err     error
}

func (e *GenerationError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("generation failed (status %d): %s", e.Status, e.Message)
	}
	return "generation failed: " + e.Message
}

func (e *GenerationError) Unwrap() error { return e.Err }

// SaveError is a failed save call.
type SaveError struct {
	Status  int
	Message string
	Err     error
}

func (e *SaveError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("save failed (status %d): %s", e.Status, e.Message)
	}
	return "save failed: " + e.Message
}

func (e *SaveError) Unwrap() error { return e.Err }

// UserMessage reduces any controller error to the single transient message
// shown to the user.
func UserMessage(err error) string {
	var (
		ve *ValidationError
		ge *GenerationError
		se *SaveError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &ve):
		return strings.Join(ve.Errors, "; ")
	case errors.Is(err, ErrSecurityTokenMissing):
		return "Security token is missing. Reload the page and try again."
	case errors.Is(err, ErrEmptyResult):
		return "No questions were generated. Try different topics."
	case errors.Is(err, ErrNoSelection):
		return "Please select an answer first."
	case errors.Is(err, ErrSuperseded):
		return "A newer quiz request replaced this one."
	case errors.As(err, &ge):
		return ge.Message
	case errors.As(err, &se):
		return se.Message
	default:
		return "Something went wrong."
	}
}

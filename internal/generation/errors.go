package generation

import "errors"

// Common errors returned by the generation package
var (
	// ErrInvalidResponse is returned when the LLM response cannot be parsed or is malformed
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrContentBlocked is returned when the LLM blocks the content due to safety filters
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrTransientFailure is returned for temporary errors that might resolve on retry
	ErrTransientFailure = errors.New("transient error during exploration generation")

	// ErrInvalidConfig is returned when the explorer configuration is invalid
	ErrInvalidConfig = errors.New("invalid explorer configuration")
)

// Permanent reports whether err is a condition retrying cannot fix.
func Permanent(err error) bool {
	return errors.Is(err, ErrContentBlocked) ||
		errors.Is(err, ErrInvalidResponse) ||
		errors.Is(err, ErrInvalidConfig)
}

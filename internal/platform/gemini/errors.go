package gemini

import "errors"

// ErrEmptyPassage is returned when an exploration is requested for an
// empty passage.
var ErrEmptyPassage = errors.New("passage text cannot be empty")

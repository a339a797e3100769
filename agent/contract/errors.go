package contract

import (
	"errors"
	"fmt"
)

var (
	// ErrModelInvoke marks an exhausted or failed round-trip to the model
	// backend. Surfaced generically to users, logged with detail.
	ErrModelInvoke = errors.New("model invoke failed")
	// ErrSchemaViolation marks model output that does not conform to the
	// strict slot schema, including malformed JSON from stage-2 reformat.
	ErrSchemaViolation = errors.New("model response violates schema")
	// ErrContactUnresolved marks a named contact the directory lookup could
	// not verify. Distinct from a transport failure.
	ErrContactUnresolved = errors.New("contact could not be resolved")
	// ErrValidation marks invalid caller input or broken internal state.
	ErrValidation = errors.New("validation failed")
)

// UnresolvedContactError carries the contact name so the user-facing message
// can point at the entry to correct.
type UnresolvedContactError struct {
	Name string
}

func (e *UnresolvedContactError) Error() string {
	return fmt.Sprintf("contact could not be resolved: %s", e.Name)
}

func (e *UnresolvedContactError) Unwrap() error {
	return ErrContactUnresolved
}

// UserMessage converts a pipeline error into the text shown to the user.
// Every component failure becomes a typed error payload at the component
// boundary; this is the single place the taxonomy maps to wording.
func UserMessage(err error) string {
	var unresolved *UnresolvedContactError
	switch {
	case errors.As(err, &unresolved):
		return fmt.Sprintf("Couldn't find email address for %s", unresolved.Name)
	case errors.Is(err, ErrSchemaViolation):
		return "Failed to process the request. Please try again with a clearer instruction."
	case errors.Is(err, ErrModelInvoke):
		return "The assistant is temporarily unavailable. Please try again."
	default:
		return "Failed to process the request. Please try again."
	}
}

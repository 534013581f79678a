package ledger

import "fmt"

// ValidationError reports a request that is malformed on its face:
// an empty name, a non-positive quantity, or a negative amount.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError reports an assignment referencing an item or person
// that is not in the ledger.
type NotFoundError struct {
	Kind string // "item" or "person"
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %q", e.Kind, e.Name)
}

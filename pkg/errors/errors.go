package errors

import "fmt"

// ErrNotFound indicates a referenced record does not exist
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrUnauthorized indicates missing or invalid credentials
type ErrUnauthorized struct {
	Message string
}

func (e *ErrUnauthorized) Error() string {
	return e.Message
}

// ErrValidation indicates a caller-supplied value is outside the accepted range
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// ErrConfiguration indicates a value could not be resolved against the
// pricing table or another static configuration document
type ErrConfiguration struct {
	Field string
	Value string
}

func (e *ErrConfiguration) Error() string {
	return fmt.Sprintf("unknown %s: %q", e.Field, e.Value)
}

// ErrInvalidStateTransition indicates a disallowed status change
type ErrInvalidStateTransition struct {
	From string
	To   string
}

func (e *ErrInvalidStateTransition) Error() string {
	return fmt.Sprintf("cannot transition from %s to %s", e.From, e.To)
}

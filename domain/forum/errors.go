package forum

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrNotAuthenticated is returned when credential verification fails.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrUserDoesNotExist is returned when a username lookup finds nothing.
	ErrUserDoesNotExist = errors.New("user does not exist")
	// ErrValidationFailure is returned when submitted input is rejected.
	ErrValidationFailure = errors.New("validation failed")
	// ErrNotFound is returned when a referenced record is absent.
	ErrNotFound = errors.New("not found")
)

// Error codes carried across request-reply boundaries.
const (
	CodeNotAuthenticated = "not_authenticated"
	CodeUserDoesNotExist = "user_does_not_exist"
	CodeValidation       = "validation_failed"
	CodeNotFound         = "not_found"
)

// ValidationError holds per-field messages for rejected input.
// It matches ErrValidationFailure under errors.Is.
type ValidationError struct {
	Fields map[string][]string
}

// NewValidationError returns an empty ValidationError.
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string][]string)}
}

// Add records a message against a field.
func (e *ValidationError) Add(field, msg string) {
	e.Fields[field] = append(e.Fields[field], msg)
}

// Empty reports whether no field messages were recorded.
func (e *ValidationError) Empty() bool {
	return len(e.Fields) == 0
}

// Messages flattens the field messages in field order.
func (e *ValidationError) Messages() []string {
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	var out []string
	for _, f := range fields {
		out = append(out, e.Fields[f]...)
	}
	return out
}

func (e *ValidationError) Error() string {
	return ErrValidationFailure.Error() + ": " + strings.Join(e.Messages(), "; ")
}

// Is makes errors.Is(err, ErrValidationFailure) hold for any ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailure
}

// ErrorCode maps an error onto its wire code. Unknown errors map to "".
func ErrorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUserDoesNotExist):
		return CodeUserDoesNotExist
	case errors.Is(err, ErrNotAuthenticated):
		return CodeNotAuthenticated
	case errors.Is(err, ErrValidationFailure):
		return CodeValidation
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	default:
		return ""
	}
}

// FromCode rebuilds an error from a wire code and optional field messages.
// An empty code yields nil.
func FromCode(code string, fields map[string][]string) error {
	switch code {
	case "":
		return nil
	case CodeUserDoesNotExist:
		return ErrUserDoesNotExist
	case CodeNotAuthenticated:
		return ErrNotAuthenticated
	case CodeNotFound:
		return ErrNotFound
	case CodeValidation:
		if len(fields) == 0 {
			return ErrValidationFailure
		}
		return &ValidationError{Fields: fields}
	default:
		return errors.New(code)
	}
}

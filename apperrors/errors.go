package apperrors

import (
	"github.com/pkg/errors"
)

// Kind classifies an application error. The HTTP layer maps each kind to a
// status code in one place.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindStateConflict
	KindDuplicate
	KindCapacityConflict
	KindUnauthorized
	KindForbidden
)

var kindNames = map[Kind]string{
	KindInternal:         "internal",
	KindValidation:       "validation",
	KindNotFound:         "not_found",
	KindStateConflict:    "state_conflict",
	KindDuplicate:        "duplicate",
	KindCapacityConflict: "capacity_conflict",
	KindUnauthorized:     "unauthorized",
	KindForbidden:        "forbidden",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// FieldError is used to indicate an error with a specific request field.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

type Error struct {
	Kind    Kind
	Message string
	Fields  []FieldError
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message != "" {
		return e.Message + ": " + e.Err.Error()
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, msg string) error {
	return &Error{Kind: kind, Message: msg}
}

func Wrap(kind Kind, err error, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Message: msg, Err: err}
}

func NotFound(msg string) error         { return New(KindNotFound, msg) }
func StateConflict(msg string) error    { return New(KindStateConflict, msg) }
func Duplicate(msg string) error        { return New(KindDuplicate, msg) }
func CapacityConflict(msg string) error { return New(KindCapacityConflict, msg) }
func Unauthorized(msg string) error     { return New(KindUnauthorized, msg) }
func Forbidden(msg string) error        { return New(KindForbidden, msg) }

// Internal marks err as an infrastructure failure; the original error is kept
// for logging and never shown to clients.
func Internal(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: KindInternal, Message: msg, Err: errors.WithStack(err)}
}

func Validation(msg string, flds ...FieldError) error {
	return &Error{Kind: KindValidation, Message: msg, Fields: flds}
}

// KindOf reports the kind of the first *Error in err's chain.
// Errors that carry no kind are infrastructure failures.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// PublicMessage is the message safe to show to a client.
func PublicMessage(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Kind != KindInternal {
		return appErr.Message
	}
	return "internal server error"
}

// FieldsOf returns the field errors attached to a validation error.
func FieldsOf(err error) []FieldError {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Fields
	}
	return nil
}

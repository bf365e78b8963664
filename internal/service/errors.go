package service

import "errors"

// Kind classifies a user-visible failure. Handlers map it to a status code.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindAuth
	KindForbidden
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	}
	return "unknown"
}

// Error is an expected failure carrying a short tag (Code) and a
// human-readable Message. Anything that is not an *Error is internal.
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Code + ": " + e.Message
}

// Is matches on Kind and Code so sentinel values work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Code == t.Code
}

func newError(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

var (
	ErrInvalidCredentials = newError(KindAuth, "Invalid username or password", "The username or password is incorrect.")
	ErrUsernameTaken      = newError(KindConflict, "Username already exists", "That username is already registered.")
	ErrEmailTaken         = newError(KindConflict, "Email already exists", "That email is already registered.")
	ErrTodoForbidden      = newError(KindForbidden, "Forbidden", "This todo belongs to another user.")
	ErrNoData             = newError(KindValidation, "No data", "Provide at least one field to update.")
	ErrTitleRequired      = newError(KindValidation, "Title is required", "Title must not be empty.")
	ErrTitleTooLong       = newError(KindValidation, "Title too long", "Title must be 100 characters or fewer.")
)

// AsError extracts an *Error from err.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// ValidationError builds a KindValidation error.
func ValidationError(code, message string) *Error {
	return newError(KindValidation, code, message)
}

// NotFoundError builds a KindNotFound error.
func NotFoundError(message string) *Error {
	return newError(KindNotFound, "Not Found", message)
}

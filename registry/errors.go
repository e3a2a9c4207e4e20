package registry

import (
	"errors"
	"strings"

	"github.com/nspcc-dev/authority-contract/contracts/authority/authorityconst"
)

// Code is a stable code of the registry operation failure.
type Code uint8

const (
	// CodeUnauthorized means caller is not the registry owner.
	CodeUnauthorized Code = iota + 1
	// CodeAlreadyExists means authority ID is already registered.
	CodeAlreadyExists
	// CodeNotFound means authority ID is not registered.
	CodeNotFound
)

// String returns the code name.
func (c Code) String() string {
	switch c {
	case CodeUnauthorized:
		return "UNAUTHORIZED"
	case CodeAlreadyExists:
		return "ALREADY_EXISTS"
	case CodeNotFound:
		return "NOT_FOUND"
	default:
		return "UNKNOWN"
	}
}

// message returns failure description which is the same as the panic
// message of the Authority contract.
func (c Code) message() string {
	switch c {
	case CodeUnauthorized:
		return authorityconst.UnauthorizedError
	case CodeAlreadyExists:
		return authorityconst.AlreadyExistsError
	case CodeNotFound:
		return authorityconst.NotFoundError
	default:
		return "unknown registry error"
	}
}

// Error describes failed registry operation.
type Error struct {
	Code Code
	// ID of the authority the operation was applied to, empty for
	// ownership transfer.
	ID string
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.ID == "" {
		return e.Code.message()
	}
	return e.Code.message() + ": " + e.ID
}

// Is reports whether target is *Error with the same Code, so errors.Is
// matches any failure against ErrUnauthorized, ErrAlreadyExists and
// ErrNotFound regardless of the authority ID.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e != nil && t != nil && e.Code == t.Code
}

// Sentinel errors to be used with errors.Is.
var (
	ErrUnauthorized  = &Error{Code: CodeUnauthorized}
	ErrAlreadyExists = &Error{Code: CodeAlreadyExists}
	ErrNotFound      = &Error{Code: CodeNotFound}
)

// CodeOf returns Code of the registry error or zero if err is not a
// registry error.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return 0
}

// ErrorFromMessage recognizes failure code in the text produced by the
// Authority contract (e.g. FAULT exception of the transaction) and returns
// corresponding *Error. Returns nil if the text does not describe a registry
// failure.
func ErrorFromMessage(msg string) error {
	for _, c := range []Code{CodeUnauthorized, CodeAlreadyExists, CodeNotFound} {
		if strings.Contains(msg, c.message()) {
			return &Error{Code: c}
		}
	}
	return nil
}

func newError(c Code, id string) error {
	return &Error{Code: c, ID: id}
}

// Package scripterr defines the error wrapper used by the script
// interpreter and the base58/bech32 codecs: a fixed code plus a human
// description, with no stack trace. The btcaddr package uses its own
// coded Error type.
package scripterr

import (
	"errors"
	"fmt"
)

// Error is a terminal verdict: a fixed, comparable code and a
// description for diagnostics. It carries no stack trace by design —
// scripts either succeed or fail with a known kind, and the caller
// (wallet builder, validator) decides what to do with the kind.
type Error struct {
	Code        string
	Description string
}

// New builds an Error from a code and a description.
func New(code, description string) *Error {
	return &Error{Code: code, Description: description}
}

// Newf builds an Error from a code and a formatted description.
func Newf(code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Description: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	return e.Description
}

// Is reports whether err carries the given code, unwrapping through any
// number of wrapping layers that support the standard errors.Is protocol.
func Is(err error, code string) bool {
	var se *Error
	return errors.As(err, &se) && se.Code == code
}

// Package imprinterr defines the error taxonomy for the imprint bot.
//
// Three codes cover every failure class the bot can see: storage (anything
// from the sqlite layer), configuration (missing or invalid startup
// settings), and transport (Telegram API failures). None of these are
// retried anywhere; codes exist so callers can tell the classes apart with
// errors.Is-style checks instead of string matching.
package imprinterr

import (
	"errors"
	"fmt"
)

// Code classifies an error.
type Code string

const (
	CodeStorage       Code = "STORAGE"
	CodeConfiguration Code = "CONFIGURATION"
	CodeTransport     Code = "TRANSPORT"
)

// Error is a coded error, optionally wrapping an underlying cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause to errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// Storage wraps a persistent-store failure.
func Storage(op string, err error) *Error {
	return &Error{Code: CodeStorage, Message: op, Err: err}
}

// Configuration reports a missing or invalid startup setting.
func Configuration(msg string) *Error {
	return &Error{Code: CodeConfiguration, Message: msg}
}

// Transport wraps a failure from the chat transport.
func Transport(op string, err error) *Error {
	return &Error{Code: CodeTransport, Message: op, Err: err}
}

// Is reports whether err (or anything it wraps) carries the given code.
func Is(err error, code Code) bool {
	var e *Error
	for errors.As(err, &e) {
		if e.Code == code {
			return true
		}
		err = e.Err
		e = nil
	}
	return false
}

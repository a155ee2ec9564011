// Package errors provides structured errors with a code, a message, an
// optional suggestion, and an optional cause.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes for categorizing errors
const (
	ErrTerminal = "TERMINAL"
	ErrRender   = "RENDER"
	ErrInput    = "INPUT"
	ErrConfig   = "CONFIG"
)

// Error represents a structured error. Its message is laid out as:
//
//	✗ <What failed>
//
//	  <Why it failed>
//
//	  <How to fix it>
type Error struct {
	Code       string
	Message    string
	Suggestion string
	Cause      error
}

// codeInfo is what resmon does for each code when the caller has nothing
// more specific to say.
type codeInfo struct {
	exit int
	hint string
}

var codes = map[string]codeInfo{
	ErrConfig: {exit: 2, hint: "Unset the RESMON_* environment variables to use the defaults"},
	ErrTerminal: {exit: 3, hint: "Run resmon from an interactive terminal, " +
		"and run `reset` if the screen is left garbled"},
	ErrRender: {exit: 4, hint: "Check that stdout is still attached to the terminal"},
	ErrInput:  {exit: 5, hint: "Check that stdin is still attached to the terminal"},
}

// New creates a structured error. An empty suggestion is replaced by the
// default hint for code.
func New(code, message, suggestion string) *Error {
	if suggestion == "" {
		suggestion = codes[code].hint
	}
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
	}
}

// WrapWithCode is New with a cause.
func WrapWithCode(err error, code, message, suggestion string) *Error {
	e := New(code, message, suggestion)
	e.Cause = err
	return e
}

func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("✗ %s\n", e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf("\n  %s\n", e.Cause.Error()))
	}

	if e.Suggestion != "" {
		b.WriteString(fmt.Sprintf("\n  %s\n", e.Suggestion))
	}

	return b.String()
}

// Unwrap returns the underlying cause for use with errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsCode checks if an error is a structured Error with the given code.
func IsCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var resErr *Error
	if errors.As(err, &resErr) {
		return resErr.Code == code
	}
	return false
}

// ExitCode maps err to the process exit status: 0 for nil, 1 for errors
// without a known code, and a distinct status per code otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var resErr *Error
	if errors.As(err, &resErr) {
		if info, ok := codes[resErr.Code]; ok {
			return info.exit
		}
	}
	return 1
}

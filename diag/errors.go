// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package diag defines the error kinds reported by the decompiler.
//
// Every failure surfaced by the public API is an *Error carrying one of the
// kinds below, so callers can branch on the kind with IsKind instead of
// matching message text.
package diag

import (
	"errors"
	"fmt"
)

// Kind categorizes decompiler errors.
type Kind uint8

const (
	// FormatError indicates a malformed or unsupported binary header.
	FormatError Kind = iota + 1

	// ParseError indicates a malformed instruction stream, an unsupported
	// opcode or control flow that cannot be structured.
	ParseError

	// InvalidResource indicates an operation targeting an ID that does not
	// exist or is of the wrong kind.
	InvalidResource

	// IndexOutOfRange indicates an out-of-bounds index into a resource list.
	IndexOutOfRange

	// InvalidIdentifier indicates a rename to a syntactically invalid name.
	InvalidIdentifier

	// UnsupportedVersion indicates an options value the generator cannot
	// satisfy for the current module.
	UnsupportedVersion
)

// String returns a human-readable error kind name.
func (k Kind) String() string {
	switch k {
	case FormatError:
		return "FormatError"
	case ParseError:
		return "ParseError"
	case InvalidResource:
		return "InvalidResource"
	case IndexOutOfRange:
		return "IndexOutOfRange"
	case InvalidIdentifier:
		return "InvalidIdentifier"
	case UnsupportedVersion:
		return "UnsupportedVersion"
	default:
		return "Unknown"
	}
}

// Error is a kinded decompiler error.
type Error struct {
	// Kind categorizes the error.
	Kind Kind

	// Message provides details about the error, naming the offending
	// ID, index or version.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// New creates an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Errorf creates an error of the given kind with a formatted message.
func Errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsKind reports whether err carries an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

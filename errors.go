// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package jdecode

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors describing the kinds of decoding failure. Every error
// reported by this package has concrete type [*Error], and errors.Is reports
// true for exactly one of these kinds.
var (
	// ErrLex reports an invalid token: an unexpected character at the start
	// of a token, an invalid escape sequence, or a misspelled constant.
	ErrLex = errors.New("invalid token")

	// ErrSyntax reports a token whose kind is not allowed where it occurs.
	ErrSyntax = errors.New("syntax error")

	// ErrTruncated reports that the input ended in the middle of a value.
	ErrTruncated = errors.New("unexpected end of input")

	// ErrRange reports an integer that does not fit its target type.
	ErrRange = errors.New("integer out of range")

	// ErrTrailing reports non-whitespace input after a complete value.
	ErrTrailing = errors.New("extra input after value")

	// ErrTooDeep reports that arrays and objects are nested more deeply than
	// the lexer permits.
	ErrTooDeep = errors.New("value nested too deeply")
)

// Error is the concrete type of errors reported by the lexer and decoder.
type Error struct {
	Kind     error   // one of ErrLex, ErrSyntax, ErrTruncated, ErrRange, ErrTrailing, ErrTooDeep
	Offset   int     // byte offset in the input where the error was detected
	Location LineCol // line and column corresponding to Offset
	Message  string

	err error // the underlying cause, or nil
}

// Error satisfies the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("at %s: %s", e.Location, e.Message)
}

// Unwrap supports error wrapping. It reports the error kind and the
// underlying cause, if there is one.
func (e *Error) Unwrap() []error {
	if e.err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.err}
}

func (lx *Lexer) errorAt(kind error, pos int, cause error, msg string, args ...any) *Error {
	return &Error{
		Kind:     kind,
		Offset:   pos,
		Location: lx.lineCol(pos),
		Message:  fmt.Sprintf(msg, args...),
		err:      cause,
	}
}

// unexpected reports an error for a token that is not one of the wanted kinds.
// Running out of input is a truncation; anything else is a syntax error.
func (lx *Lexer) unexpected(tok Token, want ...Kind) *Error {
	kind := ErrSyntax
	if tok.Kind == EOF {
		kind = ErrTruncated
	}
	return lx.errorAt(kind, tok.Pos, nil, "%s", tokLabel(want, tok.Kind))
}

// tokLabel makes a human-readable summary string for the given token types.
func tokLabel(kinds []Kind, got any) string {
	if len(kinds) == 0 {
		return fmt.Sprintf("unexpected %v", got)
	}
	var exp string
	if len(kinds) == 1 {
		exp = kinds[0].String()
	} else {
		last := len(kinds) - 1
		ss := make([]string, last)
		for i, k := range kinds[:last] {
			ss[i] = k.String()
		}
		exp = strings.Join(ss, ", ") + " or " + kinds[last].String()
	}
	return fmt.Sprintf("expected %s, got %v", exp, got)
}

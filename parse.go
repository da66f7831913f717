// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package jdecode

import "errors"

// Parse decodes data as a single JSON value described by s. The input must
// contain exactly one value, optionally surrounded by whitespace.
func Parse[T any](data []byte, s Schema[T]) (T, error) { return DecodeAll(NewLexer(data), s) }

// ParseString decodes text as a single JSON value described by s.
func ParseString[T any](text string, s Schema[T]) (T, error) {
	return DecodeAll(NewLexerString(text), s)
}

// MustParse is as Parse, but panics if decoding fails.
// It is intended for use in tests and initialization of static data.
func MustParse[T any](data []byte, s Schema[T]) T {
	v, err := Parse(data, s)
	if err != nil {
		panic(err)
	}
	return v
}

// DecodeAll decodes a single value described by s from lx, and reports an
// error if any input other than whitespace remains after the value.
func DecodeAll[T any](lx *Lexer, s Schema[T]) (T, error) {
	var zero T
	v, err := Decode(lx, s)
	if err != nil {
		return zero, err
	}
	tok, err := lx.Next()
	if err != nil {
		pos, msg := lx.pos, err.Error()
		var e *Error
		if errors.As(err, &e) {
			pos, msg = e.Offset, e.Message
		}
		return zero, lx.errorAt(ErrTrailing, pos, nil, "extra input after value: %s", msg)
	} else if tok.Kind != EOF {
		return zero, lx.errorAt(ErrTrailing, tok.Pos, nil, "extra input after value: %v", tok.Kind)
	}
	return v, nil
}

// Options configure a decoding session. A nil *Options is ready for use and
// provides default settings.
type Options struct {
	// The maximum nesting depth of arrays and objects.
	// If zero, DefaultMaxDepth is used.
	MaxDepth int

	// If true, the input may contain line (//) and block (/* */) comments,
	// and trailing commas in arrays and objects.
	// See [Lexer.AllowComments] and [Lexer.AllowTrailingCommas].
	AllowComments bool

	// If true, escaped surrogate pairs decode to a single rune.
	// See [Lexer.CombineSurrogates].
	CombineSurrogates bool
}

// NewLexer constructs a lexer over data with the settings from o. The caller
// must not modify data while the lexer is in use.
func (o *Options) NewLexer(data []byte) *Lexer {
	lx := NewLexer(data)
	if o != nil {
		lx.SetMaxDepth(o.MaxDepth)
		lx.AllowComments(o.AllowComments)
		lx.AllowTrailingCommas(o.AllowComments)
		lx.CombineSurrogates(o.CombineSurrogates)
	}
	return lx
}

// ParseWith is as Parse, but uses the settings from o.
func ParseWith[T any](o *Options, data []byte, s Schema[T]) (T, error) {
	return DecodeAll(o.NewLexer(data), s)
}

// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jdecode

import (
	"github.com/creachadair/mds/stack"
	"go4.org/mem"
)

// Decode decodes a single value described by s from lx. Decode is reentrant:
// a FieldDecoder may call it to decode the values of its own fields.
//
// In case of error the returned value is the zero T, and the error has
// concrete type [*Error]. The position of lx after an error is unspecified.
func Decode[T any](lx *Lexer, s Schema[T]) (T, error) { return s.decode(lx) }

// decodeMembers consumes an object and calls field for the key of each
// member, with lx positioned at the member value. If field reports false, the
// value is skipped.
func decodeMembers(lx *Lexer, field func(key string) (bool, error)) error {
	if err := lx.open(LBrace); err != nil {
		return err
	}
	defer lx.close()

	if ok, err := lx.TryConsume(RBrace); err != nil {
		return err
	} else if ok {
		return nil // end of object
	}
	for {
		// Parse a single member: "key": value
		key, err := lx.Expect(String)
		if err != nil {
			return err
		}
		if _, err := lx.Expect(Colon); err != nil {
			return err
		}
		if ok, err := field(key.Value); err != nil {
			return err
		} else if !ok {
			if err := Skip(lx); err != nil {
				return err
			}
		}

		// Check whether we have more members (",") or are done ("}").
		more, err := lx.ExpectEither(Comma, RBrace)
		if err != nil {
			return err
		} else if !more {
			return nil
		} else if lx.trailing {
			if ok, err := lx.TryConsume(RBrace); err != nil || ok {
				return err
			}
		}
	}
}

// Skip consumes and discards a single complete value from lx: either one
// scalar token, or an array or object with everything nested inside it.
// The contents are checked only for balanced brackets, not for grammar.
func Skip(lx *Lexer) error {
	open := stack.New[Token]()
	for {
		tok, err := lx.Next()
		if err != nil {
			return err
		}
		switch tok.Kind {
		case EOF:
			return lx.errorAt(ErrTruncated, tok.Pos, nil, "unexpected end of input in value")

		case LBrace, LSquare:
			if lx.depth+open.Len() >= lx.maxDepth {
				return lx.tooDeep(tok)
			}
			open.Push(tok)

		case RBrace, RSquare:
			top, ok := open.Pop()
			if !ok {
				return lx.errorAt(ErrSyntax, tok.Pos, nil, "unexpected %v", tok.Kind)
			} else if want := closerFor(top.Kind); tok.Kind != want {
				return lx.errorAt(ErrSyntax, tok.Pos, nil, "expected %v to match %v at offset %d, got %v",
					want, top.Kind, top.Pos, tok.Kind)
			}

		case Comma, Colon:
			if open.IsEmpty() {
				return lx.errorAt(ErrSyntax, tok.Pos, nil, "unexpected %v", tok.Kind)
			}
		}
		if open.IsEmpty() {
			return nil
		}
	}
}

func closerFor(k Kind) Kind {
	if k == LBrace {
		return RBrace
	}
	return RSquare
}

// open consumes a token of the given kind, which begins an array or object,
// and increases the nesting depth. The caller must call close when the
// array or object is complete.
func (lx *Lexer) open(kind Kind) error {
	tok, err := lx.Expect(kind)
	if err != nil {
		return err
	} else if lx.depth >= lx.maxDepth {
		return lx.tooDeep(tok)
	}
	lx.depth++
	return nil
}

func (lx *Lexer) close() { lx.depth-- }

func (lx *Lexer) tooDeep(tok Token) *Error {
	return lx.errorAt(ErrTooDeep, tok.Pos, nil, "%v exceeds maximum depth %d", tok.Kind, lx.maxDepth)
}

// text returns the source text of tok, which must be the token most recently
// consumed from lx.
func (lx *Lexer) text(tok Token) mem.RO { return lx.src.Slice(tok.Pos, lx.pos) }

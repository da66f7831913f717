// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jdecode

import (
	"errors"

	"github.com/creachadair/jdecode/internal/escape"

	"go4.org/mem"
)

// Kind is the type of a lexical token in the JSON grammar.
type Kind byte

// Constants defining the valid Kind values.
const (
	Invalid Kind = iota // invalid token
	LBrace              // left brace "{"
	RBrace              // right brace "}"
	LSquare             // left square bracket "["
	RSquare             // right square bracket "]"
	Comma               // comma ","
	Colon               // colon ":"
	Integer             // number: unsigned integer, digits only
	String              // quoted string
	True                // constant: true
	False               // constant: false
	Null                // constant: null
	EOF                 // end of input
)

var kindStr = [...]string{
	Invalid: "invalid token",
	LBrace:  `"{"`,
	RBrace:  `"}"`,
	LSquare: `"["`,
	RSquare: `"]"`,
	Comma:   `","`,
	Colon:   `":"`,
	Integer: "integer",
	String:  "string",
	True:    "true",
	False:   "false",
	Null:    "null",
	EOF:     "end of input",
}

func (k Kind) String() string {
	v := int(k)
	if v >= len(kindStr) {
		return kindStr[Invalid]
	}
	return kindStr[v]
}

// A Token is a single lexical token.
type Token struct {
	Kind Kind

	// The decoded value of the token. For a String this is the text with all
	// escapes resolved; for an Integer it is the digit text. Other kinds
	// report their source spelling, and EOF is empty.
	Value string

	// The number of bytes of input spanned by the token, including any
	// whitespace that precedes it.
	Len int

	// The offset of the first byte of the token itself, after whitespace.
	Pos int
}

// DefaultMaxDepth is the default limit on the nesting of arrays and objects.
const DefaultMaxDepth = 1000

// A Lexer reads lexical tokens from an input buffer. The buffer is not
// modified, and the lexer owns its cursor: a Lexer must not be shared by
// concurrent decodes.
type Lexer struct {
	src mem.RO
	pos int
	esc escape.Options

	depth    int // current nesting depth of the decoder
	maxDepth int
	comments bool // treat comments as whitespace
	trailing bool // accept a comma before "]" or "}"
}

// NewLexer constructs a lexer that reads tokens from data. The caller must not
// modify data while the lexer is in use.
func NewLexer(data []byte) *Lexer { return newLexer(mem.B(data)) }

// NewLexerString constructs a lexer that reads tokens from s.
func NewLexerString(s string) *Lexer { return newLexer(mem.S(s)) }

func newLexer(src mem.RO) *Lexer { return &Lexer{src: src, maxDepth: DefaultMaxDepth} }

// CombineSurrogates configures whether a \u escape for a high surrogate
// followed by a \u escape for a low surrogate decodes to a single rune (true),
// or to two separate UTF-16 code units (false). The default is false.
func (lx *Lexer) CombineSurrogates(ok bool) { lx.esc.CombineSurrogates = ok }

// AllowComments configures whether the lexer treats line comments (// ...)
// and block comments (/* ... */) as whitespace (true) or rejects them as
// invalid tokens (false). Comments are a non-standard extension of JSON.
// The default is false.
func (lx *Lexer) AllowComments(ok bool) { lx.comments = ok }

// AllowTrailingCommas configures whether the decoder accepts a comma after
// the last element of an array or the last member of an object.
// The default is false.
func (lx *Lexer) AllowTrailingCommas(ok bool) { lx.trailing = ok }

// SetMaxDepth sets the maximum nesting depth of arrays and objects the
// decoder will accept. If n <= 0, DefaultMaxDepth is used.
func (lx *Lexer) SetMaxDepth(n int) {
	if n <= 0 {
		n = DefaultMaxDepth
	}
	lx.maxDepth = n
}

// Depth reports the current nesting depth of the decoder.
func (lx *Lexer) Depth() int { return lx.depth }

// Offset reports the current byte offset of the cursor.
func (lx *Lexer) Offset() int { return lx.pos }

// Location reports the line and column of the cursor.
func (lx *Lexer) Location() LineCol { return lx.lineCol(lx.pos) }

// Peek returns the next token of the input without consuming it. At the end
// of the input, Peek returns a token of kind EOF.
func (lx *Lexer) Peek() (Token, error) {
	i, err := lx.skipSpace(lx.pos)
	if err != nil {
		return Token{}, err
	}
	if i == lx.src.Len() {
		return Token{Kind: EOF, Len: i - lx.pos, Pos: i}, nil
	}

	start := i
	ch := lx.src.At(i)
	i++

	var kind Kind
	switch ch {
	case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		for i < lx.src.Len() && isDigit(lx.src.At(i)) {
			i++
		}
		kind = Integer

	case '"':
		dec, n, err := lx.esc.Unquote(lx.src.SliceFrom(i))
		if err != nil {
			return Token{}, lx.stringError(i+n, err)
		}
		return Token{Kind: String, Value: string(dec), Len: i + n - lx.pos, Pos: start}, nil

	case 't':
		kind = True
	case 'f':
		kind = False
	case 'n':
		kind = Null

	default:
		var ok bool
		kind, ok = selfDelim(ch)
		if !ok {
			return Token{}, lx.errorAt(ErrLex, start, nil, "invalid token %q", ch)
		}
	}

	if kind == True || kind == False || kind == Null {
		n, err := lx.scanConstant(start, kind)
		if err != nil {
			return Token{}, err
		}
		i = start + n
	}
	return Token{
		Kind:  kind,
		Value: lx.src.Slice(start, i).StringCopy(),
		Len:   i - lx.pos,
		Pos:   start,
	}, nil
}

// Next consumes and returns the next token of the input. At the end of the
// input, Next returns a token of kind EOF. In case of error, the cursor does
// not move.
func (lx *Lexer) Next() (Token, error) {
	tok, err := lx.Peek()
	if err != nil {
		return Token{}, err
	}
	lx.pos += tok.Len
	return tok, nil
}

// Expect consumes the next token and reports an error if it is not of the
// given kind.
func (lx *Lexer) Expect(kind Kind) (Token, error) {
	tok, err := lx.Next()
	if err != nil {
		return Token{}, err
	} else if tok.Kind != kind {
		return Token{}, lx.unexpected(tok, kind)
	}
	return tok, nil
}

// ExpectEither consumes the next token, and reports true if it has the given
// kind or false if it has the alternative kind. Any other token is an error.
func (lx *Lexer) ExpectEither(kind, alt Kind) (bool, error) {
	tok, err := lx.Next()
	if err != nil {
		return false, err
	}
	switch tok.Kind {
	case kind:
		return true, nil
	case alt:
		return false, nil
	default:
		return false, lx.unexpected(tok, kind, alt)
	}
}

// TryConsume consumes the next token and reports true if it has the given
// kind. Otherwise it leaves the cursor unchanged and reports false.
func (lx *Lexer) TryConsume(kind Kind) (bool, error) {
	if kind >= LBrace && kind <= Colon {
		// Punctuation is identified by its first byte, so the token that
		// follows is not lexed unless it is consumed.
		i, err := lx.skipSpace(lx.pos)
		if err != nil {
			return false, err
		} else if i < lx.src.Len() {
			if k, ok := selfDelim(lx.src.At(i)); ok && k == kind {
				lx.pos = i + 1
				return true, nil
			}
		}
		return false, nil
	}
	tok, err := lx.Peek()
	if err != nil {
		return false, err
	} else if tok.Kind != kind {
		return false, nil
	}
	lx.pos += tok.Len
	return true, nil
}

// scanConstant checks that the constant of the given kind is spelled out in
// full at offset pos, and returns its length.
func (lx *Lexer) scanConstant(pos int, kind Kind) (int, error) {
	want := kindStr[kind]
	for j := 1; j < len(want); j++ {
		if pos+j == lx.src.Len() {
			return 0, lx.errorAt(ErrTruncated, pos+j, nil, "incomplete %s", want)
		} else if lx.src.At(pos+j) != want[j] {
			return 0, lx.errorAt(ErrLex, pos+j, nil, "expected %s", want)
		}
	}
	return len(want), nil
}

// skipSpace returns the offset of the first byte at or after i that is not
// whitespace or part of a comment.
func (lx *Lexer) skipSpace(i int) (int, error) {
	for i < lx.src.Len() {
		ch := lx.src.At(i)
		if isSpace(ch) {
			i++
		} else if ch == '/' && lx.comments {
			n, err := lx.scanComment(i)
			if err != nil {
				return 0, err
			}
			i += n
		} else {
			break
		}
	}
	return i, nil
}

// scanComment returns the length of the comment that begins at pos.
// A line comment includes its terminating LF, if any.
func (lx *Lexer) scanComment(pos int) (int, error) {
	rest := lx.src.SliceFrom(pos + 1)
	if rest.Len() == 0 {
		return 0, lx.errorAt(ErrTruncated, pos+1, nil, "incomplete comment")
	}
	switch ch := rest.At(0); ch {
	case '/': // line comment to LF
		if i := mem.IndexByte(rest, '\n'); i >= 0 {
			return i + 2, nil
		}
		return rest.Len() + 1, nil

	case '*': // block comment
		if i := mem.Index(rest.SliceFrom(1), mem.S("*/")); i >= 0 {
			return i + 4, nil
		}
		return 0, lx.errorAt(ErrTruncated, lx.src.Len(), nil, "unterminated block comment")

	default:
		return 0, lx.errorAt(ErrLex, pos+1, nil, "invalid %q in comment", ch)
	}
}

func (lx *Lexer) stringError(pos int, err error) *Error {
	if errors.Is(err, escape.ErrUnterminated) || errors.Is(err, escape.ErrIncomplete) {
		return lx.errorAt(ErrTruncated, pos, err, "%v", err)
	}
	return lx.errorAt(ErrLex, pos, err, "%v", err)
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\r' || ch == '\n' || ch == '\t'
}

func isDigit(ch byte) bool { return '0' <= ch && ch <= '9' }

var self = [...]Kind{LBrace, RBrace, LSquare, RSquare, Comma, Colon}

func selfDelim(ch byte) (Kind, bool) {
	i := mem.IndexByte(mem.S("{}[],:"), ch)
	if i >= 0 {
		return self[i], true
	}
	return Invalid, false
}

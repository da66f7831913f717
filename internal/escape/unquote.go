// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package escape decodes the contents of JSON string literals.
package escape

import (
	"errors"
	"fmt"
	"unicode/utf16"
	"unicode/utf8"

	"go4.org/mem"
)

var (
	// ErrUnterminated is reported when the input ends before the closing
	// quotation mark of a string.
	ErrUnterminated = errors.New("unterminated string")

	// ErrIncomplete is reported when the input ends inside an escape sequence.
	ErrIncomplete = errors.New("incomplete escape sequence")
)

// An InvalidError reports an escape sequence that is not permitted.
type InvalidError struct {
	Seq string // the offending sequence, including its backslash
}

func (e *InvalidError) Error() string { return fmt.Sprintf("invalid escape %q", e.Seq) }

// Options control how string contents are decoded.
type Options struct {
	// If true, a \u escape for a high surrogate that is immediately followed
	// by a \u escape for a low surrogate is decoded as a single rune.
	// Otherwise each escape yields one UTF-16 code unit.
	CombineSurrogates bool
}

// Unquote decodes the body of a JSON string. The input must begin just after
// the opening double quotation mark. Unquote returns the decoded text and the
// number of bytes of src consumed, including the closing quotation mark.
//
// In case of error, the returned count is the offset in src at which the
// problem was detected.
//
// Each \uXXXX escape denotes one UTF-16 code unit. Unless surrogates are
// combined, a code unit in the surrogate range is written in the generalized
// three-byte UTF-8 form, so that a pair appears as two consecutive units.
func (o Options) Unquote(src mem.RO) ([]byte, int, error) {
	q := mem.IndexByte(src, '"')
	i := mem.IndexByte(src, '\\')
	if i < 0 || (q >= 0 && q < i) {
		if q < 0 {
			return nil, src.Len(), ErrUnterminated
		}
		// Fast path: no escapes before the closing quote.
		return mem.Append(nil, src.SliceTo(q)), q + 1, nil
	}

	dec := make([]byte, 0, src.Len())
	pos := 0
	for {
		// Invariant: i is the offset of the next backslash relative to pos,
		// and no closing quote precedes it.
		dec = mem.Append(dec, src.Slice(pos, pos+i))
		pos += i + 1
		if pos >= src.Len() {
			return nil, pos, ErrIncomplete
		}

		c := src.At(pos)
		pos++
		switch c {
		case '"', '\\', '/':
			dec = append(dec, c)
		case 'b':
			dec = append(dec, '\b')
		case 'n':
			dec = append(dec, '\n')
		case 'r':
			dec = append(dec, '\r')
		case 't':
			dec = append(dec, '\t')
		case 'u':
			v, err := parseHex4(src.SliceFrom(pos))
			if err != nil {
				return nil, pos, err
			}
			pos += 4
			if o.CombineSurrogates && utf16.IsSurrogate(rune(v)) {
				if lo, ok := lowSurrogate(src.SliceFrom(pos)); ok {
					if r := utf16.DecodeRune(rune(v), rune(lo)); r != utf8.RuneError {
						dec = utf8.AppendRune(dec, r)
						pos += 6
						break
					}
				}
			}
			dec = appendUnit(dec, v)
		default:
			return nil, pos - 2, &InvalidError{Seq: string([]byte{'\\', c})}
		}

		rest := src.SliceFrom(pos)
		q := mem.IndexByte(rest, '"')
		i = mem.IndexByte(rest, '\\')
		if i < 0 || (q >= 0 && q < i) {
			if q < 0 {
				return nil, src.Len(), ErrUnterminated
			}
			dec = mem.Append(dec, rest.SliceTo(q))
			return dec, pos + q + 1, nil
		}
	}
}

// appendUnit appends the encoding of a single UTF-16 code unit to buf.
// Surrogates are not valid runes, so utf8.AppendRune would replace them; they
// are encoded by hand instead.
func appendUnit(buf []byte, v uint16) []byte {
	if !utf16.IsSurrogate(rune(v)) {
		return utf8.AppendRune(buf, rune(v))
	}
	return append(buf, 0xe0|byte(v>>12), 0x80|byte(v>>6)&0x3f, 0x80|byte(v)&0x3f)
}

// lowSurrogate reports whether src begins with a \u escape for a low
// surrogate, and if so returns its value.
func lowSurrogate(src mem.RO) (uint16, bool) {
	if src.Len() < 6 || src.At(0) != '\\' || src.At(1) != 'u' {
		return 0, false
	}
	v, err := parseHex4(src.SliceFrom(2))
	if err != nil || v < 0xdc00 || v > 0xdfff {
		return 0, false
	}
	return v, true
}

// parseHex4 decodes exactly four hexadecimal digits from the front of data.
func parseHex4(data mem.RO) (uint16, error) {
	var v uint16
	for i := range 4 {
		if i == data.Len() {
			return 0, ErrIncomplete
		}
		b := data.At(i)
		v <<= 4
		if '0' <= b && b <= '9' {
			v += uint16(b - '0')
		} else if 'a' <= b && b <= 'f' {
			v += uint16(b - 'a' + 10)
		} else if 'A' <= b && b <= 'F' {
			v += uint16(b - 'A' + 10)
		} else {
			return 0, &InvalidError{Seq: `\u` + data.SliceTo(i+1).StringCopy()}
		}
	}
	return v, nil
}

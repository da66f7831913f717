// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package jdecode

import (
	"fmt"
	"unsafe"

	"go4.org/mem"
)

// Shape enumerates the kinds of value a Schema can describe.
type Shape byte

// Constants defining the valid Shape values.
const (
	InvalidShape Shape = iota
	StringShape        // a JSON string
	BoolShape          // true or false
	IntShape           // an unsigned integer literal
	SliceShape         // an array of uniformly-typed values
	RecordShape        // an object with a fixed set of named fields
)

var shapeStr = [...]string{
	InvalidShape: "invalid",
	StringShape:  "string",
	BoolShape:    "bool",
	IntShape:     "int",
	SliceShape:   "slice",
	RecordShape:  "record",
}

func (s Shape) String() string {
	v := int(s)
	if v >= len(shapeStr) {
		return shapeStr[InvalidShape]
	}
	return shapeStr[v]
}

// A Schema describes the shape of a value of type T, and how to decode it
// from JSON. The set of schemas is closed: values are constructed by Str,
// Bool, Int, SliceOf, Record, RecordWith, and Object. A Schema is immutable
// and may be shared among concurrent decodes.
type Schema[T any] interface {
	// Shape reports the shape of values described by the schema.
	Shape() Shape

	decode(lx *Lexer) (T, error)
}

type strSchema struct{}

// Str returns a schema for a JSON string decoded to a Go string.
func Str() Schema[string] { return strSchema{} }

func (strSchema) Shape() Shape { return StringShape }

func (strSchema) decode(lx *Lexer) (string, error) {
	tok, err := lx.Expect(String)
	if err != nil {
		return "", err
	}
	return tok.Value, nil
}

type boolSchema struct{}

// Bool returns a schema for a JSON true or false constant.
func Bool() Schema[bool] { return boolSchema{} }

func (boolSchema) Shape() Shape { return BoolShape }

func (boolSchema) decode(lx *Lexer) (bool, error) {
	tok, err := lx.Next()
	if err != nil {
		return false, err
	}
	switch tok.Kind {
	case True:
		return true, nil
	case False:
		return false, nil
	default:
		return false, lx.unexpected(tok, True, False)
	}
}

// IntType is the set of Go types an integer schema can decode into.
type IntType interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

type intSchema[T IntType] struct {
	bits   int
	signed bool
}

// Int returns a schema for an integer literal decoded to T. An integer that
// does not fit in T is an error.
func Int[T IntType]() Schema[T] {
	var zero T
	return intSchema[T]{bits: int(unsafe.Sizeof(zero)) * 8, signed: ^zero < 0}
}

func (intSchema[T]) Shape() Shape { return IntShape }

func (s intSchema[T]) decode(lx *Lexer) (T, error) {
	tok, err := lx.Expect(Integer)
	if err != nil {
		return 0, err
	}
	if s.signed {
		v, err := mem.ParseInt(lx.text(tok), 10, s.bits)
		if err != nil {
			return 0, lx.errorAt(ErrRange, tok.Pos, err, "integer %s does not fit in %s", tok.Value, s)
		}
		return T(v), nil
	}
	v, err := mem.ParseUint(lx.text(tok), 10, s.bits)
	if err != nil {
		return 0, lx.errorAt(ErrRange, tok.Pos, err, "integer %s does not fit in %s", tok.Value, s)
	}
	return T(v), nil
}

func (s intSchema[T]) String() string {
	if s.signed {
		return fmt.Sprintf("int%d", s.bits)
	}
	return fmt.Sprintf("uint%d", s.bits)
}

type sliceSchema[E any] struct{ elem Schema[E] }

// SliceOf returns a schema for a JSON array whose elements are described by
// elem. An empty array decodes to an empty, non-nil slice.
func SliceOf[E any](elem Schema[E]) Schema[[]E] {
	if elem == nil {
		panic("jdecode: nil element schema")
	}
	return sliceSchema[E]{elem: elem}
}

func (sliceSchema[E]) Shape() Shape { return SliceShape }

func (s sliceSchema[E]) decode(lx *Lexer) ([]E, error) {
	if err := lx.open(LSquare); err != nil {
		return nil, err
	}
	defer lx.close()

	out := []E{}
	if ok, err := lx.TryConsume(RSquare); err != nil {
		return nil, err
	} else if ok {
		return out, nil
	}
	for {
		v, err := s.elem.decode(lx)
		if err != nil {
			return nil, err
		}
		out = append(out, v)

		// Check whether we have more elements (",") or are done ("]").
		more, err := lx.ExpectEither(Comma, RSquare)
		if err != nil {
			return nil, err
		} else if !more {
			return out, nil
		} else if lx.trailing {
			if ok, err := lx.TryConsume(RSquare); err != nil {
				return nil, err
			} else if ok {
				return out, nil
			}
		}
	}
}

// A Member describes a single named field of a record of type T.
// Use Field to construct a Member.
type Member[T any] struct {
	name   string
	decode func(lx *Lexer, dst *T) error
}

// Name reports the JSON object key of the field.
func (m Member[T]) Name() string { return m.name }

// Field constructs a record member that decodes the value of the object key
// name according to s, and stores it in the record with set.
func Field[T, V any](name string, s Schema[V], set func(*T, V)) Member[T] {
	if s == nil || set == nil {
		panic(fmt.Sprintf("jdecode: incomplete field %q", name))
	}
	return Member[T]{
		name: name,
		decode: func(lx *Lexer, dst *T) error {
			v, err := s.decode(lx)
			if err != nil {
				return err
			}
			set(dst, v)
			return nil
		},
	}
}

type recordSchema[T any] struct {
	newValue func() T
	fields   map[string]Member[T]
}

// Record returns a schema for a JSON object decoded to a T. Each member names
// an object key and how to decode its value into the record. Keys that do not
// match any member are skipped, and members whose keys are absent keep the
// zero value. Record panics if two members have the same name.
func Record[T any](fields ...Member[T]) Schema[T] { return RecordWith(nil, fields...) }

// RecordWith is as Record, but each decoded record starts with the value
// returned by newValue rather than the zero value. If newValue == nil, the
// zero value is used.
func RecordWith[T any](newValue func() T, fields ...Member[T]) Schema[T] {
	r := recordSchema[T]{newValue: newValue, fields: make(map[string]Member[T], len(fields))}
	for _, f := range fields {
		if f.decode == nil {
			panic("jdecode: uninitialized record member")
		} else if _, ok := r.fields[f.name]; ok {
			panic(fmt.Sprintf("jdecode: duplicate record member %q", f.name))
		}
		r.fields[f.name] = f
	}
	return r
}

func (recordSchema[T]) Shape() Shape { return RecordShape }

func (r recordSchema[T]) decode(lx *Lexer) (T, error) {
	var v T
	if r.newValue != nil {
		v = r.newValue()
	}
	err := decodeMembers(lx, func(key string) (bool, error) {
		m, ok := r.fields[key]
		if !ok {
			return false, nil
		}
		return true, m.decode(lx, &v)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

// FieldDecoder is implemented by record types that decode their own fields.
//
// DecodeField is called with the lexer positioned at the value of the object
// member with the given key. If the type has a field for key, DecodeField
// must consume exactly one value from lx, typically by calling Decode with
// the schema for that field, and report true. If not, it must report false
// without consuming any input, and the value will be skipped.
type FieldDecoder interface {
	DecodeField(lx *Lexer, key string) (bool, error)
}

type objectSchema[T any, P interface {
	*T
	FieldDecoder
}] struct{}

// Object returns a schema for a JSON object decoded to a T, whose pointer type
// implements FieldDecoder. Each decoded record starts as the zero T.
func Object[T any, P interface {
	*T
	FieldDecoder
}]() Schema[T] {
	return objectSchema[T, P]{}
}

func (objectSchema[T, P]) Shape() Shape { return RecordShape }

func (objectSchema[T, P]) decode(lx *Lexer) (T, error) {
	var v T
	if err := decodeMembers(lx, func(key string) (bool, error) {
		return P(&v).DecodeField(lx, key)
	}); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

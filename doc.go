// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package jdecode implements a type-directed JSON decoder.
//
// Decoding is driven by a [Schema] describing the Go value to produce, rather
// than by the structure of the input. A schema has one of five shapes:
//
//	Constructor     | Go type | JSON
//	--------------- | ------- | --------------------------------------
//	Str             | string  | "string"
//	Bool            | bool    | true, false
//	Int[T]          | T       | 123 (digits only)
//	SliceOf(elem)   | []E     | [ elem, ... ]
//	Record(fields)  | T       | { "key": value, ... }
//
// For example:
//
//	type Point struct{ X, Y int }
//
//	var pointSchema = jdecode.Record(
//	   jdecode.Field("x", jdecode.Int[int](), func(p *Point, v int) { p.X = v }),
//	   jdecode.Field("y", jdecode.Int[int](), func(p *Point, v int) { p.Y = v }),
//	)
//
//	pts, err := jdecode.Parse(input, jdecode.SliceOf(pointSchema))
//
// Object keys that do not name a field of the record are skipped, and fields
// whose keys do not appear keep their initial value. Any other mismatch
// between the input and the schema is an error, and no partial value is
// returned.
//
// # Lexing
//
// The Lexer type implements a lexical scanner for JSON over an in-memory
// buffer. Peek reports the next token without consuming it, and Next
// consumes it:
//
//	lx := jdecode.NewLexer(input)
//	for {
//	   tok, err := lx.Next()
//	   if err != nil {
//	      log.Fatalf("Next failed: %v", err)
//	   } else if tok.Kind == jdecode.EOF {
//	      break
//	   }
//	   log.Printf("Next token: %v %q", tok.Kind, tok.Value)
//	}
//
// Numbers are limited to unsigned integers: signs, fractions, and exponents
// are not recognized. Comments and trailing commas are rejected unless they
// are enabled with AllowComments and AllowTrailingCommas.
//
// # Custom records
//
// A record type may decode its own fields by implementing [FieldDecoder], and
// use [Object] as its schema. Its DecodeField method receives the lexer, and
// delegates back to [Decode] for the field values:
//
//	func (p *Point) DecodeField(lx *jdecode.Lexer, key string) (ok bool, err error) {
//	   switch key {
//	   case "x":
//	      p.X, err = jdecode.Decode(lx, jdecode.Int[int]())
//	   case "y":
//	      p.Y, err = jdecode.Decode(lx, jdecode.Int[int]())
//	   default:
//	      return false, nil
//	   }
//	   return true, err
//	}
//
// # Errors
//
// Errors reported by this package have concrete type [*Error], and can be
// classified with errors.Is using ErrLex, ErrSyntax, ErrTruncated, ErrRange,
// ErrTrailing, and ErrTooDeep.
package jdecode

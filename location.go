// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package jdecode

import "fmt"

// A LineCol describes the line number and column offset of a location in
// source text.
type LineCol struct {
	Line   int // line number, 1-based
	Column int // byte offset of column in line, 0-based
}

func (lc LineCol) String() string { return fmt.Sprintf("%d:%d", lc.Line, lc.Column) }

// lineCol computes the line and column of offset pos in src.
func (lx *Lexer) lineCol(pos int) LineCol {
	lc := LineCol{Line: 1}
	for i := 0; i < pos && i < lx.src.Len(); i++ {
		if lx.src.At(i) == '\n' {
			lc.Line++
			lc.Column = 0
		} else {
			lc.Column++
		}
	}
	return lc
}

// Copyright 2017-2026 Denis Bernard <db047h@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies of
// the Software, and to permit persons to whom the Software is furnished to do so,
// subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY, FITNESS
// FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR
// COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
// IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
// CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.

package dbuf

import "strings"

// ResetLexeme marks the current position as the start of the next lexeme.
//
// This is typically called right before reading the first character of a
// token:
//
//	c.ResetLexeme()
//	for r, _ := c.Next(); unicode.IsLetter(r); r, _ = c.Next() {
//	}
//	c.Unget()
//	ident := c.Lexeme()
func (c *Cursor) ResetLexeme() {
	c.begin = c.pos
}

// LexemeBegin returns the position set by the last call to ResetLexeme.
func (c *Cursor) LexemeBegin() Pos {
	return c.begin
}

// Lexeme returns the characters read since the last call to ResetLexeme. The
// lexeme may span both slots. Characters that have been evicted by later
// refills are silently left out; Evicted reports how many.
func (c *Cursor) Lexeme() string {
	var sb strings.Builder
	c.eachResident(func(rs []rune) {
		for _, r := range rs {
			sb.WriteRune(r)
		}
	})
	return sb.String()
}

// Evicted returns the number of characters of the current lexeme that are no
// longer resident in either slot, and therefore missing from Lexeme.
func (c *Cursor) Evicted() int {
	n := int(c.pos - c.begin)
	c.eachResident(func(rs []rune) {
		n -= len(rs)
	})
	return n
}

// eachResident calls fn, in position order, with the runs of resident
// characters within [c.begin, c.pos).
func (c *Cursor) eachResident(fn func([]rune)) {
	a, b := &c.bank.slots[0], &c.bank.slots[1]
	if b.start < a.start {
		a, b = b, a
	}
	for _, s := range [2]*slot{a, b} {
		lo, hi := max(c.begin, s.start), min(c.pos, s.end())
		if lo < hi {
			fn(s.buf[lo-s.start : hi-s.start])
		}
	}
}

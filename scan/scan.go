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

// Package scan implements a small expression tokenizer on top of a
// dbuf.Cursor. It recognizes numbers, identifiers and the operators
// + - * / ( ) =, and is mostly useful as a reference consumer of the cursor:
// token text comes from the lexeme window and the character ending a number
// or identifier is pushed back.
//
// The scanner is a set of state functions feeding a FIFO queue of items.
package scan

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/db47h/dbuf"
)

// Token is the type of a lexed item.
type Token int

// Token types.
const (
	EOF     Token = iota // end of input
	Error                // I/O error, the value is the error message
	Number               // decimal digits
	Ident                // letter followed by letters or digits
	Op                   // one of + - * / ( ) =
	Invalid              // any other non-space character
)

var tokenNames = [...]string{
	EOF:     "EOF",
	Error:   "ERROR",
	Number:  "NUMBER",
	Ident:   "IDENT",
	Op:      "OP",
	Invalid: "INVALID",
}

func (t Token) String() string {
	if t < 0 || int(t) >= len(tokenNames) {
		return fmt.Sprintf("Token(%d)", int(t))
	}
	return tokenNames[t]
}

const operators = "+-*/()="

// An Item is a lexed token with its start position and text.
type Item struct {
	Token
	Pos   dbuf.Pos
	Value string
}

func (i Item) String() string {
	if i.Token == EOF {
		return i.Token.String()
	}
	return i.Token.String() + ":" + i.Value
}

// Source is the character source of a Scanner. *dbuf.Cursor implements it.
type Source interface {
	Next() (rune, error)
	Unget() error
	Pos() dbuf.Pos
	ResetLexeme()
	LexemeBegin() dbuf.Pos
	Lexeme() string
	Evicted() int
}

// queue is a FIFO ring of items. len(items) is always a power of 2.
type queue struct {
	items []Item
	head  int // index of the oldest item
	n     int
}

func (q *queue) len() int {
	return q.n
}

func (q *queue) push(i Item) {
	if q.n == len(q.items) {
		items := make([]Item, 2*len(q.items))
		for k := 0; k < q.n; k++ {
			items[k] = q.items[(q.head+k)&(len(q.items)-1)]
		}
		q.items, q.head = items, 0
	}
	q.items[(q.head+q.n)&(len(q.items)-1)] = i
	q.n++
}

// pop removes the oldest item. The queue must not be empty.
func (q *queue) pop() Item {
	i := q.items[q.head]
	q.head = (q.head + 1) & (len(q.items) - 1)
	q.n--
	return i
}

// A StateFn is a state function. Returning nil transitions back to the
// initial state.
type StateFn func(s *Scanner) StateFn

// A Scanner tokenizes the characters of a Source.
type Scanner struct {
	queue
	src   Source
	state StateFn
	last  rune   // last rune returned by next
	text  []rune // runes of the current token
	err   error
}

// New returns a scanner reading from src.
func New(src Source) *Scanner {
	return &Scanner{
		queue: queue{items: make([]Item, 2)},
		src:   src,
	}
}

// Lex returns the next item. Once the end of input has been reached, or after
// an Error item, Lex keeps returning EOF.
func (s *Scanner) Lex() Item {
	for s.len() == 0 {
		if s.state == nil {
			s.state = stateInit(s)
		} else {
			s.state = s.state(s)
		}
	}
	return s.pop()
}

// Err returns the I/O error reported in an Error item, if any.
func (s *Scanner) Err() error {
	return s.err
}

// All lexes src up to and including the EOF item.
func All(src Source) ([]Item, error) {
	s := New(src)
	var items []Item
	for {
		i := s.Lex()
		items = append(items, i)
		if i.Token == EOF {
			return items, s.Err()
		}
	}
}

// emit queues a token with the text of the current lexeme. Tokens longer than
// the cursor retains are rebuilt from the runes read since stateInit.
func (s *Scanner) emit(t Token) {
	v := s.src.Lexeme()
	if s.src.Evicted() > 0 {
		v = string(s.text)
	}
	s.push(Item{t, s.src.LexemeBegin(), v})
}

// next returns the next rune, or dbuf.EOF at the end of input or on error.
func (s *Scanner) next() rune {
	r, err := s.src.Next()
	if err != nil && err != io.EOF && s.err == nil {
		s.err = err
		s.push(Item{Error, s.src.Pos(), err.Error()})
	}
	s.last = r
	if err == nil {
		s.text = append(s.text, r)
	}
	return r
}

// backup undoes the last call to next, unless it returned EOF.
func (s *Scanner) backup() {
	if s.last == dbuf.EOF {
		return
	}
	s.text = s.text[:len(s.text)-1]
	if err := s.src.Unget(); err != nil && s.err == nil {
		s.err = err
		s.push(Item{Error, s.src.Pos(), err.Error()})
	}
}

func stateInit(s *Scanner) StateFn {
	s.src.ResetLexeme()
	s.text = s.text[:0]
	r := s.next()
	switch {
	case s.err != nil:
		return stateEOF
	case r == dbuf.EOF:
		return stateEOF
	case unicode.IsSpace(r):
		// skip
	case isDigit(r):
		return stateNumber
	case unicode.IsLetter(r):
		return stateIdent
	case strings.ContainsRune(operators, r):
		s.emit(Op)
	default:
		s.emit(Invalid)
	}
	return nil
}

func stateEOF(s *Scanner) StateFn {
	s.push(Item{EOF, s.src.Pos(), ""})
	return stateEOF
}

func stateNumber(s *Scanner) StateFn {
	for r := s.next(); isDigit(r); r = s.next() {
	}
	s.backup()
	s.emit(Number)
	return nil
}

func stateIdent(s *Scanner) StateFn {
	for r := s.next(); unicode.IsLetter(r) || unicode.IsDigit(r); r = s.next() {
	}
	s.backup()
	s.emit(Ident)
	return nil
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

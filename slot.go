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

import (
	"errors"
	"io"

	"github.com/go-logr/logr"
)

type elemKind uint8

const (
	char      elemKind = iota // a real character
	endOfSlot                 // end marker following the last character of a slot load
)

// elem is the tagged value found at a given index of a slot. The end marker
// is never a rune value, so it cannot be mistaken for input.
type elem struct {
	r    rune
	kind elemKind
}

// A slot holds one load of at most capacity characters. Index len(buf) is the
// end marker.
type slot struct {
	start Pos    // absolute position of buf[0]
	buf   []rune // characters, len(buf) <= capacity
}

func (s *slot) at(i int) elem {
	if i < len(s.buf) {
		return elem{s.buf[i], char}
	}
	return elem{kind: endOfSlot}
}

// end returns the absolute position of the end marker.
func (s *slot) end() Pos {
	return s.start + Pos(len(s.buf))
}

func (s *slot) covers(p Pos) bool {
	return p >= s.start && p < s.end()
}

func slotName(i int) string {
	return string(rune('A' + i))
}

// bank owns the two slots and the character source.
type bank struct {
	src   io.RuneReader
	slots [2]slot
	cap   int
	read  Pos   // characters consumed from src so far
	eof   bool  // src is exhausted
	err   error // sticky *ReadError
	log   logr.Logger
}

func (b *bank) init(src io.RuneReader, capacity int, log logr.Logger) {
	b.src = src
	b.cap = capacity
	b.log = log
	for i := range b.slots {
		b.slots[i].buf = make([]rune, 0, capacity)
	}
}

// refill loads the next characters from the source into slot i and returns
// how many were read. Reaching the end of the source is not an error: it sets
// b.eof. A read error is recorded and returned once the characters read
// before it have been handed out, i.e. by the first refill that reads nothing.
// A refill that reads nothing leaves the slot untouched.
func (b *bank) refill(i int) (int, error) {
	if b.err != nil {
		return 0, b.err
	}
	s := &b.slots[i]
	start, buf := b.read, s.buf[:0]
	for len(buf) < b.cap && !b.eof {
		r, _, err := b.src.ReadRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				b.eof = true
			} else {
				b.err = &ReadError{Pos: b.read, Err: err}
				b.log.Error(err, "refill failed", "slot", slotName(i), "pos", b.read)
			}
			break
		}
		buf = append(buf, r)
		b.read++
	}
	b.log.V(1).Info("refill", "slot", slotName(i), "start", start, "n", len(buf), "eof", b.eof)
	if len(buf) == 0 {
		return 0, b.err
	}
	s.start, s.buf = start, buf
	return len(buf), nil
}

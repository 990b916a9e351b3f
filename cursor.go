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
	"bufio"
	"fmt"
	"io"

	"github.com/go-logr/logr"
	"golang.org/x/text/transform"
)

// EOF is the rune returned by Next, together with io.EOF, once the source is
// exhausted.
const EOF rune = -1

// A Cursor streams characters from a File through two fixed-size slots. While
// one slot is read, the other one retains the previous load, which serves as
// history for Unget and Lexeme.
//
// A Cursor is not safe for concurrent use. See package shared for a guarded
// variant.
type Cursor struct {
	f        *File
	bank     bank
	active   int // index of the active slot
	forward  int // index of the next character in the active slot
	pos      Pos // absolute position of the next character
	begin    Pos // lexeme start
	switches int
	closed   bool
	log      logr.Logger
}

// NewCursor creates a cursor reading from f and performs the initial fill of
// both slots. The cursor takes ownership of f: Close closes it.
//
// Read errors during the initial fill are not reported here but by Next, once
// the characters read before the error have been consumed.
func NewCursor(f *File, opts ...Option) (*Cursor, error) {
	o := newOptions(opts)
	if o.capacity < 1 {
		return nil, ErrCapacity
	}
	c := &Cursor{
		f:   f,
		log: o.log,
	}
	c.bank.init(runeReader(f.Reader, o), o.capacity, o.log)
	for i := range c.bank.slots {
		_, _ = c.bank.refill(i)
	}
	return c, nil
}

// Open opens the named file and returns a cursor over its contents.
func Open(name string, opts ...Option) (*Cursor, error) {
	f, err := OpenFile(name)
	if err != nil {
		return nil, err
	}
	c, err := NewCursor(f, opts...)
	if err != nil {
		f.Close()
		return nil, err
	}
	return c, nil
}

func runeReader(r io.Reader, o options) io.RuneReader {
	if o.enc != nil {
		r = transform.NewReader(r, o.enc.NewDecoder())
	} else if rr, ok := r.(io.RuneReader); ok {
		return rr
	}
	return bufio.NewReader(r)
}

// File returns the File used as input for the cursor.
func (c *Cursor) File() *File {
	return c.f
}

// Capacity returns the number of characters per slot.
func (c *Cursor) Capacity() int {
	return c.bank.cap
}

// Next returns the next character and advances the cursor. Once the source
// is exhausted, Next returns EOF and io.EOF, and keeps doing so on subsequent
// calls. If reading the source fails, Next returns the characters read so far,
// then a *ReadError, also repeatedly.
func (c *Cursor) Next() (rune, error) {
	if c.closed {
		return EOF, ErrClosed
	}
	// At most one switch: the slot switched to always holds at least one
	// character.
	for retry := 0; retry < 2; retry++ {
		e := c.bank.slots[c.active].at(c.forward)
		if e.kind == char {
			c.forward++
			c.pos++
			if e.r == '\n' {
				c.f.AddLine(c.pos)
			}
			return e.r, nil
		}
		if retry > 0 {
			break
		}
		ok, err := c.switchSlot()
		if err != nil {
			return EOF, err
		}
		if !ok {
			break
		}
	}
	return EOF, io.EOF
}

// Peek returns the next character without consuming it.
func (c *Cursor) Peek() (rune, error) {
	r, err := c.Next()
	if err != nil {
		return r, err
	}
	return r, c.Unget()
}

// ahead reports whether the inactive slot holds the characters immediately
// following the active one.
func (c *Cursor) ahead() bool {
	cur, other := &c.bank.slots[c.active], &c.bank.slots[c.active^1]
	return len(other.buf) > 0 && other.start == cur.end()
}

// switchSlot makes the other slot active. Unless that slot already holds the
// characters that follow, it is refilled first. It returns false without
// switching if the source is exhausted.
func (c *Cursor) switchSlot() (bool, error) {
	next := c.active ^ 1
	if !c.ahead() {
		n, err := c.bank.refill(next)
		if err != nil {
			return false, err
		}
		if n == 0 {
			return false, nil
		}
	}
	c.log.V(1).Info("switch", "from", slotName(c.active), "to", slotName(next), "pos", c.pos, "count", c.switches+1)
	c.active = next
	c.forward = 0
	c.switches++
	return true, nil
}

// Unget moves the cursor back by one character so that the next call to Next
// returns it again. Pushback reaches back as far as the two slots retain: at
// most one slot load before the active one.
//
// At the start of input Unget returns ErrAtStart. If the previous position has
// been evicted, the cursor stays where it is, a warning is logged and the
// returned error wraps ErrPushback. In both cases the cursor remains usable.
func (c *Cursor) Unget() error {
	if c.closed {
		return ErrClosed
	}
	if c.pos == 0 {
		return ErrAtStart
	}
	p := c.pos - 1
	for _, i := range [2]int{c.active, c.active ^ 1} {
		s := &c.bank.slots[i]
		if s.covers(p) {
			c.active = i
			c.forward = int(p - s.start)
			c.pos = p
			if c.begin > p {
				c.begin = p
			}
			return nil
		}
	}
	c.log.Info("pushback clamped", "warning", ErrPushback.Error(), "pos", c.pos)
	return fmt.Errorf("%w: position %d no longer resident", ErrPushback, p)
}

// Pos returns the absolute position of the next character to be read.
func (c *Cursor) Pos() Pos {
	return c.pos
}

// Position returns the line and column of the next character to be read.
func (c *Cursor) Position() Position {
	return c.f.Position(c.pos)
}

// SwitchCount returns the number of slot switches performed so far.
func (c *Cursor) SwitchCount() int {
	return c.switches
}

// AtEnd returns true if the source is known to be exhausted and no character
// remains ahead of the cursor. Once it returns true, Next returns EOF.
func (c *Cursor) AtEnd() bool {
	if c.forward < len(c.bank.slots[c.active].buf) {
		return false
	}
	return !c.ahead() && c.bank.eof
}

// Close releases the underlying file. It is safe to call Close more than once.
func (c *Cursor) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	return c.f.Close()
}

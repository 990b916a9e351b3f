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
	"fmt"
	"io"
	"os"
)

// Pos is an absolute character position within a File. This is a rune index
// rather than a byte index; it is stable across slot switches.
type Pos int

// Position describes an arbitrary source position including the file, line, and column location.
type Position struct {
	Filename string
	Offset   Pos // rune index in the file
	Line     int // 1-based line number
	Column   int // 1-based column number (rune index)
}

func (p Position) String() string {
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}

// A File represents an input file. It's a wrapper around an io.Reader that
// handles character offset to line/column conversion.
type File struct {
	name string
	io.Reader
	lines []Pos // 0-based line/Pos information
}

// NewFile returns a new File. Line 1 starts at position 0.
func NewFile(name string, r io.Reader) *File {
	return &File{
		name:   name,
		Reader: r,
		lines:  []Pos{0},
	}
}

// OpenFile opens the named file for reading. Errors wrap ErrSourceUnavailable.
func OpenFile(name string) (*File, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	return NewFile(name, f), nil
}

// Name returns the file name.
func (f *File) Name() string {
	return f.name
}

// Close closes the underlying reader if it implements io.Closer.
func (f *File) Close() error {
	if c, ok := f.Reader.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// AddLine records that a new line starts at pos. Positions at or before the
// start of the last known line are ignored so that a line break read again
// after a pushback does not register twice.
func (f *File) AddLine(pos Pos) {
	if l := len(f.lines); l > 0 && f.lines[l-1] >= pos {
		return
	}
	f.lines = append(f.lines, pos)
}

// Lines returns the number of lines seen so far.
func (f *File) Lines() int {
	return len(f.lines)
}

// Position returns the 1-based line and column for a given pos.
func (f *File) Position(pos Pos) Position {
	i, j := 0, len(f.lines)
	for i < j {
		h := int(uint(i+j) >> 1)
		if !(f.lines[h] > pos) {
			i = h + 1
		} else {
			j = h
		}
	}
	if i == 0 {
		return Position{f.name, pos, 0, 0}
	}
	return Position{f.name, pos, i, int(pos - f.lines[i-1] + 1)}
}

// LinePos returns the position of the first character of the given line, or
// -1 if that line has not been read yet.
func (f *File) LinePos(line int) Pos {
	if line < 1 || line > len(f.lines) {
		return -1
	}
	return f.lines[line-1]
}

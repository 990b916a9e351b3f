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

// Package bench compares a dbuf.Cursor with a trivial single buffer reader
// over the same input and prints a report.
package bench

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"time"

	"github.com/db47h/dbuf"
)

// Result holds the measurements for one slot capacity.
type Result struct {
	Capacity int
	Chars    int           // characters read
	Switches int           // slot switches of the double buffered cursor
	Refills  int           // refills of the single buffer
	Double   time.Duration // time spent draining the cursor
	Single   time.Duration // time spent draining the single buffer
}

// Ratio returns Double / Single, or 0 if Single is zero.
func (r Result) Ratio() float64 {
	if r.Single == 0 {
		return 0
	}
	return float64(r.Double) / float64(r.Single)
}

// Baseline reads r through a single buffer of capacity characters that is
// only refilled once drained. It returns the number of characters and refills.
func Baseline(r io.Reader, capacity int) (chars, refills int, err error) {
	if capacity < 1 {
		return 0, 0, dbuf.ErrCapacity
	}
	rr, ok := r.(io.RuneReader)
	if !ok {
		rr = bufio.NewReader(r)
	}
	buf := make([]rune, 0, capacity)
	for {
		buf = buf[:0]
		for len(buf) < capacity {
			c, _, err := rr.ReadRune()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return chars, refills, err
			}
			buf = append(buf, c)
		}
		if len(buf) == 0 {
			return chars, refills, nil
		}
		refills++
		chars += len(buf)
	}
}

// Drain reads c until the end of input and returns the number of characters.
func Drain(c *dbuf.Cursor) (int, error) {
	n := 0
	for {
		_, err := c.Next()
		if err == io.EOF {
			return n, nil
		}
		if err != nil {
			return n, err
		}
		n++
	}
}

// Measure reads data once per capacity with each reader. Options are passed
// to dbuf.NewCursor, after the capacity.
func Measure(data []byte, capacities []int, opts ...dbuf.Option) ([]Result, error) {
	rs := make([]Result, 0, len(capacities))
	for _, capacity := range capacities {
		r := Result{Capacity: capacity}

		start := time.Now()
		c, err := dbuf.NewCursor(dbuf.NewFile("", bytes.NewReader(data)), append([]dbuf.Option{dbuf.WithCapacity(capacity)}, opts...)...)
		if err != nil {
			return rs, err
		}
		if r.Chars, err = Drain(c); err != nil {
			return rs, err
		}
		r.Double = time.Since(start)
		r.Switches = c.SwitchCount()
		if err = c.Close(); err != nil {
			return rs, err
		}

		start = time.Now()
		if _, r.Refills, err = Baseline(bytes.NewReader(data), capacity); err != nil {
			return rs, err
		}
		r.Single = time.Since(start)

		rs = append(rs, r)
	}
	return rs, nil
}

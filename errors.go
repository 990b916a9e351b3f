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
	"fmt"
)

// Common errors.
var (
	ErrSourceUnavailable = errors.New("source unavailable")
	ErrCapacity          = errors.New("slot capacity must be at least 1")
	ErrClosed            = errors.New("cursor closed")
	ErrPushback          = errors.New("pushback beyond retained slots")
	ErrAtStart           = errors.New("pushback at start of input")
)

// A ReadError is returned by Cursor.Next when refilling a slot failed. The
// cursor keeps returning it: the state of the underlying reader is unknown.
type ReadError struct {
	Pos Pos // position of the first character the failed refill would have read
	Err error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read error at %d: %v", e.Pos, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

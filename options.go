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
	"github.com/go-logr/logr"
	"golang.org/x/text/encoding"
)

// DefaultCapacity is the default number of characters per slot.
const DefaultCapacity = 4 << 10

type options struct {
	capacity int
	log      logr.Logger
	enc      encoding.Encoding
}

// An Option configures a Cursor.
type Option func(*options)

// WithCapacity sets the number of characters each of the two slots can hold.
func WithCapacity(n int) Option {
	return func(o *options) {
		o.capacity = n
	}
}

// WithLogger sets the logger used to report slot switches (V(1)) and
// pushback warnings.
func WithLogger(l logr.Logger) Option {
	return func(o *options) {
		o.log = l
	}
}

// WithEncoding decodes the source with the given encoding before it is split
// into characters. The default is to read the source as UTF-8.
func WithEncoding(e encoding.Encoding) Option {
	return func(o *options) {
		o.enc = e
	}
}

func defaultOptions() options {
	return options{
		capacity: DefaultCapacity,
		log:      logr.Discard(),
	}
}

func newOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

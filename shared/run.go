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

package shared

import (
	"context"

	"github.com/db47h/dbuf"
	"golang.org/x/sync/errgroup"
)

// Stats holds the outcome of Run.
type Stats struct {
	Produced int // characters delivered to the producer
	Consumed int // characters delivered to the consumer
	Switches int // slot switches of the shared cursor
}

// Total returns the number of characters read by both sides.
func (s Stats) Total() int {
	return s.Produced + s.Consumed
}

// Run starts a producer and a consumer over g, waits for both to return,
// then closes the cursor. Either fn may be nil. The first error returned by
// either side cancels the other one.
func Run(ctx context.Context, g *Guard, produce, consume Func) (Stats, error) {
	var st Stats
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return g.Produce(ctx, counting(&st.Produced, produce))
	})
	eg.Go(func() error {
		return g.Consume(ctx, counting(&st.Consumed, consume))
	})
	err := eg.Wait()
	st.Switches = g.SwitchCount()
	if cerr := g.Close(); err == nil {
		err = cerr
	}
	return st, err
}

func counting(n *int, fn Func) Func {
	return func(r rune, p dbuf.Pos) error {
		*n++
		if fn == nil {
			return nil
		}
		return fn(r, p)
	}
}

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

// Package shared lets a producer and a consumer goroutine read through the
// same dbuf.Cursor.
//
// Both sides advance one cursor: every character is delivered exactly once,
// to whichever side calls Next at that step, in increasing position order.
// The producer marks completion when it reaches the end of input; a consumer
// that reaches the end before that waits for the signal instead of stopping.
package shared

import (
	"context"
	"io"
	"sync"

	"github.com/db47h/dbuf"
	"github.com/go-logr/logr"
)

// State is the completion state of a Guard.
type State int

// Guard states.
const (
	Running      State = iota // producer still reading
	ProducerDone              // producer reached the end of input
	Finished                  // consumer observed completion as well
)

var stateNames = [...]string{
	Running:      "running",
	ProducerDone: "producer done",
	Finished:     "finished",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// A Func receives a character and its absolute position.
type Func func(r rune, p dbuf.Pos) error

// A Guard serializes access to a cursor it owns. Each method is a single
// cursor step under the guard's lock.
type Guard struct {
	mu    sync.Mutex
	c     *dbuf.Cursor
	state State
	done  chan struct{} // closed when the producer is done
	log   logr.Logger
}

// New returns a guard taking ownership of c.
func New(c *dbuf.Cursor, log logr.Logger) *Guard {
	return &Guard{
		c:    c,
		done: make(chan struct{}),
		log:  log,
	}
}

// Next returns the next character and its position. See dbuf.Cursor.Next.
func (g *Guard) Next() (rune, dbuf.Pos, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	p := g.c.Pos()
	r, err := g.c.Next()
	return r, p, err
}

// Unget pushes back the last character read by either side.
func (g *Guard) Unget() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.c.Unget()
}

// ResetLexeme marks the start of a lexeme at the current position.
func (g *Guard) ResetLexeme() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.c.ResetLexeme()
}

// Lexeme returns the characters read by either side since ResetLexeme.
func (g *Guard) Lexeme() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.c.Lexeme()
}

// Pos returns the position of the next character.
func (g *Guard) Pos() dbuf.Pos {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.c.Pos()
}

// SwitchCount returns the number of slot switches so far.
func (g *Guard) SwitchCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.c.SwitchCount()
}

// AtEnd reports whether the underlying cursor is at the end of input.
func (g *Guard) AtEnd() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.c.AtEnd()
}

// Finish marks the producer as done and wakes up a waiting consumer. Only the
// first call has an effect.
func (g *Guard) Finish() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state != Running {
		return
	}
	g.state = ProducerDone
	close(g.done)
	g.log.V(1).Info("producer done", "pos", g.c.Pos(), "switches", g.c.SwitchCount())
}

// Done returns a channel that is closed once the producer is done.
func (g *Guard) Done() <-chan struct{} {
	return g.done
}

// State returns the current completion state.
func (g *Guard) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

func (g *Guard) finished() {
	g.mu.Lock()
	g.state = Finished
	g.mu.Unlock()
}

// Close closes the cursor. It must only be called once both sides have
// returned.
func (g *Guard) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.c.Close()
}

// Produce reads characters until the end of input, calling fn for each of
// them, then marks the producer as done. It also marks it done when it
// returns early on error.
func (g *Guard) Produce(ctx context.Context, fn Func) error {
	defer g.Finish()
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		r, p, err := g.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err = fn(r, p); err != nil {
			return err
		}
	}
}

// Consume reads characters, calling fn for each of them. Reaching the end of
// input is final only once the producer is done; until then Consume waits for
// the producer's signal and tries again.
func (g *Guard) Consume(ctx context.Context, fn Func) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		r, p, err := g.Next()
		if err == nil {
			if err = fn(r, p); err != nil {
				return err
			}
			continue
		}
		if err != io.EOF {
			return err
		}
		select {
		case <-g.done:
			g.finished()
			return nil
		default:
		}
		select {
		case <-g.done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

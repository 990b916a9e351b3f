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

/*
Package dbuf implements the input side of a lexical scanner: a character
cursor that streams a source through two fixed-size slots, with one character
of pushback and a lexeme window.

# Slots

A Cursor owns two slots of Capacity characters each. Both are filled when the
cursor is created. When the active slot is exhausted, the cursor switches to
the other one; if that slot does not already hold the characters that follow,
it is refilled at that moment. The slot that was just left is kept untouched:
it is the history that Unget and Lexeme rely on.

Each slot load ends with an end marker. The marker is a tagged value, not a
reserved rune, so every possible input character can be returned by Next.

	c, err := dbuf.Open("input.txt", dbuf.WithCapacity(1024))
	if err != nil {
		return err
	}
	defer c.Close()
	for {
		r, err := c.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		// use r
	}

# Positions

Pos is an absolute character index from the start of the source. It does not
depend on which slot a character was read from. The File keeps a line table
built as newlines are read so that a Pos can be converted to a line:column
Position for error reporting.

# Pushback and lexemes

Unget moves back by one character. It can cross back into the previous slot
load, but not beyond: once a position has been overwritten by a refill,
Unget leaves the cursor where it is and returns an error wrapping ErrPushback.

ResetLexeme marks the start of a token and Lexeme returns the text read since
then, stitched together from both slots if the token straddles a switch.
Lexemes longer than the retained history lose their first characters; Evicted
tells how many.

# Error handling

End of input is not an error condition as such: Next returns EOF together
with io.EOF, as many times as it is called. Failing to open the source
(ErrSourceUnavailable) and read errors (*ReadError) are fatal; pushback
conditions (ErrAtStart, ErrPushback) are not.

# Concurrency

A Cursor is meant to be used by a single goroutine. Package shared wraps a
cursor so that a producer and a consumer goroutine can advance it together.
*/
package dbuf

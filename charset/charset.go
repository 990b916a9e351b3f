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

// Package charset detects the encoding of a source and converts it to UTF-8
// before it reaches a cursor.
package charset

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/gogs/chardet"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// UTF8 is the label returned by Detect for UTF-8 content.
const UTF8 = "UTF-8"

// sniffLen is the number of bytes NewReader inspects.
const sniffLen = 2048

// UTF8BOM is the UTF-8 byte order mark.
var UTF8BOM = []byte{'\xef', '\xbb', '\xbf'}

// ErrUnknownEncoding is returned by Lookup for labels it does not know.
var ErrUnknownEncoding = errors.New("unknown encoding")

// Lookup returns the encoding for the given label, as understood by the
// WHATWG encoding specification ("latin1", "utf-16le", "shift_jis", ...).
func Lookup(label string) (encoding.Encoding, error) {
	e, _ := charset.Lookup(label)
	if e == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, label)
	}
	return e, nil
}

// minDetect is the sample size below which the statistical detector is fed
// repeated copies of the content.
const minDetect = 1024

// Detect returns the label of the most likely encoding of content. A
// multi-byte character cut short at the end of content does not prevent a
// UTF-8 match.
func Detect(content []byte) (string, error) {
	if utf8.Valid(trimPartialRune(content)) {
		return UTF8, nil
	}
	sample := content
	if n := len(content); n < minDetect {
		sample = bytes.Repeat(content, (minDetect+n-1)/n)
	}
	results, err := chardet.NewTextDetector().DetectAll(sample)
	if err != nil {
		return "", err
	}
	// results are sorted by confidence: among the best ones, prefer one that
	// can be decoded
	for _, r := range results {
		if r.Confidence < results[0].Confidence {
			break
		}
		if _, err := Lookup(strings.TrimSpace(r.Charset)); err == nil {
			return r.Charset, nil
		}
	}
	return results[0].Charset, nil
}

// trimPartialRune drops an incomplete multi-byte sequence at the end of b.
func trimPartialRune(b []byte) []byte {
	for i := len(b) - 1; i >= 0 && i >= len(b)-utf8.UTFMax; i-- {
		if utf8.RuneStart(b[i]) {
			if !utf8.FullRune(b[i:]) {
				return b[:i]
			}
			break
		}
	}
	return b
}

// NewReader inspects the first bytes of r and returns a reader producing its
// content as UTF-8, along with the detected encoding label. A leading UTF-8
// byte order mark is dropped.
func NewReader(r io.Reader) (io.Reader, string, error) {
	buf := make([]byte, sniffLen)
	n, err := io.ReadFull(r, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, "", err
	}
	buf = buf[:n]

	label, err := Detect(buf)
	if err != nil || label == UTF8 {
		return io.MultiReader(bytes.NewReader(bytes.TrimPrefix(buf, UTF8BOM)), r), UTF8, nil
	}
	e, err := Lookup(label)
	if err != nil {
		return io.MultiReader(bytes.NewReader(buf), r), label, err
	}
	return transform.NewReader(io.MultiReader(bytes.NewReader(buf), r), e.NewDecoder()), label, nil
}

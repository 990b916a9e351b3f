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

package bench

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/width"
)

const (
	bold  = "\x1b[1m"
	reset = "\x1b[0m"
)

// Report writes a table of results for the named input of the given size in
// bytes. If color is set, the title is highlighted with ANSI escapes.
func Report(w io.Writer, name string, size int64, rs []Result, color bool) error {
	title := fmt.Sprintf("Double buffering: %s (%s)", name, humanize.Bytes(uint64(size)))
	rule := strings.Repeat("=", displayWidth(title))
	if color {
		title = bold + title + reset
	}
	if _, err := fmt.Fprintf(w, "%s\n%s\n", title, rule); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "capacity\tchars\tswitches\trefills\tdouble\tsingle\tratio\t")
	for _, r := range rs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%.2f\t\n",
			humanize.Comma(int64(r.Capacity)),
			humanize.Comma(int64(r.Chars)),
			humanize.Comma(int64(r.Switches)),
			humanize.Comma(int64(r.Refills)),
			r.Double, r.Single, r.Ratio())
	}
	return tw.Flush()
}

// displayWidth returns the number of terminal columns s occupies.
func displayWidth(s string) int {
	n := 0
	for len(s) > 0 {
		r, sz := utf8.DecodeRuneInString(s)
		s = s[sz:]
		switch width.LookupRune(r).Kind() {
		case width.EastAsianFullwidth, width.EastAsianWide:
			n += 2
		default:
			n++
		}
	}
	return n
}

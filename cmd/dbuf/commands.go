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

package main

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/db47h/dbuf"
	"github.com/db47h/dbuf/bench"
	"github.com/db47h/dbuf/scan"
	"github.com/db47h/dbuf/shared"
	"github.com/mattn/go-isatty"
	"github.com/sanity-io/litter"
	"github.com/urfave/cli/v2"
)

var cmdRead = &cli.Command{
	Name:      "read",
	Usage:     "read a file to the end and print cursor statistics",
	ArgsUsage: "FILE",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "echo",
			Usage: "copy the characters read to standard output",
		},
	},
	Action: func(c *cli.Context) error {
		cur, err := openCursor(c)
		if err != nil {
			return err
		}
		defer cur.Close()
		w := c.App.Writer
		n := 0
		for {
			r, err := cur.Next()
			if err != nil {
				if err == io.EOF {
					break
				}
				return err
			}
			if c.Bool("echo") {
				fmt.Fprint(w, string(r))
			}
			n++
		}
		fmt.Fprintf(w, "characters: %d\nlines: %d\nlongest line: %d\nswitches: %d\n",
			n, cur.File().Lines(), longestLine(cur.File(), dbuf.Pos(n)), cur.SwitchCount())
		return nil
	},
}

// longestLine returns the length of the longest line of f, line breaks
// excluded. end is the position following the last character.
func longestLine(f *dbuf.File, end dbuf.Pos) int {
	longest := 0
	for l := 1; l <= f.Lines(); l++ {
		e := end
		if l < f.Lines() {
			e = f.LinePos(l+1) - 1
		}
		longest = max(longest, int(e-f.LinePos(l)))
	}
	return longest
}

var cmdShare = &cli.Command{
	Name:      "share",
	Usage:     "read a file with a producer and a consumer sharing one cursor",
	ArgsUsage: "FILE",
	Flags: []cli.Flag{
		&cli.DurationFlag{
			Name:  "delay",
			Usage: "producer delay after each character",
		},
		&cli.BoolFlag{
			Name:  "trace",
			Usage: "print every character with the side that read it",
		},
	},
	Action: func(c *cli.Context) error {
		cur, err := openCursor(c)
		if err != nil {
			return err
		}
		w := c.App.Writer
		delay := c.Duration("delay")
		var mu sync.Mutex // both sides write to w
		side := func(name string) shared.Func {
			return func(r rune, p dbuf.Pos) error {
				if c.Bool("trace") {
					mu.Lock()
					fmt.Fprintf(w, "%s %d %q\n", name, p, r)
					mu.Unlock()
				}
				if delay > 0 && name == "producer" {
					time.Sleep(delay)
				}
				return nil
			}
		}
		g := shared.New(cur, newLogger(c))
		st, err := shared.Run(c.Context, g, side("producer"), side("consumer"))
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "produced: %d\nconsumed: %d\ntotal: %d\nswitches: %d\nstate: %s\n",
			st.Produced, st.Consumed, st.Total(), st.Switches, g.State())
		return nil
	},
}

var cmdScan = &cli.Command{
	Name:      "scan",
	Usage:     "tokenize an expression file",
	ArgsUsage: "FILE",
	Action: func(c *cli.Context) error {
		cur, err := openCursor(c)
		if err != nil {
			return err
		}
		defer cur.Close()
		items, err := scan.All(cur)
		for _, i := range items {
			fmt.Fprintf(c.App.Writer, "%s\t%s\n", cur.File().Position(i.Pos), i)
		}
		return err
	},
}

var cmdBench = &cli.Command{
	Name:      "bench",
	Usage:     "compare the cursor with a single buffer reader",
	ArgsUsage: "FILE",
	Flags: []cli.Flag{
		&cli.IntSliceFlag{
			Name:  "capacities",
			Value: cli.NewIntSlice(16, 256, 4096),
			Usage: "slot capacities to measure",
		},
		&cli.BoolFlag{
			Name:  "dump",
			Usage: "dump raw results",
		},
	},
	Action: func(c *cli.Context) error {
		name, err := sourceName(c)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(name)
		if err != nil {
			return fmt.Errorf("%w: %w", dbuf.ErrSourceUnavailable, err)
		}
		opts, err := encodingOptions(c.String("encoding"), data)
		if err != nil {
			return err
		}
		rs, err := bench.Measure(data, c.IntSlice("capacities"), append(opts, dbuf.WithLogger(newLogger(c)))...)
		if err != nil {
			return err
		}
		if c.Bool("dump") {
			fmt.Fprintln(c.App.Writer, litter.Sdump(rs))
		}
		return bench.Report(c.App.Writer, name, int64(len(data)), rs, isTerminal(c))
	},
}

func isTerminal(c *cli.Context) bool {
	f, ok := c.App.Writer.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

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

// Command dbuf reads files through a double buffered cursor.
//
// Usage:
//
//	dbuf [global options] read|share|scan|bench FILE
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/db47h/dbuf"
	"github.com/db47h/dbuf/charset"
	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "dbuf:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "dbuf",
		Usage: "read files through a double buffered character cursor",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "capacity",
				Aliases: []string{"c"},
				Value:   dbuf.DefaultCapacity,
				Usage:   "characters per slot",
			},
			&cli.StringFlag{
				Name:    "encoding",
				Aliases: []string{"e"},
				Usage:   "source encoding label, or \"auto\" to detect it (default UTF-8)",
			},
			&cli.IntFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "log verbosity, 1 traces slot switches and refills",
			},
		},
		Commands: []*cli.Command{
			cmdRead,
			cmdShare,
			cmdScan,
			cmdBench,
		},
	}
}

func newLogger(c *cli.Context) logr.Logger {
	w := c.App.ErrWriter
	if w == nil {
		w = os.Stderr
	}
	return funcr.New(func(prefix, args string) {
		if prefix != "" {
			fmt.Fprintln(w, prefix, args)
		} else {
			fmt.Fprintln(w, args)
		}
	}, funcr.Options{Verbosity: c.Int("verbose")})
}

type readCloser struct {
	io.Reader
	io.Closer
}

func sourceName(c *cli.Context) (string, error) {
	if c.NArg() != 1 {
		return "", fmt.Errorf("%s: expected exactly one FILE argument", c.Command.Name)
	}
	return c.Args().First(), nil
}

// openCursor opens the file named on the command line with the global
// options applied.
func openCursor(c *cli.Context) (*dbuf.Cursor, error) {
	name, err := sourceName(c)
	if err != nil {
		return nil, err
	}
	log := newLogger(c)
	opts := []dbuf.Option{
		dbuf.WithCapacity(c.Int("capacity")),
		dbuf.WithLogger(log),
	}
	switch label := c.String("encoding"); label {
	case "", "utf-8", "utf8", charset.UTF8:
		return dbuf.Open(name, opts...)
	case "auto":
		f, err := dbuf.OpenFile(name)
		if err != nil {
			return nil, err
		}
		r, label, err := charset.NewReader(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		log.V(1).Info("detected encoding", "file", name, "encoding", label)
		cur, err := dbuf.NewCursor(dbuf.NewFile(name, readCloser{r, f}), opts...)
		if err != nil {
			f.Close()
		}
		return cur, err
	default:
		eo, err := encodingOptions(label, nil)
		if err != nil {
			return nil, err
		}
		return dbuf.Open(name, append(opts, eo...)...)
	}
}

// encodingOptions resolves an --encoding label. "auto" detects the encoding
// of sample.
func encodingOptions(label string, sample []byte) ([]dbuf.Option, error) {
	if label == "auto" {
		l, err := charset.Detect(sample[:min(len(sample), 2<<10)])
		if err != nil {
			return nil, err
		}
		label = l
	}
	switch label {
	case "", "utf-8", "utf8", charset.UTF8:
		return nil, nil
	}
	e, err := charset.Lookup(label)
	if err != nil {
		return nil, err
	}
	return []dbuf.Option{dbuf.WithEncoding(e)}, nil
}

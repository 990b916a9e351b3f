package dbuf_test

import (
	"errors"
	"io"
	"math/rand"
	"strconv"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/db47h/dbuf"
	"github.com/go-logr/logr/funcr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func newCursor(t testing.TB, input string, capacity int, opts ...dbuf.Option) *dbuf.Cursor {
	t.Helper()
	opts = append([]dbuf.Option{dbuf.WithCapacity(capacity)}, opts...)
	c, err := dbuf.NewCursor(dbuf.NewFile("test", strings.NewReader(input)), opts...)
	require.NoError(t, err)
	return c
}

func drain(t testing.TB, c *dbuf.Cursor) string {
	t.Helper()
	var sb strings.Builder
	for {
		r, err := c.Next()
		if err == io.EOF {
			require.Equal(t, dbuf.EOF, r)
			return sb.String()
		}
		require.NoError(t, err)
		sb.WriteRune(r)
	}
}

func TestCursor_Next(t *testing.T) {
	next := func(c *dbuf.Cursor) (rune, error) { return c.Next() }
	unget := func(c *dbuf.Cursor) (rune, error) { return 0, c.Unget() }
	peek := func(c *dbuf.Cursor) (rune, error) { return c.Peek() }

	type step struct {
		name string
		fn   func(c *dbuf.Cursor) (rune, error)
		r    rune
		err  error
		pos  dbuf.Pos
		sw   int
	}

	tests := []struct {
		input    string
		capacity int
		steps    []step
	}{
		{"ab\ncd", 2, []step{
			{"a", next, 'a', nil, 1, 0},
			{"b", next, 'b', nil, 2, 0},
			{"nl", next, '\n', nil, 3, 1},
			{"u1", unget, 0, nil, 2, 1},
			{"u2", unget, 0, nil, 1, 1},
			{"b2", next, 'b', nil, 2, 1},
			{"nl2", next, '\n', nil, 3, 2},
			{"c", next, 'c', nil, 4, 2},
			{"pd", peek, 'd', nil, 4, 3},
			{"d", next, 'd', nil, 5, 3},
			{"eof", next, dbuf.EOF, io.EOF, 5, 3},
			{"eof2", next, dbuf.EOF, io.EOF, 5, 3},
			{"u3", unget, 0, nil, 4, 3},
			{"u4", unget, 0, nil, 3, 3},
			{"u5", unget, 0, nil, 2, 3},
			{"u6", unget, 0, dbuf.ErrPushback, 2, 3},
			{"nl3", next, '\n', nil, 3, 3},
		}},
		{"", 4, []step{
			{"eof", next, dbuf.EOF, io.EOF, 0, 0},
			{"u", unget, 0, dbuf.ErrAtStart, 0, 0},
			{"peof", peek, dbuf.EOF, io.EOF, 0, 0},
			{"eof2", next, dbuf.EOF, io.EOF, 0, 0},
		}},
		{"x", 1, []step{
			{"u0", unget, 0, dbuf.ErrAtStart, 0, 0},
			{"x", next, 'x', nil, 1, 0},
			{"eof", next, dbuf.EOF, io.EOF, 1, 0},
			{"u", unget, 0, nil, 0, 0},
			{"x2", next, 'x', nil, 1, 0},
		}},
	}

	for i, tt := range tests {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			c := newCursor(t, tt.input, tt.capacity)
			defer c.Close()
			for _, s := range tt.steps {
				r, err := s.fn(c)
				if s.err != nil {
					if !errors.Is(err, s.err) {
						t.Errorf("%s: expected error %v, got %v", s.name, s.err, err)
					}
				} else if err != nil {
					t.Errorf("%s: unexpected error %v", s.name, err)
				}
				if s.r != 0 && r != s.r {
					t.Errorf("%s: expected %q, got %q", s.name, s.r, r)
				}
				if c.Pos() != s.pos {
					t.Errorf("%s: expected pos %d, got %d", s.name, s.pos, c.Pos())
				}
				if c.SwitchCount() != s.sw {
					t.Errorf("%s: expected %d switches, got %d", s.name, s.sw, c.SwitchCount())
				}
				if t.Failed() {
					return
				}
			}
		})
	}
}

func TestCursor_example(t *testing.T) {
	c := newCursor(t, "ab\ncd", 2)
	var got []rune
	for {
		r, err := c.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		got = append(got, r)
	}
	assert.Equal(t, []rune{'a', 'b', '\n', 'c', 'd'}, got)
	assert.Equal(t, 2, c.SwitchCount())
	assert.True(t, c.AtEnd())

	p := c.File().Position(4)
	assert.Equal(t, 2, p.Line)
	assert.Equal(t, 2, p.Column)
	assert.Equal(t, "test:2:2", p.String())
	assert.NoError(t, c.Close())
	assert.NoError(t, c.Close())
}

func randomString(rnd *rand.Rand, n int) string {
	alphabet := []rune("abc \n\té世0")
	rs := make([]rune, n)
	for i := range rs {
		rs[i] = alphabet[rnd.Intn(len(alphabet))]
	}
	return string(rs)
}

func TestCursor_roundTrip(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	for _, l := range []int{0, 1, 2, 7, 64, 100, 1000} {
		s := randomString(rnd, l)
		for _, capacity := range []int{1, 2, 3, 8, 64, 4096} {
			c := newCursor(t, s, capacity)
			assert.Equal(t, s, drain(t, c), "len %d, capacity %d", l, capacity)
			assert.Equal(t, dbuf.Pos(l), c.Pos())

			// one switch per slot load after the first
			loads := (l + capacity - 1) / capacity
			want := max(loads-1, 0)
			assert.Equal(t, want, c.SwitchCount(), "len %d, capacity %d", l, capacity)

			for i := 0; i < 3; i++ {
				r, err := c.Next()
				assert.Equal(t, dbuf.EOF, r)
				assert.Equal(t, io.EOF, err)
			}
			assert.True(t, c.AtEnd())
		}
	}
}

func TestCursor_pushbackInverse(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	s := []rune(randomString(rnd, 200))
	for _, capacity := range []int{1, 2, 5, 16} {
		c := newCursor(t, string(s), capacity)
		for p := range s {
			if p > 0 {
				// the previous character is always resident
				require.NoError(t, c.Unget(), "pos %d, capacity %d", p, capacity)
				r, err := c.Next()
				require.NoError(t, err)
				require.Equal(t, s[p-1], r, "pos %d, capacity %d", p, capacity)
			}
			r, err := c.Next()
			require.NoError(t, err)
			require.Equal(t, s[p], r, "pos %d, capacity %d", p, capacity)
			require.Equal(t, dbuf.Pos(p+1), c.Pos())
		}
	}
}

func TestCursor_pushbackWindow(t *testing.T) {
	const capacity = 4
	c := newCursor(t, "0123456789abcdef", capacity)
	for i := 0; i < 10; i++ {
		_, err := c.Next()
		require.NoError(t, err)
	}
	// slots now hold [4,8) and [8,12): six positions back are resident
	for i := 0; i < 6; i++ {
		require.NoError(t, c.Unget())
	}
	assert.Equal(t, dbuf.Pos(4), c.Pos())
	err := c.Unget()
	assert.ErrorIs(t, err, dbuf.ErrPushback)
	assert.Equal(t, dbuf.Pos(4), c.Pos())
	assert.Equal(t, "4567", drain(t, c)[:4])
}

func TestCursor_pushbackWarning(t *testing.T) {
	var logged []string
	log := funcr.New(func(prefix, args string) {
		logged = append(logged, args)
	}, funcr.Options{})

	c := newCursor(t, "abcdef", 2, dbuf.WithLogger(log))
	for i := 0; i < 5; i++ {
		_, err := c.Next()
		require.NoError(t, err)
	}
	require.NoError(t, c.Unget())
	require.NoError(t, c.Unget())
	require.NoError(t, c.Unget())
	require.ErrorIs(t, c.Unget(), dbuf.ErrPushback)
	require.Len(t, logged, 1)
	assert.Contains(t, logged[0], "pushback clamped")
}

func TestCursor_readError(t *testing.T) {
	errBoom := errors.New("boom")
	src := io.MultiReader(strings.NewReader("abcd"), iotest.ErrReader(errBoom))
	c, err := dbuf.NewCursor(dbuf.NewFile("", src), dbuf.WithCapacity(2))
	require.NoError(t, err)

	for _, want := range "abcd" {
		r, err := c.Next()
		require.NoError(t, err)
		require.Equal(t, want, r)
	}
	for i := 0; i < 2; i++ {
		r, err := c.Next()
		assert.Equal(t, dbuf.EOF, r)
		var rerr *dbuf.ReadError
		require.ErrorAs(t, err, &rerr)
		assert.Equal(t, dbuf.Pos(4), rerr.Pos)
		assert.ErrorIs(t, err, errBoom)
	}
}

func TestCursor_initialReadError(t *testing.T) {
	errBoom := errors.New("boom")
	c, err := dbuf.NewCursor(dbuf.NewFile("", iotest.ErrReader(errBoom)))
	require.NoError(t, err)
	_, err = c.Next()
	assert.ErrorIs(t, err, errBoom)
	assert.False(t, c.AtEnd())
}

func TestCursor_partialReadError(t *testing.T) {
	errBoom := errors.New("boom")
	src := io.MultiReader(strings.NewReader("abc"), iotest.ErrReader(errBoom))
	c, err := dbuf.NewCursor(dbuf.NewFile("", src), dbuf.WithCapacity(2))
	require.NoError(t, err)
	for _, want := range "abc" {
		r, err := c.Next()
		require.NoError(t, err)
		require.Equal(t, want, r)
	}
	_, err = c.Next()
	var rerr *dbuf.ReadError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, dbuf.Pos(3), rerr.Pos)
}

func TestCursor_capacity(t *testing.T) {
	_, err := dbuf.NewCursor(dbuf.NewFile("", strings.NewReader("")), dbuf.WithCapacity(0))
	assert.ErrorIs(t, err, dbuf.ErrCapacity)

	c := newCursor(t, "", dbuf.DefaultCapacity)
	assert.Equal(t, dbuf.DefaultCapacity, c.Capacity())
}

func TestCursor_closed(t *testing.T) {
	c := newCursor(t, "abc", 2)
	require.NoError(t, c.Close())
	_, err := c.Next()
	assert.ErrorIs(t, err, dbuf.ErrClosed)
	assert.ErrorIs(t, c.Unget(), dbuf.ErrClosed)
}

func TestOpen(t *testing.T) {
	_, err := dbuf.Open("testdata/does-not-exist.txt")
	assert.ErrorIs(t, err, dbuf.ErrSourceUnavailable)

	c, err := dbuf.Open("testdata/sample.txt", dbuf.WithCapacity(8))
	require.NoError(t, err)
	s := drain(t, c)
	assert.True(t, strings.HasPrefix(s, "x = 42 + y1"))
	assert.NoError(t, c.Close())
}

func TestCursor_encoding(t *testing.T) {
	c := newCursor(t, "caf\xe9 cr\xe8me", 3, dbuf.WithEncoding(charmap.ISO8859_1))
	assert.Equal(t, "café crème", drain(t, c))
}

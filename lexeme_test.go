package dbuf_test

import (
	"math/rand"
	"testing"

	"github.com/db47h/dbuf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursor_Lexeme(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		capacity int
		skip     int // characters read before ResetLexeme
		read     int // characters read after ResetLexeme
		unget    int
		want     string
		evicted  int
	}{
		{"empty", "abc", 4, 1, 0, 0, "", 0},
		{"single slot", "abcdef", 4, 1, 2, 0, "bc", 0},
		{"straddle", "abcdefgh", 3, 2, 3, 0, "cde", 0},
		{"straddle unget", "abcdefgh", 3, 2, 4, 2, "cd", 0},
		{"whole history", "abcdefgh", 3, 3, 5, 0, "defgh", 0},
		{"evicted", "abcdefgh", 3, 0, 8, 0, "defgh", 3},
		{"at eof", "ab", 1, 0, 5, 0, "ab", 0},
		{"unget before begin", "abcd", 2, 2, 0, 1, "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newCursor(t, tt.input, tt.capacity)
			for i := 0; i < tt.skip; i++ {
				_, _ = c.Next()
			}
			c.ResetLexeme()
			for i := 0; i < tt.read; i++ {
				_, _ = c.Next()
			}
			for i := 0; i < tt.unget; i++ {
				require.NoError(t, c.Unget())
			}
			assert.Equal(t, tt.want, c.Lexeme())
			assert.Equal(t, tt.evicted, c.Evicted())
			assert.LessOrEqual(t, c.LexemeBegin(), c.Pos())
		})
	}
}

func TestCursor_lexemeExactness(t *testing.T) {
	rnd := rand.New(rand.NewSource(3))
	s := []rune(randomString(rnd, 500))
	for _, capacity := range []int{1, 4, 9, 32} {
		c := newCursor(t, string(s), capacity)
		p := 0
		for p < len(s) {
			// a lexeme never longer than one slot load plus one character
			// always fits in the retained history.
			k := min(1+rnd.Intn(capacity+1), len(s)-p)
			c.ResetLexeme()
			for i := 0; i < k; i++ {
				_, err := c.Next()
				require.NoError(t, err)
			}
			require.Equal(t, string(s[p:p+k]), c.Lexeme(), "capacity %d, pos %d", capacity, p)
			require.Zero(t, c.Evicted())
			p += k
		}
		assert.Equal(t, dbuf.Pos(len(s)), c.Pos())
	}
}

package lexarg

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestCeilCharBoundary(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		offset   int
		expected int
		ok       bool
	}{
		{name: "ascii", input: "-abc", offset: 1, expected: 2, ok: true},
		{name: "last ascii", input: "-abc", offset: 3, expected: 4, ok: true},
		{name: "at end", input: "-abc", offset: 4, ok: false},
		{name: "past end", input: "-a", offset: 7, ok: false},
		{name: "empty", input: "", offset: 0, ok: false},
		{name: "two byte rune", input: "-µx", offset: 1, expected: 3, ok: true},
		{name: "four byte rune", input: "-💣", offset: 1, expected: 5, ok: true},
		{name: "from inside rune", input: "-💣a", offset: 2, expected: 5, ok: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, ok := ceilCharBoundary(tt.input, tt.offset)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, next)
			}
		})
	}
}

func TestCeilCharBoundary_NeverSplitsRunes(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := rapid.String().Draw(rt, "s")
		offset := rapid.IntRange(0, len(s)+1).Draw(rt, "offset")

		next, ok := ceilCharBoundary(s, offset)
		if offset >= len(s) {
			if ok {
				rt.Fatalf("boundary %d reported past end of %q", next, s)
			}
			return
		}
		if !ok || next <= offset || next > len(s) {
			rt.Fatalf("bad boundary %d (ok=%v) for offset %d in %q", next, ok, offset, s)
		}
		if next < len(s) && !OsStr(s[:next]).IsValid() && OsStr(s[:offset]).IsValid() {
			rt.Fatalf("boundary %d splits a rune in %q", next, s)
		}
	})
}

func TestSplitNonUTF8(t *testing.T) {
	tests := []struct {
		name    string
		input   OsStr
		valid   string
		invalid OsStr
	}{
		{name: "all valid", input: "-abc", valid: "-abc", invalid: ""},
		{name: "empty", input: "", valid: "", invalid: ""},
		{name: "invalid tail", input: badString("-f@@@"), valid: "-f", invalid: badString("@@@")},
		{name: "invalid first", input: badString("-@a"), valid: "-", invalid: badString("@a")},
		{name: "valid after invalid stays in tail", input: badString("-a@µ"), valid: "-a", invalid: badString("@µ")},
		{name: "truncated rune", input: OsStr("-a\xc2"), valid: "-a", invalid: OsStr("\xc2")},
		{name: "replacement char is valid", input: "-�", valid: "-�", invalid: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, invalid := splitNonUTF8(tt.input)
			require.Equal(t, tt.valid, valid)
			require.Equal(t, tt.invalid, invalid)
			require.Equal(t, tt.input, OsStr(valid)+invalid)
		})
	}
}

func TestOsStr_ToStr(t *testing.T) {
	s, err := OsStr("héllo").ToStr()
	require.NoError(t, err)
	require.Equal(t, "héllo", s)

	_, err = badString("ab@c").ToStr()
	var utf8Err *UTF8Error
	require.True(t, errors.As(err, &utf8Err))
	require.Equal(t, 2, utf8Err.ValidUpTo)
	require.Contains(t, err.Error(), "byte 2")

	require.True(t, OsStr("µ").IsValid())
	require.False(t, badString("@").IsValid())
	require.Equal(t, "a\xff", badString("a@").String())
}

func TestSlice_RawArgs(t *testing.T) {
	arr := [3]string{"a", "b", "c"}
	var raw RawArgs = Slice[string](arr[:])

	require.Equal(t, 3, raw.Len())
	require.False(t, raw.IsEmpty())

	v, ok := raw.Get(0)
	require.True(t, ok)
	require.Equal(t, OsStr("a"), v)

	_, ok = raw.Get(3)
	require.False(t, ok)
	_, ok = raw.Get(-1)
	require.False(t, ok)

	empty := Strings()
	require.True(t, empty.IsEmpty())
	require.Equal(t, 0, empty.Len())

	type path string
	paths := Slice[path]{"/tmp"}
	v, ok = paths.Get(0)
	require.True(t, ok)
	require.Equal(t, OsStr("/tmp"), v)
}

package lexarg

import (
	"fmt"
	"unicode/utf8"
)

// OsStr is a platform-native argument string.
//
// It may hold bytes that are not valid UTF-8 (unix argv is arbitrary bytes),
// so it is kept distinct from string: decoding is an explicit, fallible step
// through ToStr. Slicing an OsStr never copies.
type OsStr string

// UTF8Error is returned by OsStr.ToStr when the string is not valid UTF-8.
type UTF8Error struct {
	// ValidUpTo is the length of the longest valid UTF-8 prefix.
	ValidUpTo int
}

func (e *UTF8Error) Error() string {
	return fmt.Sprintf("invalid utf-8 sequence at byte %d", e.ValidUpTo)
}

// ToStr decodes s as UTF-8 text.
// On failure the returned error is a *UTF8Error.
func (s OsStr) ToStr() (string, error) {
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(string(s[i:]))
		if r == utf8.RuneError && size <= 1 {
			return "", &UTF8Error{ValidUpTo: i}
		}
		i += size
	}
	return string(s), nil
}

// IsValid reports whether s is valid UTF-8.
func (s OsStr) IsValid() bool {
	return utf8.ValidString(string(s))
}

// String returns the raw bytes as a Go string. Invalid sequences are kept.
func (s OsStr) String() string {
	return string(s)
}

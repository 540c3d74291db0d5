package lexarg

import (
	"errors"
	"unicode/utf8"
)

// ceilCharBoundary returns the smallest index greater than offset that lies
// on a code point boundary of s. s must be valid UTF-8.
func ceilCharBoundary(s string, offset int) (int, bool) {
	if offset >= len(s) {
		return 0, false
	}
	for i := offset + 1; i < len(s); i++ {
		if utf8.RuneStart(s[i]) {
			return i, true
		}
	}
	return len(s), true
}

// splitNonUTF8 splits raw into its longest valid UTF-8 prefix and the
// undecodable remainder. The remainder is empty when raw is valid.
func splitNonUTF8(raw OsStr) (string, OsStr) {
	s, err := raw.ToStr()
	if err == nil {
		return s, ""
	}
	var utf8Err *UTF8Error
	if !errors.As(err, &utf8Err) {
		panic("lexarg: unexpected decode error: " + err.Error())
	}
	return string(raw[:utf8Err.ValidUpTo]), raw[utf8Err.ValidUpTo:]
}

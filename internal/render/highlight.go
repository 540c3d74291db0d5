package render

import (
	"strconv"
	"strings"

	"github.com/zjrosen/lexarg/lexarg"
)

// Highlight reassembles the command line from tokens with a style per kind.
//
// Options get their dashes back so the output reads like the input. Tokens
// attached to the one before them are glued on: the rest of a short cluster
// without a dash, a long option's value after "=", a short option's value
// after "=" when it was written that way. Payloads that are not
// valid UTF-8 are Go-quoted.
func Highlight(tokens []Token, styles Styles) string {
	var result strings.Builder
	var prev lexarg.Kind

	for i, tok := range tokens {
		text := quoteInvalid(tok.Payload())

		if !tok.Attached || i == 0 {
			if i > 0 {
				result.WriteByte(' ')
			}
			switch {
			case tok.IsFlagValue:
			case tok.Arg.Kind == lexarg.KindShort:
				text = "-" + text
			case tok.Arg.Kind == lexarg.KindLong:
				text = "--" + text
			}
		} else if prev == lexarg.KindLong || tok.Equals {
			text = "=" + text
		}

		result.WriteString(styles.ForKind(tok.Kind()).Render(text))
		if !tok.IsFlagValue {
			prev = tok.Arg.Kind
		}
	}

	return result.String()
}

func quoteInvalid(p lexarg.OsStr) string {
	if p.IsValid() {
		return string(p)
	}
	return strconv.Quote(string(p))
}

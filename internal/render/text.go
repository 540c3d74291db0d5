package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"

	"github.com/zjrosen/lexarg/lexarg"
)

const ellipsis = "…"

// kindWidth is the width of the longest kind name ("unexpected", "flag-value").
const kindWidth = 10

// Text writes tokens as an aligned table: index, kind and payload.
// Payloads wider than maxWidth cells are truncated (0 = unlimited); payloads
// that are not valid UTF-8 are printed Go-quoted so every byte is visible.
func Text(w io.Writer, tokens []Token, maxWidth int, styles Styles) error {
	indexWidth := len(strconv.Itoa(len(tokens)))
	for i, tok := range tokens {
		kind := tok.Kind()
		line := fmt.Sprintf("%*d  %s  %s\n",
			indexWidth, i,
			styles.ForKind(kind).Render(runewidth.FillRight(kind, kindWidth)),
			displayPayload(tok.Payload(), maxWidth),
		)
		if _, err := io.WriteString(w, line); err != nil {
			return fmt.Errorf("writing token %d: %w", i, err)
		}
	}
	return nil
}

func displayPayload(p lexarg.OsStr, maxWidth int) string {
	if !p.IsValid() {
		return strconv.Quote(string(p))
	}
	s := string(p)
	if s == "" {
		return `""`
	}
	return Truncate(s, maxWidth)
}

// Truncate shortens s to at most maxWidth terminal cells, cutting only on
// grapheme cluster boundaries and marking the cut with an ellipsis.
// maxWidth <= 0 disables truncation.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 || runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	limit := maxWidth - runewidth.StringWidth(ellipsis)

	var b strings.Builder
	width := 0
	state := -1
	rest := s
	for rest != "" {
		var cluster string
		cluster, rest, _, state = uniseg.StepString(rest, state)
		cw := runewidth.StringWidth(cluster)
		if width+cw > limit {
			break
		}
		b.WriteString(cluster)
		width += cw
	}
	b.WriteString(ellipsis)
	return b.String()
}

func toValidUTF8(p lexarg.OsStr) string {
	return strings.ToValidUTF8(string(p), "�")
}

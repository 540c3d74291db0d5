package lexarg

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// vocabulary is a set of "interesting" arguments. Every sequence of up to
// three of them is driven through every combination of NextArg and
// NextFlagValue calls. Each run must not panic, not loop, and end in a
// consistent state.
var vocabulary = []string{
	"", "-", "--", "---", "a", "-a", "-aa", "@", "-@", "-a@", "-@a", "--a", "--@", "--a=a",
	"--a=", "--a=@", "--@=a", "--=", "--=@", "--=a", "-@@", "-a=a", "-a=", "-=", "-a-",
}

func TestParser_ExhaustiveVocabulary(t *testing.T) {
	exhaust(t, New(Strings()), nil)

	words := make([]OsStr, len(vocabulary))
	for i, w := range vocabulary {
		words[i] = badString(w)
	}

	maxLen := 3
	if testing.Short() {
		maxLen = 2
	}

	permutations := [][]OsStr{{}}
	for range maxLen {
		var extended [][]OsStr
		for _, old := range permutations {
			for _, word := range words {
				extended = append(extended, append(append([]OsStr{}, old...), word))
			}
		}
		permutations = extended
		for _, permutation := range permutations {
			exhaust(t, New(Slice[OsStr](permutation)), nil)
		}
	}
}

// exhaust runs every sequence of NextArg/NextFlagValue calls on p.
// Plain comparisons keep this hot path cheap; it visits millions of states.
func exhaust(t *testing.T, p *Parser, path []string) {
	t.Helper()
	if len(path) > 100 {
		t.Fatalf("stuck in loop: %v", path)
	}

	if p.HasPending() {
		{
			q := p.Clone()
			next, ok := q.NextArg()
			if !ok || (next.Kind != KindUnexpected && next.Kind != KindShort) {
				t.Fatalf("pending: got %s (ok=%v) via %v", next, ok, path)
			}
			exhaust(t, q, appendPath(path, "pending-next-%s", next))
		}
		{
			q := p.Clone()
			next, ok := q.NextFlagValue()
			if !ok {
				t.Fatalf("pending: no value via %v", path)
			}
			exhaust(t, q, appendPath(path, "pending-value-%q", next))
		}
		return
	}

	{
		q := p.Clone()
		next, ok := q.NextArg()
		if ok {
			exhaust(t, q, appendPath(path, "next-%s", next))
		} else {
			if q.state.kind != stateNone && q.state.kind != stateEscaped {
				t.Fatalf("end in state %d via %v", q.state.kind, path)
			}
			if q.current != q.raw.Len() {
				t.Fatalf("end at %d of %d via %v", q.current, q.raw.Len(), path)
			}
		}
	}
	{
		q := p.Clone()
		next, ok := q.NextFlagValue()
		if q.state.kind != stateNone && q.state.kind != stateEscaped {
			t.Fatalf("value left state %d via %v", q.state.kind, path)
		}
		if ok {
			exhaust(t, q, appendPath(path, "value-%q", next))
			return
		}
		peeked, _ := q.peekRaw()
		if q.state.kind == stateNone && !q.wasAttached && peeked != "--" && q.current != q.raw.Len() {
			t.Fatalf("no value at %d of %d via %v", q.current, q.raw.Len(), path)
		}
	}
}

func appendPath(path []string, format string, arg any) []string {
	return append(append([]string{}, path...), fmt.Sprintf(format, arg))
}

// probes returns every string up to maxLen built from blocks.
func probes(blocks []string, maxLen int) []string {
	out := []string{}
	level := []string{""}
	for range maxLen {
		var next []string
		for _, prefix := range level {
			for _, b := range blocks {
				next = append(next, prefix+b)
			}
		}
		out = append(out, next...)
		level = next
	}
	return out
}

func TestParser_ExhaustiveProbes(t *testing.T) {
	for _, probe := range probes([]string{"-", "=", "\xff", "a"}, 4) {
		raw := OsStr(probe)
		exhaust(t, New(Slice[OsStr]{raw}), []string{fmt.Sprintf("%q", probe)})
		exhaust(t, New(Slice[OsStr]{raw, "x"}), []string{fmt.Sprintf("%q x", probe)})
	}
}

func TestParser_NonDecodableShortCluster(t *testing.T) {
	for _, tail := range probes([]string{"\xff", "\xfe", "=", "a"}, 3) {
		for _, lead := range []string{"\xff", "\xfe", "\xc2"} {
			raw := OsStr("-" + lead + tail)
			if raw.IsValid() {
				continue
			}
			p := New(Slice[OsStr]{raw})
			next, ok := p.NextArg()
			require.True(t, ok)
			require.Equal(t, Unexpected(raw), next, "%q", raw)
			_, ok = p.NextArg()
			require.False(t, ok, "%q", raw)
		}
	}
}

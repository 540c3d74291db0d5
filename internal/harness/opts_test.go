package harness

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/zjrosen/lexarg/internal/log"
	"github.com/zjrosen/lexarg/lexarg"
)

func parse(args ...string) (Opts, error) {
	return Parse(lexarg.Strings(args...))
}

func defaults() Opts {
	return Opts{
		RunIgnored: RunIgnoredNo,
		RunTests:   true,
		Color:      ColorAuto,
		Format:     FormatPretty,
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		expect func(*Opts)
	}{
		{name: "empty", args: nil, expect: func(*Opts) {}},
		{name: "test mode", args: []string{"--test"}, expect: func(*Opts) {}},
		{name: "bench mode", args: []string{"--bench"}, expect: func(o *Opts) {
			o.RunTests = false
			o.BenchBenchmarks = true
		}},
		{name: "test and bench", args: []string{"--test", "--bench"}, expect: func(o *Opts) {
			o.BenchBenchmarks = true
		}},
		{name: "list", args: []string{"--list"}, expect: func(o *Opts) { o.List = true }},
		{name: "list ignored", args: []string{"--list", "--ignored"}, expect: func(o *Opts) {
			o.List = true
			o.RunIgnored = RunIgnoredOnly
		}},
		{name: "list with filter", args: []string{"--list", "a"}, expect: func(o *Opts) {
			o.List = true
			o.Filters = []string{"a"}
		}},
		{name: "exact filters keep order", args: []string{"--list", "--exact", "owl", "fox", "bunny", "frog"}, expect: func(o *Opts) {
			o.List = true
			o.Exact = true
			o.Filters = []string{"owl", "fox", "bunny", "frog"}
		}},
		{name: "include ignored", args: []string{"--test", "--include-ignored", "o"}, expect: func(o *Opts) {
			o.RunIgnored = RunIgnoredYes
			o.Filters = []string{"o"}
		}},
		{name: "lots of flags", args: []string{"--ignored", "--skip", "g", "--test", "o"}, expect: func(o *Opts) {
			o.RunIgnored = RunIgnoredOnly
			o.Skip = []string{"g"}
			o.Filters = []string{"o"}
		}},
		{name: "repeated skip", args: []string{"--skip=a", "--skip", "b"}, expect: func(o *Opts) {
			o.Skip = []string{"a", "b"}
		}},
		{name: "json with unstable options", args: []string{"-Zunstable-options", "--format=json", "--list", "a"}, expect: func(o *Opts) {
			o.Unstable = []string{UnstableOptions}
			o.Format = FormatJSON
			o.List = true
			o.Filters = []string{"a"}
		}},
		{name: "quiet", args: []string{"--quiet"}, expect: func(o *Opts) { o.Format = FormatTerse }},
		{name: "short quiet", args: []string{"-q"}, expect: func(o *Opts) { o.Format = FormatTerse }},
		{name: "quiet with terse format", args: []string{"-q", "--format", "terse"}, expect: func(o *Opts) { o.Format = FormatTerse }},
		{name: "capture flags", args: []string{"--nocapture", "--show-output"}, expect: func(o *Opts) {
			o.NoCapture = true
			o.ShowOutput = true
		}},
		{name: "logfile and threads", args: []string{"--logfile", "out.log", "--test-threads=4"}, expect: func(o *Opts) {
			o.Logfile = "out.log"
			o.TestThreads = 4
		}},
		{name: "color", args: []string{"--color", "never"}, expect: func(o *Opts) { o.Color = ColorNever }},
		{name: "fail fast", args: []string{"-Z", "unstable-options", "--fail-fast"}, expect: func(o *Opts) {
			o.Unstable = []string{UnstableOptions}
			o.FailFast = true
		}},
		{name: "filter looking like a flag after escape", args: []string{"--exact", "--", "--list", "-q"}, expect: func(o *Opts) {
			o.Exact = true
			o.Filters = []string{"--list", "-q"}
		}},
		{name: "dash is a filter", args: []string{"-"}, expect: func(o *Opts) { o.Filters = []string{"-"} }},
		{name: "skip value may look like a flag", args: []string{"--skip", "--list"}, expect: func(o *Opts) {
			o.Skip = []string{"--list"}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expected := defaults()
			tt.expect(&expected)

			opts, err := parse(tt.args...)
			require.NoError(t, err)
			require.Equal(t, expected, opts)
		})
	}
}

func TestParse_Help(t *testing.T) {
	for _, args := range [][]string{{"-h"}, {"--help"}, {"--list", "-h", "--format=json"}} {
		opts, err := parse(args...)
		require.NoError(t, err, args)
		require.True(t, opts.Help, args)
	}
	require.Contains(t, Usage, "--test-threads N")
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		arg    string
		reason string
	}{
		{name: "unknown long", args: []string{"--bogus"}, arg: "--bogus", reason: "unknown flag"},
		{name: "unknown short", args: []string{"-x"}, arg: "-x", reason: "unknown flag"},
		{name: "unknown in cluster", args: []string{"-qx"}, arg: "-x", reason: "unknown flag"},
		{name: "missing value", args: []string{"--logfile"}, arg: "--logfile", reason: "missing value"},
		{name: "escape is not a value", args: []string{"--skip", "--", "a"}, arg: "--skip", reason: "missing value"},
		{name: "switch with value", args: []string{"--list=yes"}, arg: `"yes"`, reason: "unexpected value"},
		{name: "empty long name", args: []string{"--=x"}, arg: `"--=x"`, reason: "malformed flag"},
		{name: "bad threads", args: []string{"--test-threads", "many"}, arg: "--test-threads", reason: `expected a positive integer, got "many"`},
		{name: "zero threads", args: []string{"--test-threads=0"}, arg: "--test-threads", reason: "must not be 0"},
		{name: "bad color", args: []string{"--color=sometimes"}, arg: "--color", reason: `expected auto, always or never, got "sometimes"`},
		{name: "bad format", args: []string{"--format", "xml"}, arg: "--format", reason: `expected pretty, terse or json, got "xml"`},
		{name: "json needs unstable", args: []string{"--format", "json"}, arg: "--format", reason: "json is unstable; pass -Z unstable-options"},
		{name: "fail fast needs unstable", args: []string{"--fail-fast"}, arg: "--fail-fast", reason: "unstable; pass -Z unstable-options"},
		{name: "unknown unstable flag", args: []string{"-Zfoo"}, arg: "-Z", reason: `unknown unstable flag "foo"`},
		{name: "ignored conflict", args: []string{"--ignored", "--include-ignored"}, arg: "--ignored", reason: "cannot be combined with --include-ignored"},
		{name: "quiet conflict", args: []string{"-q", "--format=pretty"}, arg: "--quiet", reason: "conflicts with --format pretty"},
		{name: "invalid filter", args: []string{"a\xff"}, arg: `"a\xff"`, reason: "filter is not valid UTF-8 (invalid utf-8 sequence at byte 1)"},
		{name: "invalid value", args: []string{"--skip", "\xff"}, arg: "--skip", reason: "value is not valid UTF-8 (invalid utf-8 sequence at byte 0)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parse(tt.args...)
			var parseErr *ParseError
			require.True(t, errors.As(err, &parseErr), "got %v", err)
			require.Equal(t, tt.arg, parseErr.Arg)
			require.Equal(t, tt.reason, parseErr.Reason)
			require.Equal(t, tt.reason+": "+tt.arg, err.Error())
		})
	}
}

func TestParse_Logs(t *testing.T) {
	var buf bytes.Buffer
	reset := log.InitWriter(&buf)
	defer reset()

	_, err := parse("--skip", "g", "o")
	require.NoError(t, err)
	require.Contains(t, buf.String(), "[harness] Parsed harness options filters=1 skip=1")
}

// Any list of plain words is parsed into filters, in order.
func TestParse_WordsAreFilters(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		words := rapid.SliceOf(rapid.StringMatching(`[a-z][a-z0-9_:]{0,8}`)).Draw(rt, "words")

		opts, err := parse(words...)
		if err != nil {
			rt.Fatalf("parse %q: %v", words, err)
		}
		if strings.Join(opts.Filters, " ") != strings.Join(words, " ") || len(opts.Filters) != len(words) {
			rt.Fatalf("filters %q, want %q", opts.Filters, words)
		}
	})
}

// Every --skip occurrence is collected regardless of how the value is attached.
func TestParse_SkipSpellings(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		values := rapid.SliceOf(rapid.StringMatching(`[a-z]{1,6}`)).Draw(rt, "values")
		var args []string
		for _, v := range values {
			if rapid.Bool().Draw(rt, "attached") {
				args = append(args, "--skip="+v)
			} else {
				args = append(args, "--skip", v)
			}
		}

		opts, err := parse(args...)
		if err != nil {
			rt.Fatalf("parse %q: %v", args, err)
		}
		if len(opts.Skip) != len(values) {
			rt.Fatalf("skip %q, want %q", opts.Skip, values)
		}
		for i := range values {
			if opts.Skip[i] != values[i] {
				rt.Fatalf("skip %q, want %q", opts.Skip, values)
			}
		}
	})
}

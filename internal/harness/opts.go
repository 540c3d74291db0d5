// Package harness parses the command line of a libtest-style test harness.
//
// It is the reference consumer of the lexarg tokenizer: every flag is
// matched against lexarg tokens and values are claimed with NextFlagValue.
// Discovering and running tests is left to the caller.
package harness

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/zjrosen/lexarg/internal/log"
	"github.com/zjrosen/lexarg/lexarg"
)

// RunIgnored selects what happens to tests marked as ignored.
type RunIgnored string

const (
	RunIgnoredNo   RunIgnored = "no"
	RunIgnoredYes  RunIgnored = "yes"
	RunIgnoredOnly RunIgnored = "only"
)

// Format selects the harness output format.
type Format string

const (
	FormatPretty Format = "pretty"
	FormatTerse  Format = "terse"
	FormatJSON   Format = "json"
)

// Color selects when to colour output.
type Color string

const (
	ColorAuto   Color = "auto"
	ColorAlways Color = "always"
	ColorNever  Color = "never"
)

// UnstableOptions is the -Z flag that unlocks unstable options.
const UnstableOptions = "unstable-options"

// Opts is a parsed harness command line.
type Opts struct {
	List            bool       `json:"list" yaml:"list"`
	Filters         []string   `json:"filters" yaml:"filters"`
	Exact           bool       `json:"exact" yaml:"exact"`
	RunIgnored      RunIgnored `json:"run_ignored" yaml:"run_ignored"`
	RunTests        bool       `json:"run_tests" yaml:"run_tests"`
	BenchBenchmarks bool       `json:"bench_benchmarks" yaml:"bench_benchmarks"`
	Logfile         string     `json:"logfile,omitempty" yaml:"logfile,omitempty"`
	NoCapture       bool       `json:"nocapture" yaml:"nocapture"`
	ShowOutput      bool       `json:"show_output" yaml:"show_output"`
	Color           Color      `json:"color" yaml:"color"`
	Format          Format     `json:"format" yaml:"format"`
	TestThreads     int        `json:"test_threads,omitempty" yaml:"test_threads,omitempty"`
	Skip            []string   `json:"skip" yaml:"skip"`
	Unstable        []string   `json:"unstable,omitempty" yaml:"unstable,omitempty"`
	FailFast        bool       `json:"fail_fast" yaml:"fail_fast"`
	Help            bool       `json:"-" yaml:"-"`
}

// ParseError describes a harness argument that could not be accepted.
type ParseError struct {
	// Arg is the offending argument as written, or the flag whose value is
	// missing or invalid.
	Arg    string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Reason, e.Arg)
}

func parseErr(arg lexarg.OsStr, format string, args ...any) *ParseError {
	return &ParseError{Arg: strconv.Quote(string(arg)), Reason: fmt.Sprintf(format, args...)}
}

// Usage is the help text for the harness flags.
const Usage = `Usage: [OPTIONS] [FILTERS...]

Options:
      --include-ignored  Run ignored and not ignored tests
      --ignored          Run only ignored tests
      --test             Run tests and not benchmarks
      --bench            Run benchmarks instead of tests
      --list             List all tests and benchmarks
      --exact            Exactly match filters rather than by substring
      --nocapture        Don't capture stdout/stderr of each task
      --show-output      Show captured stdout of successful tests
  -q, --quiet            Display one character per test instead of one line
      --logfile PATH     Write logs to the specified file
      --test-threads N   Number of threads used for running tests in parallel
      --skip FILTER      Skip tests whose names contain FILTER (repeatable)
      --color WHEN       auto, always or never
      --format FMT       pretty, terse or json (json needs -Z unstable-options)
  -Z FLAG                Enable nightly-only flags: unstable-options
      --fail-fast        Stop at the first failure (needs -Z unstable-options)
  -h, --help             Display this message
`

// Parse reads harness options from raw. The program name must not be part
// of raw.
func Parse(raw lexarg.RawArgs) (Opts, error) {
	opts := Opts{
		RunIgnored: RunIgnoredNo,
		Color:      ColorAuto,
		Format:     FormatPretty,
	}
	var (
		test, bench             bool
		ignored, includeIgnored bool
		quiet                   bool
		format                  Format
	)

	p := lexarg.New(raw)
	for {
		arg, ok := p.NextArg()
		if !ok {
			break
		}

		switch arg {
		case lexarg.Long("include-ignored"):
			includeIgnored = true
		case lexarg.Long("ignored"):
			ignored = true
		case lexarg.Long("test"):
			test = true
		case lexarg.Long("bench"):
			bench = true
		case lexarg.Long("list"):
			opts.List = true
		case lexarg.Long("exact"):
			opts.Exact = true
		case lexarg.Long("nocapture"):
			opts.NoCapture = true
		case lexarg.Long("show-output"):
			opts.ShowOutput = true
		case lexarg.Long("fail-fast"):
			opts.FailFast = true
		case lexarg.Short("q"), lexarg.Long("quiet"):
			quiet = true
		case lexarg.Short("h"), lexarg.Long("help"):
			opts.Help = true
		case lexarg.Long("logfile"):
			v, err := stringValue(p, "--logfile")
			if err != nil {
				return Opts{}, err
			}
			opts.Logfile = v
		case lexarg.Long("test-threads"):
			v, err := stringValue(p, "--test-threads")
			if err != nil {
				return Opts{}, err
			}
			n, convErr := strconv.Atoi(v)
			if convErr != nil || n < 0 {
				return Opts{}, &ParseError{Arg: "--test-threads", Reason: fmt.Sprintf("expected a positive integer, got %q", v)}
			}
			if n == 0 {
				return Opts{}, &ParseError{Arg: "--test-threads", Reason: "must not be 0"}
			}
			opts.TestThreads = n
		case lexarg.Long("skip"):
			v, err := stringValue(p, "--skip")
			if err != nil {
				return Opts{}, err
			}
			opts.Skip = append(opts.Skip, v)
		case lexarg.Long("color"):
			v, err := stringValue(p, "--color")
			if err != nil {
				return Opts{}, err
			}
			switch Color(v) {
			case ColorAuto, ColorAlways, ColorNever:
				opts.Color = Color(v)
			default:
				return Opts{}, &ParseError{Arg: "--color", Reason: fmt.Sprintf("expected auto, always or never, got %q", v)}
			}
		case lexarg.Long("format"):
			v, err := stringValue(p, "--format")
			if err != nil {
				return Opts{}, err
			}
			switch Format(v) {
			case FormatPretty, FormatTerse, FormatJSON:
				format = Format(v)
			default:
				return Opts{}, &ParseError{Arg: "--format", Reason: fmt.Sprintf("expected pretty, terse or json, got %q", v)}
			}
		case lexarg.Short("Z"):
			v, err := stringValue(p, "-Z")
			if err != nil {
				return Opts{}, err
			}
			if v != UnstableOptions {
				return Opts{}, &ParseError{Arg: "-Z", Reason: fmt.Sprintf("unknown unstable flag %q", v)}
			}
			opts.Unstable = append(opts.Unstable, v)
		case lexarg.Escape("--"):
			// Everything after is a filter; NextArg reports it as values.
		default:
			if err := positional(&opts, arg); err != nil {
				return Opts{}, err
			}
		}
	}

	if opts.Help {
		log.Debug(log.CatHarness, "Help requested")
		return opts, nil
	}

	switch {
	case ignored && includeIgnored:
		return Opts{}, &ParseError{Arg: "--ignored", Reason: "cannot be combined with --include-ignored"}
	case ignored:
		opts.RunIgnored = RunIgnoredOnly
	case includeIgnored:
		opts.RunIgnored = RunIgnoredYes
	}

	opts.BenchBenchmarks = bench
	opts.RunTests = test || !bench

	unstable := len(opts.Unstable) > 0
	switch {
	case format != "":
		if quiet && format != FormatTerse {
			return Opts{}, &ParseError{Arg: "--quiet", Reason: fmt.Sprintf("conflicts with --format %s", format)}
		}
		opts.Format = format
	case quiet:
		opts.Format = FormatTerse
	}
	if opts.Format == FormatJSON && !unstable {
		return Opts{}, &ParseError{Arg: "--format", Reason: "json is unstable; pass -Z unstable-options"}
	}
	if opts.FailFast && !unstable {
		return Opts{}, &ParseError{Arg: "--fail-fast", Reason: "unstable; pass -Z unstable-options"}
	}

	log.Debug(log.CatHarness, "Parsed harness options",
		"filters", len(opts.Filters),
		"skip", len(opts.Skip),
		"run_ignored", opts.RunIgnored,
		"format", opts.Format,
		"list", opts.List)
	return opts, nil
}

// positional handles everything NextArg returned that is not a known flag.
func positional(opts *Opts, arg lexarg.Arg) error {
	switch arg.Kind {
	case lexarg.KindValue:
		s, err := arg.Raw.ToStr()
		if err != nil {
			return parseErr(arg.Raw, "filter is not valid UTF-8 (%v)", err)
		}
		opts.Filters = append(opts.Filters, s)
		return nil
	case lexarg.KindShort:
		return &ParseError{Arg: "-" + arg.Name, Reason: "unknown flag"}
	case lexarg.KindLong:
		return &ParseError{Arg: "--" + arg.Name, Reason: "unknown flag"}
	case lexarg.KindUnexpected:
		if strings.HasPrefix(string(arg.Raw), "-") {
			return parseErr(arg.Raw, "malformed flag")
		}
		return parseErr(arg.Raw, "unexpected value")
	default:
		return parseErr(arg.Payload(), "unexpected argument")
	}
}

// stringValue claims the value of flag and decodes it.
func stringValue(p *lexarg.Parser, flag string) (string, error) {
	v, ok := p.NextFlagValue()
	if !ok {
		return "", &ParseError{Arg: flag, Reason: "missing value"}
	}
	s, err := v.ToStr()
	if err != nil {
		return "", &ParseError{Arg: flag, Reason: fmt.Sprintf("value is not valid UTF-8 (%v)", err)}
	}
	return s, nil
}

package cmd

import (
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/lexarg/internal/config"
	"github.com/zjrosen/lexarg/internal/log"
	"github.com/zjrosen/lexarg/internal/render"
	"github.com/zjrosen/lexarg/internal/tracing"
	"github.com/zjrosen/lexarg/lexarg"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens [OPTIONS] [--] ARGS...",
	Short: "Print the tokens lexarg produces for ARGS",
	Long: `Tokenize ARGS the way a program built on lexarg sees them.

Options for this command come first. The first plain argument, or "--",
ends them; everything after is tokenized as given.

Options:
      --format FMT     text, json, yaml or highlight (default from config)
      --color WHEN     auto, always or never (default from config)
      --max-width N    truncate payloads in text output (0 = unlimited)
  -v, --flag-values    claim a value after every option
  -c, --config PATH    config file
  -h, --help           help for tokens

Examples:
  # Each short option in a cluster is its own token
  lexarg tokens -- -abc --name=value file

  # Treat every option as taking a value
  lexarg tokens -v -- -n3 --out dir

  # Machine-readable output
  lexarg tokens --format json -- --color=always`,
	DisableFlagParsing: true,
	RunE:               runTokens,
}

func init() {
	rootCmd.AddCommand(tokensCmd)
}

// tokensOpts are the tokens command's own options.
type tokensOpts struct {
	format     string
	color      string
	maxWidth   int
	flagValues bool
	config     string
	help       bool
	args       []lexarg.OsStr
}

// parseTokensArgs reads the command's options with lexarg and collects
// everything after them untouched.
func parseTokensArgs(raw lexarg.RawArgs) (tokensOpts, error) {
	opts := tokensOpts{maxWidth: -1}
	p := lexarg.New(raw)

	for {
		arg, ok := p.NextArg()
		if !ok {
			return opts, nil
		}

		switch arg {
		case lexarg.Long("format"):
			v, err := optionValue(p, "--format")
			if err != nil {
				return opts, err
			}
			opts.format = v
		case lexarg.Long("color"):
			v, err := optionValue(p, "--color")
			if err != nil {
				return opts, err
			}
			opts.color = v
		case lexarg.Long("max-width"):
			v, err := optionValue(p, "--max-width")
			if err != nil {
				return opts, err
			}
			n, err := strconv.Atoi(v)
			if err != nil {
				return opts, fmt.Errorf("--max-width: expected a number, got %q", v)
			}
			opts.maxWidth = n
		case lexarg.Short("c"), lexarg.Long("config"):
			v, err := optionValue(p, "--config")
			if err != nil {
				return opts, err
			}
			opts.config = v
		case lexarg.Short("v"), lexarg.Long("flag-values"):
			opts.flagValues = true
		case lexarg.Short("h"), lexarg.Long("help"):
			opts.help = true
		case lexarg.Escape("--"):
			return collectRest(p, opts)
		default:
			if arg.Kind == lexarg.KindValue {
				opts.args = append(opts.args, arg.Raw)
				return collectRest(p, opts)
			}
			return opts, fmt.Errorf("unknown option %s (put \"--\" before arguments to tokenize)", describe(arg))
		}
	}
}

// describe spells arg the way it was written on the command line.
func describe(arg lexarg.Arg) string {
	switch arg.Kind {
	case lexarg.KindShort:
		return "-" + arg.Name
	case lexarg.KindLong:
		return "--" + arg.Name
	default:
		return strconv.Quote(string(arg.Payload()))
	}
}

func collectRest(p *lexarg.Parser, opts tokensOpts) (tokensOpts, error) {
	rest, err := p.RemainingRaw()
	if err != nil {
		return opts, err
	}
	opts.args = slices.AppendSeq(opts.args, rest)
	return opts, nil
}

func optionValue(p *lexarg.Parser, flag string) (string, error) {
	v, ok := p.NextFlagValue()
	if !ok {
		return "", fmt.Errorf("%s: missing value", flag)
	}
	s, err := v.ToStr()
	if err != nil {
		return "", fmt.Errorf("%s: %w", flag, err)
	}
	return s, nil
}

func runTokens(cmd *cobra.Command, args []string) error {
	opts, err := parseTokensArgs(lexarg.Strings(args...))
	if err != nil {
		return err
	}
	if opts.help {
		return cmd.Help()
	}
	if opts.config != "" {
		useConfigFile(opts.config)
	}
	if opts.format != "" {
		cfg.Output.Format = opts.format
	}
	if opts.color != "" {
		cfg.Output.Color = opts.color
	}
	if opts.maxWidth >= 0 {
		cfg.Output.MaxWidth = opts.maxWidth
	}

	s, err := startSession()
	if err != nil {
		return err
	}
	defer s.close()

	_, span := s.tracer.Tracer().Start(cmd.Context(), tracing.SpanTokenize,
		trace.WithAttributes(
			attribute.String(tracing.AttrRunID, s.id),
			attribute.Int(tracing.AttrArgs, len(opts.args)),
			attribute.String(tracing.AttrFormat, cfg.Output.Format),
		))
	defer span.End()

	tokens := render.Tokenize(lexarg.New(lexarg.Slice[lexarg.OsStr](opts.args)), opts.flagValues)

	unexpected, escaped := 0, false
	for _, tok := range tokens {
		switch tok.Arg.Kind {
		case lexarg.KindUnexpected:
			unexpected++
		case lexarg.KindEscape:
			escaped = true
		}
	}
	span.SetAttributes(
		attribute.Int(tracing.AttrTokens, len(tokens)),
		attribute.Int(tracing.AttrUnexpected, unexpected),
		attribute.Bool(tracing.AttrEscaped, escaped),
	)
	log.Debug(log.CatCLI, "Tokenized arguments",
		"args", len(opts.args),
		"tokens", len(tokens),
		"unexpected", unexpected,
		"flag_values", opts.flagValues)

	return writeTokens(cmd.OutOrStdout(), tokens, cfg.Output)
}

func writeTokens(w io.Writer, tokens []render.Token, out config.OutputConfig) error {
	log.Debug(log.CatRender, "Writing tokens", "format", out.Format, "color", out.Color)
	switch out.Format {
	case config.FormatJSON:
		return render.JSONLines(w, tokens)
	case config.FormatYAML:
		return render.YAML(w, tokens)
	case config.FormatHighlight:
		_, err := fmt.Fprintln(w, render.Highlight(tokens, render.StylesFor(w, out.Color)))
		return err
	default:
		return render.Text(w, tokens, out.MaxWidth, render.StylesFor(w, out.Color))
	}
}

package cmd

import (
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/lexarg/internal/config"
	"github.com/zjrosen/lexarg/internal/harness"
	"github.com/zjrosen/lexarg/internal/log"
	"github.com/zjrosen/lexarg/internal/render"
	"github.com/zjrosen/lexarg/internal/tracing"
	"github.com/zjrosen/lexarg/lexarg"
)

var harnessCmd = &cobra.Command{
	Use:   "harness [-c PATH] [HARNESS ARGS...]",
	Short: "Parse test harness options and print the result",
	Long: `Parse ARGS as the command line of a libtest-style test harness and print
the resulting options as YAML, or JSON when output.format is json.

A leading -c/--config PATH selects the config file; everything else
belongs to the harness. Run "lexarg harness --help" for the harness flags.

Examples:
  lexarg harness --ignored --skip g --test o
  lexarg harness -Zunstable-options --format=json --list a`,
	DisableFlagParsing: true,
	RunE:               runHarness,
}

func init() {
	rootCmd.AddCommand(harnessCmd)
}

// splitConfigFlag takes leading -c/--config options off args. It looks
// ahead on a clone so the first harness argument is left unread.
func splitConfigFlag(args []string) (string, []lexarg.OsStr, error) {
	p := lexarg.New(lexarg.Strings(args...))
	path := ""
	for {
		q := p.Clone()
		arg, ok := q.NextArg()
		if !ok || (arg != lexarg.Short("c") && arg != lexarg.Long("config")) {
			break
		}
		v, err := optionValue(q, "--config")
		if err != nil {
			return "", nil, err
		}
		path = v
		p = q
	}

	rest, err := p.RemainingRaw()
	if err != nil {
		return "", nil, err
	}
	return path, slices.Collect(rest), nil
}

func runHarness(cmd *cobra.Command, args []string) error {
	path, rest, err := splitConfigFlag(args)
	if err != nil {
		return err
	}
	if path != "" {
		useConfigFile(path)
	}

	s, err := startSession()
	if err != nil {
		return err
	}
	defer s.close()

	_, span := s.tracer.Tracer().Start(cmd.Context(), tracing.SpanHarnessParse,
		trace.WithAttributes(
			attribute.String(tracing.AttrRunID, s.id),
			attribute.Int(tracing.AttrArgs, len(rest)),
		))
	defer span.End()

	opts, err := harness.Parse(lexarg.Slice[lexarg.OsStr](rest))
	if err != nil {
		var parseErr *harness.ParseError
		if errors.As(err, &parseErr) {
			span.AddEvent(tracing.EventParseError, trace.WithAttributes(
				attribute.String("arg", parseErr.Arg),
				attribute.String("reason", parseErr.Reason),
			))
		}
		span.SetStatus(codes.Error, err.Error())
		log.ErrorErr(log.CatHarness, "Rejected harness arguments", err)
		return err
	}

	out := cmd.OutOrStdout()
	if opts.Help {
		_, err := fmt.Fprint(out, harness.Usage)
		return err
	}

	span.SetAttributes(
		attribute.Int(tracing.AttrFilters, len(opts.Filters)),
		attribute.String(tracing.AttrFormat, cfg.Output.Format),
	)
	if cfg.Output.Format == config.FormatJSON {
		return render.EncodeJSON(out, opts)
	}
	return render.EncodeYAML(out, opts)
}

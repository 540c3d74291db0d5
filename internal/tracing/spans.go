package tracing

// Span names.
const (
	SpanTokenize     = "lexarg.tokenize"
	SpanHarnessParse = "lexarg.harness.parse"
)

// Span attribute keys.
const (
	AttrRunID      = "lexarg.run_id"
	AttrArgs       = "lexarg.args"
	AttrTokens     = "lexarg.tokens"
	AttrUnexpected = "lexarg.unexpected"
	AttrEscaped    = "lexarg.escaped"
	AttrFormat     = "lexarg.format"
	AttrFilters    = "lexarg.harness.filters"
)

// Event names.
const (
	EventParseError = "parse.error"
)

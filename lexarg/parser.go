// Package lexarg is a minimal command line argument tokenizer.
//
// It classifies raw arguments into short options, long options, positional
// values, the "--" escape marker and unexpected input. It does not know any
// option names, produce error messages or convert values: it only reports the
// syntactic shape of each argument and lets the caller decide what to do.
// Higher-level flag registries and subcommand frameworks are built on top.
//
// Tokens are views into the caller's arguments; nothing is copied.
//
//	p := lexarg.New(lexarg.Slice[string](os.Args[1:]))
//	for {
//		arg, ok := p.NextArg()
//		if !ok {
//			break
//		}
//		switch {
//		case arg == lexarg.Short("n") || arg == lexarg.Long("count"):
//			count, _ := p.NextFlagValue()
//			...
//		case arg.Kind == lexarg.KindValue:
//			files = append(files, arg.Raw)
//		}
//	}
package lexarg

import (
	"iter"
	"strings"
)

type stateKind uint8

const (
	stateNone stateKind = iota
	// A value is left over from --option=value.
	statePendingValue
	// Inside a -abc cluster.
	statePendingShorts
	// Saw "--"; no more options are coming.
	stateEscaped
)

type state struct {
	kind stateKind
	// statePendingValue: the unclaimed value.
	// statePendingShorts: the undecodable tail of the cluster.
	raw OsStr
	// statePendingShorts only: the valid UTF-8 prefix (including the leading
	// dash) and the next unread offset into it.
	valid string
	index int
}

func (s state) hasPending() bool {
	return s.kind == statePendingValue || s.kind == statePendingShorts
}

// Parser is a tokenizer for command line arguments.
//
// A Parser is a small value; copying it (or calling Clone) gives an
// independent instance for lookahead that shares only the read-only raw
// arguments.
type Parser struct {
	raw         RawArgs
	current     int
	state       state
	wasAttached bool
}

// New creates a parser over raw.
//
// Every element, including index 0, is a candidate argument: callers must
// exclude the program name themselves, e.g. by passing os.Args[1:].
// No scanning happens up front.
func New(raw RawArgs) *Parser {
	return &Parser{raw: raw}
}

// Clone returns an independent copy of the parser for speculative lookahead.
func (p *Parser) Clone() *Parser {
	c := *p
	return &c
}

// NextArg returns the next option or positional argument.
//
// It returns false once the arguments are exhausted, and keeps returning
// false on further calls. Input that cannot be classified is returned as a
// KindUnexpected token rather than an error.
//
// "=" is an ordinary short option here: -a=b yields Short("a"), Short("=")
// and Short("b") unless a value is claimed after Short("a").
func (p *Parser) NextArg() (Arg, bool) {
	p.wasAttached = false

	switch p.state.kind {
	case statePendingValue:
		// Last call produced --long=value and the value was never claimed.
		attached := p.state.raw
		p.state = state{}
		p.current++
		return Unexpected(attached), true
	case statePendingShorts:
		return p.nextShort(), true
	case stateEscaped:
		v, ok := p.nextRaw()
		if !ok {
			return Arg{}, false
		}
		return Value(v), true
	}

	arg, ok := p.raw.Get(p.current)
	if !ok {
		return Arg{}, false
	}

	switch {
	case arg == "--":
		p.state = state{kind: stateEscaped}
		p.current++
		return Escape(string(arg)), true
	case arg == "-":
		p.current++
		return Value(arg), true
	case strings.HasPrefix(string(arg), "--"):
		name, value, hasValue := strings.Cut(string(arg[2:]), "=")
		if name == "" {
			p.current++
			return Unexpected(arg), true
		}
		if !OsStr(name).IsValid() {
			p.current++
			return Unexpected(arg), true
		}
		if hasValue {
			// The element stays current until the value is claimed or surfaced.
			p.state = state{kind: statePendingValue, raw: OsStr(value)}
		} else {
			p.current++
		}
		return Long(name), true
	case strings.HasPrefix(string(arg), "-"):
		valid, invalid := splitNonUTF8(arg)
		p.state = state{kind: statePendingShorts, valid: valid, raw: invalid, index: 1}
		return p.nextShort(), true
	default:
		p.current++
		return Value(arg), true
	}
}

// nextShort produces the next token from a -abc cluster. We're in NextArg,
// not NextFlagValue, so the next character is taken as another option.
func (p *Parser) nextShort() Arg {
	valid, invalid, index := p.state.valid, p.state.raw, p.state.index

	next, ok := ceilCharBoundary(valid, index)
	if ok {
		switch {
		case next < len(valid):
			p.state.index = next
		case invalid != "":
			p.state = state{kind: statePendingValue, raw: invalid}
		default:
			p.state = state{}
			p.current++
		}
		return Short(valid[index:next])
	}

	if invalid == "" {
		panic("lexarg: short cluster exhausted with nothing left to report")
	}
	switch index {
	case 0:
		panic("lexarg: short cluster is missing its leading dash")
	case 1:
		// Like long options, report the whole argument including the dash.
		arg := p.currentRaw()
		p.state = state{}
		p.current++
		return Unexpected(arg)
	default:
		p.state = state{}
		p.current++
		return Unexpected(invalid)
	}
}

// NextFlagValue returns an option's value.
//
// Call it right after NextArg returned an option that takes a value. The
// value is attached (--flag=value, -Fvalue, -F=value) when present, otherwise
// the next raw argument is taken even if it looks like an option.
//
// It returns false when there is no applicable value:
//   - the arguments are exhausted
//   - "--" was seen, or is the next argument
//   - it is called again after an attached value was already returned
func (p *Parser) NextFlagValue() (OsStr, bool) {
	if p.wasAttached {
		return "", false
	}
	if v, ok := p.NextAttachedValue(); ok {
		return v, true
	}
	return p.nextDetachedValue()
}

// NextAttachedValue returns an option's attached value (--flag=value,
// -Fvalue, -F=value) without consuming a separate argument.
//
// Use it instead of NextFlagValue for options whose value is optional, e.g.
// --color[=WHEN]. For short clusters exactly one leading "=" is stripped.
func (p *Parser) NextAttachedValue() (OsStr, bool) {
	switch p.state.kind {
	case statePendingValue:
		attached := p.state.raw
		p.state = state{}
		p.current++
		p.wasAttached = true
		return attached, true
	case statePendingShorts:
		index := p.state.index
		arg := p.currentRaw()
		p.state = state{}
		p.current++
		if index == len(arg) {
			return "", false
		}
		// Everything before index was short options, so index is in range.
		remainder := strings.TrimPrefix(string(arg[index:]), "=")
		p.wasAttached = true
		return OsStr(remainder), true
	default:
		return "", false
	}
}

func (p *Parser) nextDetachedValue() (OsStr, bool) {
	if p.state.kind == stateEscaped {
		// Escaped values are positional only.
		return "", false
	}
	next, ok := p.peekRaw()
	if !ok || next == "--" {
		return "", false
	}
	return p.nextRaw()
}

// NextRaw returns the next argument regardless of what it looks like.
// It returns ErrPendingValue while an attached value is unclaimed.
func (p *Parser) NextRaw() (OsStr, bool, error) {
	if p.HasPending() {
		return "", false, ErrPendingValue
	}
	p.wasAttached = false
	v, ok := p.nextRaw()
	return v, ok, nil
}

// PeekRaw returns the next argument without consuming it.
// It returns ErrPendingValue while an attached value is unclaimed.
func (p *Parser) PeekRaw() (OsStr, bool, error) {
	if p.HasPending() {
		return "", false, ErrPendingValue
	}
	v, ok := p.peekRaw()
	return v, ok, nil
}

// RemainingRaw returns the rest of the arguments regardless of what they look
// like. The sequence consumes from the parser as it is drawn and cannot be
// restarted. It returns ErrPendingValue while an attached value is unclaimed.
func (p *Parser) RemainingRaw() (iter.Seq[OsStr], error) {
	if p.HasPending() {
		return nil, ErrPendingValue
	}
	p.wasAttached = false
	return func(yield func(OsStr) bool) {
		for {
			v, ok := p.nextRaw()
			if !ok || !yield(v) {
				return
			}
		}
	}, nil
}

// HasPending reports whether an attached value has been produced and not yet
// claimed, either from --long=value or the rest of a -abc cluster.
func (p *Parser) HasPending() bool {
	return p.state.hasPending()
}

func (p *Parser) peekRaw() (OsStr, bool) {
	return p.raw.Get(p.current)
}

func (p *Parser) nextRaw() (OsStr, bool) {
	next, ok := p.raw.Get(p.current)
	if !ok {
		return "", false
	}
	p.current++
	return next, true
}

// currentRaw returns the element a pending state refers to. The raw
// arguments changing underneath the parser is a programming error.
func (p *Parser) currentRaw() OsStr {
	arg, ok := p.raw.Get(p.current)
	if !ok {
		panic("lexarg: pending state refers to a missing argument")
	}
	return arg
}

package lexarg

import "strconv"

// Kind classifies an Arg.
type Kind uint8

const (
	// KindShort is a single-character option, e.g. "q" for -q.
	KindShort Kind = iota + 1
	// KindLong is a long option name without dashes, e.g. "verbose" for --verbose.
	KindLong
	// KindValue is a positional argument, exactly as supplied.
	KindValue
	// KindEscape is the literal "--" marker.
	KindEscape
	// KindUnexpected is input that could not be classified.
	KindUnexpected
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindShort:
		return "short"
	case KindLong:
		return "long"
	case KindValue:
		return "value"
	case KindEscape:
		return "escape"
	case KindUnexpected:
		return "unexpected"
	default:
		return "unknown"
	}
}

// IsOption returns true for short and long options.
func (k Kind) IsOption() bool {
	return k == KindShort || k == KindLong
}

// Arg is a command line argument found by a Parser, either an option or a
// positional argument.
//
// Name is set for short, long and escape tokens; Raw is set for value and
// unexpected tokens. Both are views into the caller's raw arguments.
type Arg struct {
	Kind Kind
	Name string
	Raw  OsStr
}

// Short returns a short option token.
func Short(name string) Arg { return Arg{Kind: KindShort, Name: name} }

// Long returns a long option token.
func Long(name string) Arg { return Arg{Kind: KindLong, Name: name} }

// Value returns a positional value token.
func Value(raw OsStr) Arg { return Arg{Kind: KindValue, Raw: raw} }

// Escape returns an escape marker token.
func Escape(marker string) Arg { return Arg{Kind: KindEscape, Name: marker} }

// Unexpected returns a token for input that could not be classified.
func Unexpected(raw OsStr) Arg { return Arg{Kind: KindUnexpected, Raw: raw} }

// Payload returns the token's payload regardless of kind.
func (a Arg) Payload() OsStr {
	switch a.Kind {
	case KindValue, KindUnexpected:
		return a.Raw
	default:
		return OsStr(a.Name)
	}
}

// String formats the token for debugging, e.g. Short("q") or Value("a\xff").
func (a Arg) String() string {
	var name string
	switch a.Kind {
	case KindShort:
		name = "Short"
	case KindLong:
		name = "Long"
	case KindValue:
		name = "Value"
	case KindEscape:
		name = "Escape"
	case KindUnexpected:
		name = "Unexpected"
	default:
		return "Invalid"
	}
	return name + "(" + strconv.Quote(string(a.Payload())) + ")"
}

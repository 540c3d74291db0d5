// Package render prints lexarg token streams as text, JSON lines, YAML or a
// highlighted command line.
package render

import (
	"encoding/hex"

	"github.com/zjrosen/lexarg/lexarg"
)

// KindFlagValue is the kind reported for values claimed with NextFlagValue.
const KindFlagValue = "flag-value"

// Token is one step of a tokenized command line: either an Arg produced by
// NextArg or a value claimed with NextFlagValue right after an option.
// Attached is set when the token came from the same raw argument as the
// token before it (-abc, --long=value). Equals is set on a claimed short
// option value that was written after "=" (-x=value); the parser strips
// that "=" from the value.
type Token struct {
	Arg         lexarg.Arg
	Value       lexarg.OsStr
	IsFlagValue bool
	Attached    bool
	Equals      bool
}

// Kind returns the lexarg kind name, or KindFlagValue.
func (t Token) Kind() string {
	if t.IsFlagValue {
		return KindFlagValue
	}
	return t.Arg.Kind.String()
}

// Payload returns the token's raw payload.
func (t Token) Payload() lexarg.OsStr {
	if t.IsFlagValue {
		return t.Value
	}
	return t.Arg.Payload()
}

// Tokenize drains p. When claimValues is set, a value is claimed with
// NextFlagValue after every option, the way a consumer that treats every
// option as value-taking would.
func Tokenize(p *lexarg.Parser, claimValues bool) []Token {
	var tokens []Token
	for {
		attached := p.HasPending()
		arg, ok := p.NextArg()
		if !ok {
			return tokens
		}
		tokens = append(tokens, Token{Arg: arg, Attached: attached})
		if claimValues && arg.Kind.IsOption() {
			attached = p.HasPending()
			equals := false
			if attached && arg.Kind == lexarg.KindShort {
				next, _ := p.Clone().NextArg()
				equals = next == lexarg.Short("=")
			}
			if v, ok := p.NextFlagValue(); ok {
				tokens = append(tokens, Token{Value: v, IsFlagValue: true, Attached: attached, Equals: equals})
			}
		}
	}
}

// Record is the serialisable form of a Token. Text is the payload with
// invalid UTF-8 replaced; Hex carries the exact bytes when they differ.
type Record struct {
	Kind  string `json:"kind" yaml:"kind"`
	Text  string `json:"text" yaml:"text"`
	Valid bool   `json:"valid" yaml:"valid"`
	Hex   string `json:"hex,omitempty" yaml:"hex,omitempty"`
}

// Records converts tokens to records.
func Records(tokens []Token) []Record {
	records := make([]Record, 0, len(tokens))
	for _, tok := range tokens {
		payload := tok.Payload()
		rec := Record{
			Kind:  tok.Kind(),
			Text:  toValidUTF8(payload),
			Valid: payload.IsValid(),
		}
		if !rec.Valid {
			rec.Hex = hex.EncodeToString([]byte(payload))
		}
		records = append(records, rec)
	}
	return records
}

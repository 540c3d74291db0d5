package render

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Palette for token kinds.
var (
	ShortColor      = lipgloss.AdaptiveColor{Light: "#7C3AED", Dark: "#A78BFA"}
	LongColor       = lipgloss.AdaptiveColor{Light: "#2563EB", Dark: "#60A5FA"}
	ValueColor      = lipgloss.AdaptiveColor{Light: "#374151", Dark: "#E5E7EB"}
	FlagValueColor  = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}
	EscapeColor     = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}
	UnexpectedColor = lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#F87171"}
)

// Styles holds one style per token kind.
type Styles struct {
	Short      lipgloss.Style
	Long       lipgloss.Style
	Value      lipgloss.Style
	FlagValue  lipgloss.Style
	Escape     lipgloss.Style
	Unexpected lipgloss.Style
}

// NewStyles builds the token styles on r.
func NewStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Short:      r.NewStyle().Foreground(ShortColor).Bold(true),
		Long:       r.NewStyle().Foreground(LongColor).Bold(true),
		Value:      r.NewStyle().Foreground(ValueColor),
		FlagValue:  r.NewStyle().Foreground(FlagValueColor),
		Escape:     r.NewStyle().Foreground(EscapeColor).Bold(true),
		Unexpected: r.NewStyle().Foreground(UnexpectedColor).Underline(true),
	}
}

// PlainStyles returns styles that render text unchanged.
func PlainStyles() Styles {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.Ascii)
	return Styles{
		Short:      r.NewStyle(),
		Long:       r.NewStyle(),
		Value:      r.NewStyle(),
		FlagValue:  r.NewStyle(),
		Escape:     r.NewStyle(),
		Unexpected: r.NewStyle(),
	}
}

// StylesFor returns styles for output written to w. color is "always",
// "never" or "auto"; auto colours only when w is a terminal.
func StylesFor(w io.Writer, color string) Styles {
	switch color {
	case "never":
		return PlainStyles()
	case "always":
		r := lipgloss.NewRenderer(w)
		if r.ColorProfile() == termenv.Ascii {
			r.SetColorProfile(termenv.ANSI256)
		}
		return NewStyles(r)
	default:
		return NewStyles(lipgloss.NewRenderer(w))
	}
}

// ForKind returns the style for a token kind name.
func (s Styles) ForKind(kind string) lipgloss.Style {
	switch kind {
	case "short":
		return s.Short
	case "long":
		return s.Long
	case KindFlagValue:
		return s.FlagValue
	case "escape":
		return s.Escape
	case "unexpected":
		return s.Unexpected
	default:
		return s.Value
	}
}

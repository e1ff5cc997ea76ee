// Package output provides styling helpers for terminal output.
package output

import (
	"io"

	"github.com/muesli/termenv"
	"github.com/robinvdvleuten/accounts/ledger"
)

// Styles colors command output. Writers that are not terminals get plain
// text.
type Styles struct {
	output *termenv.Output
}

func NewStyles(w io.Writer) *Styles {
	return &Styles{output: termenv.NewOutput(w)}
}

// NewPlainStyles never emits escape codes.
func NewPlainStyles(w io.Writer) *Styles {
	return &Styles{output: termenv.NewOutput(w, termenv.WithProfile(termenv.Ascii))}
}

func (s *Styles) color(text, color string) termenv.Style {
	return s.output.String(text).Foreground(s.output.Color(color))
}

// Success is green and bold.
func (s *Styles) Success(text string) string { return s.color(text, "2").Bold().String() }

// Warning is yellow and bold.
func (s *Styles) Warning(text string) string { return s.color(text, "3").Bold().String() }

func (s *Styles) FilePath(text string) string { return s.color(text, "6").String() }

// Month styles a YYYY-MM label.
func (s *Styles) Month(m ledger.YearMonth) string { return s.color(m.String(), "4").Bold().String() }

// Money prints negative amounts in red.
func (s *Styles) Money(m ledger.Money) string {
	if m.IsNegative() {
		return s.color(m.FormattedStringPreserveZero(), "1").String()
	}
	return s.color(m.FormattedStringPreserveZero(), "5").String()
}

func (s *Styles) Keyword(text string) string { return s.output.String(text).Bold().String() }

func (s *Styles) Dim(text string) string { return s.output.String(text).Faint().String() }

// Timing dims fast phases and flags slow ones in red.
func (s *Styles) Timing(text string, slow bool) string {
	if slow {
		return s.color(text, "1").String()
	}
	return s.Dim(text)
}

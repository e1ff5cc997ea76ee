package cli

import (
	"errors"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/robinvdvleuten/accounts/ledger"
	"github.com/robinvdvleuten/accounts/storage"
)

var (
	errLabelStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"})
	errContextStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#808080", Dark: "#808080"})
)

// ErrorRenderer renders errors with terminal styling, labelling ledger
// errors by kind and adding a hint where the fix is known.
type ErrorRenderer struct{}

func NewErrorRenderer() *ErrorRenderer {
	return &ErrorRenderer{}
}

// Render formats a single error.
func (r *ErrorRenderer) Render(err error) string {
	label, hint := classify(err)

	var buf strings.Builder
	if label != "" {
		buf.WriteString(errLabelStyle.Render(label + ":"))
		buf.WriteByte(' ')
	}
	buf.WriteString(errorStyle.Render(err.Error()))
	if hint != "" {
		buf.WriteString("\n\n   ")
		buf.WriteString(errContextStyle.Render(hint))
	}
	return buf.String()
}

func classify(err error) (label, hint string) {
	var (
		parseErr        *ledger.ParseError
		invariantErr    *ledger.InvariantError
		preconditionErr *ledger.PreconditionError
	)
	switch {
	case errors.As(err, &parseErr):
		return "parse error", "check the " + parseErr.Kind + " value and try again"
	case errors.As(err, &invariantErr):
		return "invariant violated", "the ledger data is inconsistent; inspect it with dump-month"
	case errors.As(err, &preconditionErr):
		return "precondition failed", ""
	case errors.Is(err, storage.ErrNotFound):
		return "not found", "run init to create the configuration, or open-month to start a month"
	}
	return "", ""
}

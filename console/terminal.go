package console

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Terminal prompts with interactive huh fields.
type Terminal struct {
	out io.Writer
}

// NewTerminal returns a Console that prompts on the terminal and prints to out.
func NewTerminal(out io.Writer) *Console {
	return New(&Terminal{out: out})
}

// NewStdio returns a terminal console when stdin is a terminal, and a line
// console over stdin otherwise.
func NewStdio() *Console {
	if IsTerminal(os.Stdin) {
		return NewTerminal(os.Stdout)
	}
	return NewLine(os.Stdin, os.Stdout)
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func (t *Terminal) Print(message string) {
	_, _ = fmt.Fprint(t.out, message)
}

func (t *Terminal) ReadLine(prompt string) (string, error) {
	var value string
	err := huh.NewInput().
		Title(strings.TrimSpace(prompt)).
		Value(&value).
		Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return "", ErrAborted
	} else if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	return value, nil
}

func (t *Terminal) Confirm(prompt string) (bool, error) {
	confirm := true
	err := huh.NewConfirm().
		Title(prompt).
		WithButtonAlignment(lipgloss.Left).
		Value(&confirm).
		Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return false, ErrAborted
	} else if err != nil {
		return false, fmt.Errorf("failed to read response: %w", err)
	}
	return confirm, nil
}

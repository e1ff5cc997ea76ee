// Package console reads answers from the operator and prints messages.
//
// Parse failures print a message and ask again; only end of input or an
// interrupted prompt ends a read with an error.
package console

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/robinvdvleuten/accounts/ledger"
)

// ErrAborted is returned when the operator interrupts a prompt.
var ErrAborted = errors.New("aborted")

// Backend performs the raw input and output for a Console.
type Backend interface {
	Print(message string)
	// ReadLine prints prompt and returns one line without its newline.
	ReadLine(prompt string) (string, error)
}

// confirmer is implemented by backends with a native yes/no prompt.
type confirmer interface {
	Confirm(prompt string) (bool, error)
}

// Console layers typed prompts over a Backend.
type Console struct {
	backend Backend
}

func New(backend Backend) *Console {
	return &Console{backend: backend}
}

// Out returns a writer that prints through the console.
func (c *Console) Out() io.Writer { return writerFunc(c.Print) }

func (c *Console) Print(message string) { c.backend.Print(message) }

func (c *Console) Printf(format string, args ...any) {
	c.backend.Print(fmt.Sprintf(format, args...))
}

func (c *Console) ReadString(prompt string) (string, error) {
	return c.backend.ReadLine(prompt)
}

// ReadConfirmation asks a yes/no question that defaults to yes.
func (c *Console) ReadConfirmation(format string, args ...any) (bool, error) {
	message := fmt.Sprintf(format, args...)
	var ok bool
	if native, isNative := c.backend.(confirmer); isNative {
		var err error
		if ok, err = native.Confirm(message); err != nil {
			return false, err
		}
	} else {
		line, err := c.backend.ReadLine(message + " [Y/n] ")
		if err != nil {
			return false, err
		}
		ok = line == "" || strings.HasPrefix(line, "y") || strings.HasPrefix(line, "Y")
	}
	if !ok {
		c.Print("Got negative response, aborting.\n")
	}
	return ok, nil
}

func (c *Console) ReadInt(prompt string) (int, error) {
	for {
		line, err := c.backend.ReadLine(prompt)
		if err != nil {
			return 0, err
		}
		if n, err := strconv.Atoi(strings.TrimSpace(line)); err == nil {
			return n, nil
		}
		c.Printf("Unable to parse %q as an integer. Please enter a different value.\n", line)
	}
}

// ReadMoney reads an amount. An empty answer returns def when def is not nil.
func (c *Console) ReadMoney(prompt string, def *ledger.Money) (ledger.Money, error) {
	for {
		line, err := c.backend.ReadLine(prompt)
		if err != nil {
			return ledger.Zero, err
		}
		if def != nil && strings.TrimSpace(line) == "" {
			return *def, nil
		}
		if m, err := ledger.ParseMoney(line); err == nil {
			return m, nil
		}
		c.Printf("Unable to parse %q as a decimal. Please enter a different value.\n", line)
	}
}

// ReadDate reads a YYYY-MM-DD date.
func (c *Console) ReadDate(prompt string) (time.Time, error) {
	for {
		line, err := c.backend.ReadLine(prompt)
		if err != nil {
			return time.Time{}, err
		}
		if d, err := ledger.ParseDate(strings.TrimSpace(line)); err == nil {
			return d, nil
		}
		c.Printf("Unable to parse %q as a date. Please enter a date as YYYY-MM-DD.\n", line)
	}
}

// ReadDay reads a day of month, asking again until it falls inside month.
func (c *Console) ReadDay(prompt string, month ledger.YearMonth) (int, error) {
	for {
		day, err := c.ReadInt(prompt)
		if err != nil {
			return 0, err
		}
		if day >= 1 && day <= month.LastDay() {
			return day, nil
		}
		c.Printf("%s has no day %d. Please enter a different value.\n", month, day)
	}
}

type writerFunc func(string)

func (f writerFunc) Write(p []byte) (int, error) {
	f(string(p))
	return len(p), nil
}

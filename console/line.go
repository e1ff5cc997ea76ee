package console

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Line reads answers line by line from any reader. It is used when input is
// piped and in tests.
type Line struct {
	in  *bufio.Reader
	out io.Writer
}

// NewLine returns a Console reading from in and printing to out.
func NewLine(in io.Reader, out io.Writer) *Console {
	return New(&Line{in: bufio.NewReader(in), out: out})
}

func (l *Line) Print(message string) {
	_, _ = fmt.Fprint(l.out, message)
}

func (l *Line) ReadLine(prompt string) (string, error) {
	l.Print(prompt)
	line, err := l.in.ReadString('\n')
	if err == io.EOF && line != "" {
		err = nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

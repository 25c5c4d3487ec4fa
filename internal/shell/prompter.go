package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// IsInteractive returns true if stdin is a terminal.
// Piped or redirected input is not interactive.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// Prompter reads answers to prompts. It keeps a single buffered reader so
// that consecutive prompts share whatever input has already been read.
type Prompter struct {
	reader *bufio.Reader
	writer io.Writer
}

// NewPrompter creates a Prompter over reader and writer.
// Use os.Stdin and os.Stdout for normal operation, or buffers for testing.
func NewPrompter(reader io.Reader, writer io.Writer) *Prompter {
	return &Prompter{
		reader: bufio.NewReader(reader),
		writer: writer,
	}
}

// Ask prints prompt and returns the next line with surrounding whitespace
// removed. ok is false once input is exhausted.
func (p *Prompter) Ask(prompt string) (answer string, ok bool, err error) {
	fmt.Fprint(p.writer, prompt)

	line, err := p.reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			if line == "" {
				fmt.Fprintln(p.writer)
				return "", false, nil
			}
			return strings.TrimSpace(line), true, nil
		}
		return "", false, fmt.Errorf("error reading input: %w", err)
	}
	return strings.TrimSpace(line), true, nil
}

// Confirm asks a yes/no question. Only "y" (in any case) counts as yes;
// end of input counts as no.
func (p *Prompter) Confirm(prompt string) (bool, error) {
	answer, ok, err := p.Ask(prompt)
	if err != nil || !ok {
		return false, err
	}
	return strings.ToLower(answer) == "y", nil
}

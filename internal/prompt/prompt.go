// Package prompt implements the operator yes/no confirmations used for
// the mint-tag opt-in and the final upload gate.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Prompter asks yes/no questions over an input/output pair, so tests can
// substitute buffers for the terminal.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// New creates a prompter reading answers from in and writing questions to
// out.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// Confirm asks a yes/no question and returns the operator's answer.
// Anything other than "y" or "Y" is a no.
func (p *Prompter) Confirm(question string) (bool, error) {
	if _, err := fmt.Fprintf(p.out, "%s (y/n): ", question); err != nil {
		return false, err
	}

	answer, err := p.in.ReadString('\n')
	if err != nil && answer == "" {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}
	return ParseBoolean(answer), nil
}

// ParseBoolean interprets operator input as a yes/no answer.
func ParseBoolean(input string) bool {
	input = strings.TrimSpace(input)
	return input == "y" || input == "Y"
}

package tui

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Prompter asks yes/no questions.
type Prompter struct {
	in        *bufio.Reader
	out       io.Writer
	assumeYes bool
	style     lipgloss.Style
}

// NewPrompter reads answers from in and writes questions to out. When
// assumeYes is set every question is answered yes without reading.
func NewPrompter(in io.Reader, out io.Writer, assumeYes bool) *Prompter {
	return &Prompter{
		in:        bufio.NewReader(in),
		out:       out,
		assumeYes: assumeYes,
		style:     NewStyles(out).Warning,
	}
}

// Confirm prints question and reports whether the answer is yes. An empty
// answer or the end of input means no.
func (p *Prompter) Confirm(question string) bool {
	if p.assumeYes {
		return true
	}

	fmt.Fprintf(p.out, "%s [y/N]: ", p.style.Render(question))
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(p.out)
		return false
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// Package console reads prompted lines from one shared buffered input so the
// setup prompts and the query prompt never lose each other's buffered bytes.
package console

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Console pairs a buffered input with an output writer.
type Console struct {
	in     *bufio.Reader
	out    io.Writer
	inFile *os.File
	styled bool

	heading lipgloss.Style
	warning lipgloss.Style
	muted   lipgloss.Style
}

// New returns a Console over in and out. Styling and no-echo secret input are
// enabled only when the underlying files are terminals.
func New(in io.Reader, out io.Writer) *Console {
	c := &Console{
		in:  bufio.NewReader(in),
		out: out,
		heading: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7c3aed")).
			Bold(true),
		warning: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#dc2626")).
			Bold(true),
		muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6b7280")),
	}
	if f, ok := in.(*os.File); ok && isTerminal(f) {
		c.inFile = f
	}
	if f, ok := out.(*os.File); ok && isTerminal(f) {
		c.styled = true
	}
	return c
}

// Printf writes formatted text to the output.
func (c *Console) Printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

// Println writes a line to the output.
func (c *Console) Println(s string) {
	fmt.Fprintln(c.out, s)
}

// Heading renders s as a heading when the output is a terminal.
func (c *Console) Heading(s string) string { return c.render(c.heading, s) }

// Warning renders s as a warning when the output is a terminal.
func (c *Console) Warning(s string) string { return c.render(c.warning, s) }

// Muted renders s dimmed when the output is a terminal.
func (c *Console) Muted(s string) string { return c.render(c.muted, s) }

func (c *Console) render(style lipgloss.Style, s string) string {
	if !c.styled {
		return s
	}
	return style.Render(s)
}

// Prompt prints label and reads one line. The trailing newline is removed; a
// final line without a newline is still returned. io.EOF is returned only when
// no bytes were read.
func (c *Console) Prompt(label string) (string, error) {
	fmt.Fprint(c.out, label)
	return c.readLine()
}

// PromptSecret is Prompt without terminal echo. It falls back to a plain line
// read when input is not a terminal or already holds buffered bytes.
func (c *Console) PromptSecret(label string) (string, error) {
	if c.inFile == nil || c.in.Buffered() > 0 {
		return c.Prompt(label)
	}
	fmt.Fprint(c.out, label)
	secret, err := term.ReadPassword(int(c.inFile.Fd()))
	fmt.Fprintln(c.out)
	if err != nil {
		return "", fmt.Errorf("failed to read secret: %w", err)
	}
	return string(secret), nil
}

func (c *Console) readLine() (string, error) {
	line, err := c.in.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

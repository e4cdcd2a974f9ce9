// SPDX-License-Identifier: MPL-2.0

package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	questionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
	answerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)
	hintStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
)

type (
	// TerminalGate prompts on a terminal. When in is an interactive
	// terminal a single keystroke answers; otherwise one line is read and
	// its first character decides.
	TerminalGate struct {
		in          io.Reader
		out         io.Writer
		interactive bool
		lines       *bufio.Reader
	}

	// keyModel is a bubbletea model that finishes on the first key press.
	keyModel struct {
		prompt      string
		pause       bool
		answered    bool
		answer      bool
		interrupted bool
	}
)

// NewTerminalGate creates a TerminalGate reading from in and writing to out.
func NewTerminalGate(in io.Reader, out io.Writer) *TerminalGate {
	return &TerminalGate{
		in:          in,
		out:         out,
		interactive: IsTerminal(in),
		lines:       bufio.NewReader(in),
	}
}

// IsTerminal reports whether r is an interactive terminal.
func IsTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Interactive reports whether single-key prompts are used.
func (g *TerminalGate) Interactive() bool { return g.interactive }

// Confirm implements Gate. Only y or Y answers yes; any other key is no.
func (g *TerminalGate) Confirm(ctx context.Context, q Question) (bool, error) {
	prompt := q.Text + " [y/n]"
	if !g.interactive {
		fmt.Fprint(g.out, questionStyle.Render(prompt)+" ")
		line, err := g.readLine()
		if err != nil {
			return false, err
		}
		r, _ := utf8.DecodeRuneInString(strings.TrimSpace(line))
		return r == 'y' || r == 'Y', nil
	}

	m, err := g.run(ctx, &keyModel{prompt: prompt})
	if err != nil {
		return false, err
	}
	return m.answer, nil
}

// Pause implements Gate.
func (g *TerminalGate) Pause(ctx context.Context, message string) error {
	if !g.interactive {
		fmt.Fprintln(g.out, hintStyle.Render(message))
		_, err := g.readLine()
		return err
	}
	_, err := g.run(ctx, &keyModel{prompt: message, pause: true})
	return err
}

func (g *TerminalGate) run(ctx context.Context, m *keyModel) (*keyModel, error) {
	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(g.in),
		tea.WithOutput(g.out),
	)
	final, err := p.Run()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("read key: %w", err)
	}
	km, ok := final.(*keyModel)
	if !ok {
		return nil, fmt.Errorf("read key: unexpected model %T", final)
	}
	if km.interrupted {
		return nil, ErrInterrupted
	}
	return km, nil
}

// readLine returns the next input line. End of input counts as an empty
// answer.
func (g *TerminalGate) readLine() (string, error) {
	line, err := g.lines.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read answer: %w", err)
	}
	return line, nil
}

func (m *keyModel) Init() tea.Cmd { return nil }

func (m *keyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if key.Type == tea.KeyCtrlC {
		m.interrupted = true
		return m, tea.Quit
	}
	m.answered = true
	if len(key.Runes) == 1 {
		m.answer = unicode.ToLower(key.Runes[0]) == 'y'
	}
	return m, tea.Quit
}

func (m *keyModel) View() string {
	if m.pause {
		if m.answered || m.interrupted {
			return ""
		}
		return hintStyle.Render(m.prompt)
	}
	if m.answered {
		label := "n"
		if m.answer {
			label = "y"
		}
		return questionStyle.Render(m.prompt) + " " + answerStyle.Render(label) + "\n"
	}
	return questionStyle.Render(m.prompt) + " "
}

// Package terminal prints the launcher messages and waits for the user.
package terminal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const DEFAULT_ACKNOWLEDGE_PROMPT = "Press Enter to exit..."

type Terminal struct {
	output io.Writer
	input  *bufio.Reader
	pause  bool

	// Closed once the pending read of the input returns
	pending chan struct{}

	bannerStyle  lipgloss.Style
	titleStyle   lipgloss.Style
	infoStyle    lipgloss.Style
	successStyle lipgloss.Style
	warningStyle lipgloss.Style
	failureStyle lipgloss.Style
}

// New returns a terminal writing to output. When pause is false Acknowledge
// returns immediately, for unattended runs.
func New(output io.Writer, input io.Reader, pause bool) *Terminal {
	renderer := lipgloss.NewRenderer(output)
	return &Terminal{
		output: output,
		input:  bufio.NewReader(input),
		pause:  pause,

		bannerStyle: renderer.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("10")).
			Padding(0, 2),
		titleStyle:   renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		infoStyle:    renderer.NewStyle().Foreground(lipgloss.Color("7")),
		successStyle: renderer.NewStyle().Foreground(lipgloss.Color("10")),
		warningStyle: renderer.NewStyle().Foreground(lipgloss.Color("11")),
		failureStyle: renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
	}
}

func (terminal *Terminal) Banner(title string, lines ...string) {
	content := append([]string{terminal.titleStyle.Render(title)}, lines...)
	fmt.Fprintln(terminal.output, terminal.bannerStyle.Render(strings.Join(content, "\n")))
	fmt.Fprintln(terminal.output)
}

func (terminal *Terminal) Info(format string, args ...interface{}) {
	terminal.print(terminal.infoStyle, "", format, args...)
}

func (terminal *Terminal) Success(format string, args ...interface{}) {
	terminal.print(terminal.successStyle, "[OK] ", format, args...)
}

func (terminal *Terminal) Warning(format string, args ...interface{}) {
	terminal.print(terminal.warningStyle, "[WARNING] ", format, args...)
}

func (terminal *Terminal) Failure(format string, args ...interface{}) {
	terminal.print(terminal.failureStyle, "[ERROR] ", format, args...)
}

func (terminal *Terminal) print(style lipgloss.Style, prefix string, format string, args ...interface{}) {
	fmt.Fprintln(terminal.output, style.Render(prefix+fmt.Sprintf(format, args...)))
}

// Acknowledge blocks until the user presses Enter, the input is closed or ctx is cancelled.
func (terminal *Terminal) Acknowledge(ctx context.Context) {
	if !terminal.pause || ctx.Err() != nil {
		return
	}
	fmt.Fprintln(terminal.output)
	fmt.Fprint(terminal.output, DEFAULT_ACKNOWLEDGE_PROMPT)

	// A read abandoned by a cancelled context is reused, never doubled
	if terminal.pending == nil {
		pending := make(chan struct{})
		terminal.pending = pending
		go func() {
			// EOF counts as an acknowledgment
			terminal.input.ReadString('\n')
			close(pending)
		}()
	}
	select {
	case <-terminal.pending:
		terminal.pending = nil
	case <-ctx.Done():
	}
	fmt.Fprintln(terminal.output)
}

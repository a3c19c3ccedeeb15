package progress

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

var (
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
)

// Console writes one line per progress event. It does not redraw the
// terminal, so it can be interleaved with interactive prompts.
type Console struct {
	mu    sync.Mutex
	w     io.Writer
	color bool
}

// NewConsole creates a Console writing to w.
func NewConsole(w io.Writer, color bool) *Console {
	return &Console{w: w, color: color}
}

// Start implements Reporter.
func (c *Console) Start(label string) Operation {
	c.write(pendingStyle, ">", label)
	return &consoleOperation{c: c, label: label}
}

func (c *Console) write(style lipgloss.Style, mark, msg string) {
	if c.color {
		mark = style.Render(mark)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = fmt.Fprintf(c.w, "%s %s\n", mark, msg)
}

type consoleOperation struct {
	c     *Console
	label string
	done  bool
}

func (o *consoleOperation) Update(label string) {
	if o.done || label == o.label {
		return
	}
	o.label = label
	o.c.write(pendingStyle, " ", label)
}

func (o *consoleOperation) Succeed(msg string) {
	o.finish(successStyle, "✔", msg)
}

func (o *consoleOperation) Fail(msg string) {
	o.finish(failureStyle, "✖", msg)
}

func (o *consoleOperation) finish(style lipgloss.Style, mark, msg string) {
	if o.done {
		return
	}
	o.done = true
	if msg == "" {
		msg = o.label
	}
	o.c.write(style, mark, msg)
}

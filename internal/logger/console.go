package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Status is the kind of an operator-facing console line.
type Status int

// Console statuses.
const (
	StatusInfo Status = iota
	StatusSuccess
	StatusWarning
	StatusError
)

var (
	infoTag    = lipgloss.NewStyle().Foreground(lipgloss.Color("#22D3EE")) // cyan
	successTag = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")) // green
	warningTag = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")) // amber
	errorTag   = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")) // red
)

// Console prints short coloured status lines for the operator.
// It complements Logger, which carries the structured diagnostics.
type Console struct {
	out io.Writer
}

// NewConsole creates a console writing to w. A nil writer means stdout.
func NewConsole(w io.Writer) *Console {
	if w == nil {
		w = os.Stdout
	}

	return &Console{out: w}
}

// Print writes one status line.
func (c *Console) Print(status Status, format string, args ...any) {
	fmt.Fprintf(c.out, "%s %s\n", Tag(status), fmt.Sprintf(format, args...))
}

// Info prints an [INFO] line.
func (c *Console) Info(format string, args ...any) { c.Print(StatusInfo, format, args...) }

// Success prints a [SUCCESS] line.
func (c *Console) Success(format string, args ...any) { c.Print(StatusSuccess, format, args...) }

// Warning prints a [WARNING] line.
func (c *Console) Warning(format string, args ...any) { c.Print(StatusWarning, format, args...) }

// Error prints an [ERROR] line.
func (c *Console) Error(format string, args ...any) { c.Print(StatusError, format, args...) }

// Tag renders the coloured [STATUS] prefix.
func Tag(status Status) string {
	switch status {
	case StatusSuccess:
		return successTag.Render("[SUCCESS]")
	case StatusWarning:
		return warningTag.Render("[WARNING]")
	case StatusError:
		return errorTag.Render("[ERROR]")
	default:
		return infoTag.Render("[INFO]")
	}
}

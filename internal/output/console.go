// Package output renders release status for people and machines.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Severity labels a console status line.
type Severity int

const (
	SeverityInfo Severity = iota
	SeveritySuccess
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeveritySuccess:
		return "SUCCESS"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Printer writes severity-tagged status lines. Labels are colored when the
// writer is a terminal and NO_COLOR is unset.
type Printer struct {
	w      io.Writer
	quiet  bool
	styles map[Severity]lipgloss.Style
}

// NewPrinter creates a Printer writing to w. A quiet printer only writes
// errors.
func NewPrinter(w io.Writer, quiet bool) *Printer {
	p := &Printer{w: w, quiet: quiet}
	if colorEnabled(w) {
		r := lipgloss.NewRenderer(w)
		p.styles = map[Severity]lipgloss.Style{
			SeverityInfo:    r.NewStyle().Foreground(lipgloss.Color("6")),
			SeveritySuccess: r.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
			SeverityWarning: r.NewStyle().Foreground(lipgloss.Color("3")),
			SeverityError:   r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		}
	}
	return p
}

func colorEnabled(w io.Writer) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (p *Printer) Info(format string, args ...any) {
	p.print(SeverityInfo, format, args...)
}

func (p *Printer) Success(format string, args ...any) {
	p.print(SeveritySuccess, format, args...)
}

func (p *Printer) Warning(format string, args ...any) {
	p.print(SeverityWarning, format, args...)
}

// Error is written even when the printer is quiet.
func (p *Printer) Error(format string, args ...any) {
	p.print(SeverityError, format, args...)
}

func (p *Printer) print(sev Severity, format string, args ...any) {
	if p.quiet && sev != SeverityError {
		return
	}
	label := sev.String() + ":"
	if style, ok := p.styles[sev]; ok {
		label = style.Render(label)
	}
	_, _ = fmt.Fprintf(p.w, "%s %s\n", label, fmt.Sprintf(format, args...))
}

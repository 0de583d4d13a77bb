package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/types"
)

// ConsoleFormatter formats output for console display
type ConsoleFormatter struct {
	quiet    bool
	verbose  bool
	colorize bool
	out      io.Writer
}

// NewConsoleFormatter creates a new ConsoleFormatter
func NewConsoleFormatter(quiet, verbose bool) *ConsoleFormatter {
	return &ConsoleFormatter{
		quiet:    quiet,
		verbose:  verbose,
		colorize: true,
		out:      os.Stdout,
	}
}

// SetOutput redirects the formatter.
func (f *ConsoleFormatter) SetOutput(w io.Writer) { f.out = w }

// Format prints one table per scored document, then failures and a summary.
func (f *ConsoleFormatter) Format(report *Report) error {
	if f.quiet {
		return nil
	}

	for i, e := range report.Entries {
		if i > 0 {
			fmt.Fprintln(f.out)
		}
		f.printEntry(e)
	}
	f.printFailures(report)
	f.printSummary(report)
	return nil
}

func (f *ConsoleFormatter) printEntry(e Entry) {
	res := e.Result
	status := "✓"
	statusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("10")) // green
	if res.Partial {
		status = "◐"
		statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3")) // yellow
	}
	title := lipgloss.NewStyle().Bold(true)
	if !f.colorize {
		statusStyle = lipgloss.NewStyle()
		title = lipgloss.NewStyle()
	}

	header := fmt.Sprintf("%s %s  %s (%s)", statusStyle.Render(status), e.Source, title.Render(res.Instrument), res.Family)
	if e.Subject != "" {
		header += "  " + e.Subject
	}
	if res.Partial {
		header += "  [partial]"
	}
	fmt.Fprintln(f.out, header)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers(LineHeaders...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return s.Bold(true)
			}
			return s
		})
	for _, l := range Lines(res) {
		cells := l.Strings()
		cells[4] = f.renderLabel(l.Label)
		t.Row(cells...)
	}
	fmt.Fprintln(f.out, t.String())

	for _, tag := range Tags(res) {
		fmt.Fprintf(f.out, "  • %s\n", tag)
	}
	if f.verbose {
		for _, note := range res.Notes {
			fmt.Fprintf(f.out, "  ⚠ %s\n", note)
		}
	}
}

// renderLabel colours classifications and pattern levels by severity.
func (f *ConsoleFormatter) renderLabel(label string) string {
	if !f.colorize || label == "" {
		return label
	}
	color := "7" // gray
	switch label {
	case string(types.ClassTypical):
		color = "10" // green
	case string(types.ClassProbableDysfunc), string(types.LevelMore), string(types.LevelLess):
		color = "3" // yellow
	case string(types.ClassDefiniteDysfunc), string(types.LevelMuchMore), string(types.LevelMuchLess):
		color = "9" // red
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(label)
}

func (f *ConsoleFormatter) printFailures(report *Report) {
	if len(report.Failures) == 0 {
		return
	}
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("9")) // red
	if !f.colorize {
		style = lipgloss.NewStyle()
	}
	fmt.Fprintln(f.out)
	for _, fail := range report.Failures {
		fmt.Fprintf(f.out, "%s %s: %s\n", style.Render("✗"), fail.Source, fail.Message)
	}
}

func (f *ConsoleFormatter) printSummary(report *Report) {
	parts := []string{fmt.Sprintf("%d scored", len(report.Entries))}
	if n := report.Partial(); n > 0 {
		parts = append(parts, fmt.Sprintf("%d partial", n))
	}
	if n := len(report.Failures); n > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", n))
	}
	summary := strings.Join(parts, ", ")
	if !report.StartTime.IsZero() {
		summary += fmt.Sprintf(" (%v)", time.Since(report.StartTime).Round(time.Millisecond))
	}
	fmt.Fprintf(f.out, "\n%s\n", summary)
}

package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// MarkdownFormatter formats output as Markdown
type MarkdownFormatter struct {
	quiet      bool
	verbose    bool
	outputFile string
	out        io.Writer
}

// NewMarkdownFormatter creates a new MarkdownFormatter
func NewMarkdownFormatter(quiet, verbose bool, outputFile string) *MarkdownFormatter {
	return &MarkdownFormatter{
		quiet:      quiet,
		verbose:    verbose,
		outputFile: outputFile,
		out:        os.Stdout,
	}
}

// SetOutput redirects stdout output; an output file still wins.
func (f *MarkdownFormatter) SetOutput(w io.Writer) { f.out = w }

// Render builds the Markdown document for a report.
func (f *MarkdownFormatter) Render(report *Report) string {
	var b strings.Builder

	b.WriteString("# Assessment Report\n\n")
	b.WriteString(fmt.Sprintf("**Generated:** %s\n\n", time.Now().Format("2006-01-02 15:04:05")))
	if !report.StartTime.IsZero() {
		b.WriteString(fmt.Sprintf("**Duration:** %v\n\n", time.Since(report.StartTime).Round(time.Millisecond)))
	}

	b.WriteString("## Summary\n\n")
	b.WriteString("| Metric | Count |\n")
	b.WriteString("|--------|-------|\n")
	b.WriteString(fmt.Sprintf("| Scored | %d |\n", len(report.Entries)))
	b.WriteString(fmt.Sprintf("| Partial | %d |\n", report.Partial()))
	b.WriteString(fmt.Sprintf("| Failed | %d |\n", len(report.Failures)))
	b.WriteString("\n")

	if len(report.Entries) == 0 && len(report.Failures) == 0 {
		b.WriteString("*No answer documents found.*\n")
		return b.String()
	}

	for _, e := range report.Entries {
		res := e.Result
		b.WriteString(fmt.Sprintf("## %s\n\n", strings.TrimPrefix(e.Source, "./")))
		b.WriteString(fmt.Sprintf("Instrument: `%s` (%s, version %s)\n\n", res.Instrument, res.Family, res.Version))
		if e.Subject != "" {
			b.WriteString(fmt.Sprintf("Subject: %s\n\n", e.Subject))
		}
		if res.Partial {
			b.WriteString("> **Partial:** not every item was answered.\n\n")
		}

		b.WriteString("| " + strings.Join(LineHeaders, " | ") + " |\n")
		b.WriteString("|" + strings.Repeat("---|", len(LineHeaders)) + "\n")
		for _, l := range Lines(res) {
			b.WriteString("| " + strings.Join(escapeCells(l.Strings()), " | ") + " |\n")
		}
		b.WriteString("\n")

		if tags := Tags(res); len(tags) > 0 {
			b.WriteString("#### Interpretation\n\n")
			for _, tag := range tags {
				b.WriteString("- " + tag + "\n")
			}
			b.WriteString("\n")
		}
		if f.verbose && len(res.Notes) > 0 {
			b.WriteString("#### Notes\n\n")
			for _, note := range res.Notes {
				b.WriteString("- " + note + "\n")
			}
			b.WriteString("\n")
		}
	}

	if len(report.Failures) > 0 {
		b.WriteString("## Failures\n\n")
		for _, fail := range report.Failures {
			b.WriteString(fmt.Sprintf("- **%s** - %s\n", fail.Source, fail.Message))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Format formats the report as Markdown
func (f *MarkdownFormatter) Format(report *Report) error {
	content := f.Render(report)
	if f.outputFile != "" {
		if err := os.WriteFile(f.outputFile, []byte(content), 0644); err != nil {
			return fmt.Errorf("error writing to file %s: %w", f.outputFile, err)
		}
		return nil
	}
	if f.quiet {
		return nil
	}
	_, err := io.WriteString(f.out, content)
	return err
}

// escapeCells protects pipe characters inside table cells.
func escapeCells(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = strings.ReplaceAll(c, "|", `\|`)
	}
	return out
}

package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/scoring"
)

// Version is reported in JSON and Markdown headers.
var Version = "dev"

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	quiet      bool
	indent     bool
	outputFile string
	out        io.Writer
}

// NewJSONFormatter creates a new JSONFormatter
func NewJSONFormatter(quiet bool, indent bool, outputFile string) *JSONFormatter {
	return &JSONFormatter{
		quiet:      quiet,
		indent:     indent,
		outputFile: outputFile,
		out:        os.Stdout,
	}
}

// SetOutput redirects stdout output; an output file still wins.
func (f *JSONFormatter) SetOutput(w io.Writer) { f.out = w }

// JSONReport represents the complete JSON report structure
type JSONReport struct {
	Header   JSONHeader    `json:"header"`
	Summary  JSONSummary   `json:"summary"`
	Results  []JSONResult  `json:"results"`
	Failures []JSONFailure `json:"failures,omitempty"`
}

// JSONHeader contains report metadata
type JSONHeader struct {
	Tool      string `json:"tool"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}

// JSONSummary contains summary statistics
type JSONSummary struct {
	Scored   int    `json:"scored"`
	Partial  int    `json:"partial"`
	Failed   int    `json:"failed"`
	Duration string `json:"duration,omitempty"`
}

// JSONResult is one scored document.
type JSONResult struct {
	Source  string                `json:"source"`
	Subject string                `json:"subject,omitempty"`
	Status  string                `json:"status,omitempty"`
	Result  *scoring.ScoredResult `json:"result"`
}

// JSONFailure is one document that could not be scored.
type JSONFailure struct {
	Source  string `json:"source"`
	Message string `json:"message"`
}

// Build converts a report into its JSON shape.
func (f *JSONFormatter) Build(report *Report) JSONReport {
	jr := JSONReport{
		Header: JSONHeader{
			Tool:      "spmto",
			Version:   Version,
			Timestamp: time.Now().Format(time.RFC3339),
		},
		Summary: JSONSummary{
			Scored:  len(report.Entries),
			Partial: report.Partial(),
			Failed:  len(report.Failures),
		},
		Results: make([]JSONResult, 0, len(report.Entries)),
	}
	if !report.StartTime.IsZero() {
		jr.Summary.Duration = time.Since(report.StartTime).Round(time.Millisecond).String()
	}
	for _, e := range report.Entries {
		jr.Results = append(jr.Results, JSONResult{Source: e.Source, Subject: e.Subject, Status: e.Status, Result: e.Result})
	}
	for _, fail := range report.Failures {
		jr.Failures = append(jr.Failures, JSONFailure{Source: fail.Source, Message: fail.Message})
	}
	return jr
}

// Format formats the report as JSON
func (f *JSONFormatter) Format(report *Report) error {
	jr := f.Build(report)

	var jsonBytes []byte
	var err error
	if f.indent {
		jsonBytes, err = json.MarshalIndent(jr, "", "  ")
	} else {
		jsonBytes, err = json.Marshal(jr)
	}
	if err != nil {
		return fmt.Errorf("error marshaling JSON: %w", err)
	}

	if f.outputFile != "" {
		if err := os.WriteFile(f.outputFile, jsonBytes, 0644); err != nil {
			return fmt.Errorf("error writing to file %s: %w", f.outputFile, err)
		}
		return nil
	}
	if f.quiet {
		return nil
	}
	_, err = fmt.Fprintln(f.out, string(jsonBytes))
	return err
}

package output

import (
	"bytes"
	"strings"
	"testing"
)

func TestConsoleFormatter_Format(t *testing.T) {
	tests := []struct {
		name            string
		report          *Report
		quiet           bool
		verbose         bool
		wantContains    []string
		wantNotContains []string
	}{
		{
			name:            "quiet mode - no output",
			report:          sampleReport(),
			quiet:           true,
			wantNotContains: []string{"SOC", "scored"},
		},
		{
			name:   "scored entries and failures",
			report: sampleReport(),
			wantContains: []string{
				"joao.answers.yaml",
				"SPM_CASA_5_12",
				"SOC",
				"T=40 P=16-50",
				"PROVAVEL_DISFUNCAO",
				"EXPLORACAO (Seeking)",
				"[partial]",
				"• elevated Seeking pattern",
				"✗ broken.answers.yaml",
				"2 scored, 1 partial, 1 failed",
			},
			wantNotContains: []string{"unrecognized token"},
		},
		{
			name:         "verbose shows notes",
			report:       sampleReport(),
			verbose:      true,
			wantContains: []string{"⚠ item 12: unrecognized token"},
		},
		{
			name:            "empty report",
			report:          &Report{},
			wantContains:    []string{"0 scored"},
			wantNotContains: []string{"partial", "failed", "✗"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			f := NewConsoleFormatter(tt.quiet, tt.verbose)
			f.colorize = false
			f.SetOutput(&buf)

			if err := f.Format(tt.report); err != nil {
				t.Fatalf("Format() error = %v", err)
			}
			out := buf.String()

			if tt.quiet && out != "" {
				t.Errorf("quiet mode produced output: %q", out)
			}
			for _, want := range tt.wantContains {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q\n%s", want, out)
				}
			}
			for _, notWant := range tt.wantNotContains {
				if strings.Contains(out, notWant) {
					t.Errorf("output should not contain %q\n%s", notWant, out)
				}
			}
		})
	}
}

func TestConsoleFormatter_RenderLabel(t *testing.T) {
	f := NewConsoleFormatter(false, false)
	f.colorize = false
	if got := f.renderLabel("TIPICO"); got != "TIPICO" {
		t.Errorf("renderLabel() = %q, want plain label", got)
	}

	f.colorize = true
	if got := f.renderLabel(""); got != "" {
		t.Errorf("renderLabel(\"\") = %q, want empty", got)
	}
	if got := f.renderLabel("MUITO_MAIS"); !strings.Contains(got, "MUITO_MAIS") {
		t.Errorf("renderLabel() = %q, lost label text", got)
	}
}

func TestNewConsoleFormatter(t *testing.T) {
	f := NewConsoleFormatter(true, true)
	if !f.quiet || !f.verbose || !f.colorize {
		t.Errorf("NewConsoleFormatter() = %+v", f)
	}
	if f.out == nil {
		t.Error("NewConsoleFormatter() left out nil")
	}
}

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/catalog"
	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/discovery"
	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/instrument"
	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/types"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file|dir]...",
	Short: "Validate instrument and answer documents",
	Long: `Validate reference data and answer documents.

With no arguments every catalog instrument (embedded seeds plus --catalog)
is checked: norm rows must not overlap, Sensory Profile quadrants must
partition the items, FIM items need a category, COPM items a problem and
dimension, GMFM exactly the dimensions A..E. Coverage gaps in norm tables
are reported as warnings.

Given files or directories, *.instrument.yaml documents are schema-checked
and validated the same way and *.answers.yaml documents are checked against
their instrument: the instrument must exist and every answered item must
belong to it.`,
	Args: cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		failed, err := runValidate(cmd.Context(), args, os.Stdout)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitFunc(1)
			return
		}
		if failed {
			exitFunc(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

var (
	errorMark   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Render("✗")
	warningMark = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Render("⚠")
	okMark      = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render("✓")
)

// runValidate reports whether any error-severity finding was produced.
func runValidate(ctx context.Context, args []string, w io.Writer) (bool, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	s, err := newSession(ctx)
	if err != nil {
		return false, err
	}
	defer s.Close()

	loader, err := catalog.NewLoader(s.logger)
	if err != nil {
		return false, err
	}

	if len(args) == 0 {
		failed := false
		for _, inst := range s.catalog.List() {
			if reportFindings(w, inst.Code, instrument.Validate(inst), s.cfg.Quiet) {
				failed = true
			}
		}
		return failed, nil
	}

	files, err := expandPaths(args, s.cfg.FollowSymlinks, discovery.FileTypeUnknown)
	if err != nil {
		return false, err
	}

	failed := false
	for _, path := range files {
		ft, err := discovery.DetectFileType(path)
		if err != nil {
			fmt.Fprintf(w, "%s %s: %v\n", errorMark, path, err)
			failed = true
			continue
		}
		switch ft {
		case discovery.FileTypeInstrument:
			data, err := os.ReadFile(path)
			if err != nil {
				return false, err
			}
			inst, err := loader.Decode(path, data)
			if err != nil {
				fmt.Fprintf(w, "%s %v\n", errorMark, err)
				failed = true
				continue
			}
			if reportFindings(w, path, instrument.Validate(inst), s.cfg.Quiet) {
				failed = true
			}
		case discovery.FileTypeAnswers:
			if !validateAnswers(w, s, path) {
				failed = true
			}
		default:
			if verbose {
				fmt.Fprintf(w, "Skipping %s: %s documents are not validated\n", path, ft)
			}
		}
	}
	return failed, nil
}

// reportFindings prints findings and reports whether any was an error.
func reportFindings(w io.Writer, subject string, findings []instrument.Finding, quiet bool) bool {
	failed := false
	for _, f := range findings {
		mark := warningMark
		if f.Severity == types.SeverityError {
			mark = errorMark
			failed = true
		} else if quiet {
			continue
		}
		where := subject
		if f.Subject != "" {
			where += " " + f.Subject
		}
		fmt.Fprintf(w, "%s %s: %s\n", mark, where, f.Message)
	}
	if !failed && !quiet {
		fmt.Fprintf(w, "%s %s\n", okMark, subject)
	}
	return failed
}

func validateAnswers(w io.Writer, s *session, path string) bool {
	set, err := s.loadAnswers(path)
	if err != nil {
		fmt.Fprintf(w, "%s %s: %v\n", errorMark, path, err)
		return false
	}
	inst, err := s.catalog.Get(set.Instrument)
	if err != nil {
		fmt.Fprintf(w, "%s %s: %v\n", errorMark, path, err)
		return false
	}

	known := make(map[int]bool)
	for n := range inst.ItemIndex() {
		known[n] = true
	}
	if unknown := set.Unknown(known); len(unknown) > 0 {
		fmt.Fprintf(w, "%s %s: items %v are not part of %s\n", errorMark, path, unknown, inst.Code)
		return false
	}
	if !s.cfg.Quiet {
		fmt.Fprintf(w, "%s %s\n", okMark, path)
	}
	return true
}

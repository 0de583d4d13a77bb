package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/discovery"
	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/format"
)

var (
	fmtCheck bool
	fmtWrite bool
	fmtDiff  bool
	fmtType  string // Force document type
)

var fmtCmd = &cobra.Command{
	Use:   "fmt [files...]",
	Short: "Format answer and instrument documents canonically",
	Long: `Format answer and instrument documents with canonical style.

FORMATTING RULES:

  Answer documents:
  - Key order: id, instrument, subject, status, finalized_at, answers
  - Response tokens trimmed and upper-cased (" nunca" -> NUNCA)
  - Empty answers dropped, answers sorted by item number

  Instrument documents:
  - Key order: code, name, family, version, age_range, domains, norms,
    patterns, bands

USAGE MODES:

  spmto fmt intake/                 # Print formatted documents to stdout
  spmto fmt -w joao.answers.yaml    # Write changes in place
  spmto fmt --diff joao.answers.yaml
  spmto fmt --check intake/         # Exit 1 if files need formatting (CI)`,
	Args: cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runFmt(args, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitFunc(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(fmtCmd)

	fmtCmd.Flags().BoolVar(&fmtCheck, "check", false, "Exit 1 if files would change (for CI)")
	fmtCmd.Flags().BoolVarP(&fmtWrite, "write", "w", false, "Write changes in place")
	fmtCmd.Flags().BoolVar(&fmtDiff, "diff", false, "Show diff of what would change")
	fmtCmd.Flags().StringVarP(&fmtType, "type", "t", "", "Force document type (answers|instrument)")
}

func runFmt(args []string, w io.Writer) error {
	if len(args) == 0 {
		args = []string{"."}
	}
	filesToFormat, err := expandPaths(args, false, discovery.FileTypeUnknown)
	if err != nil {
		return err
	}
	if len(filesToFormat) == 0 {
		return fmt.Errorf("no files to format")
	}

	var forced discovery.FileType
	if fmtType != "" {
		if forced, err = discovery.ParseFileType(fmtType); err != nil {
			return err
		}
	}

	var needsFormatting []string
	totalFiles := 0

	for _, filePath := range filesToFormat {
		absPath, err := discovery.ValidateFilePath(filePath)
		if err != nil {
			if !quiet {
				fmt.Fprintf(os.Stderr, "Skipping %s: %v\n", filePath, err)
			}
			continue
		}

		fileType := forced
		if fileType == discovery.FileTypeUnknown {
			fileType, err = discovery.DetectFileType(absPath)
			if err != nil {
				if !quiet {
					fmt.Fprintf(os.Stderr, "Skipping %s: %v\n", filePath, err)
				}
				continue
			}
		}
		totalFiles++

		content, err := os.ReadFile(absPath)
		if err != nil {
			if !quiet {
				fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", filePath, err)
			}
			continue
		}

		formatted, err := format.NewFormatter(fileType.String()).Format(string(content))
		if err != nil {
			if !quiet {
				fmt.Fprintf(os.Stderr, "Error formatting %s: %v\n", filePath, err)
			}
			continue
		}

		if string(content) == formatted {
			if verbose {
				fmt.Fprintf(w, "%s already formatted\n", filePath)
			}
			continue
		}
		needsFormatting = append(needsFormatting, absPath)

		switch {
		case fmtCheck:
			if !quiet {
				fmt.Fprintf(w, "%s needs formatting\n", filePath)
			}
		case fmtDiff:
			fmt.Fprint(w, format.Diff(string(content), formatted, filePath))
		case fmtWrite:
			if err := os.WriteFile(absPath, []byte(formatted), 0644); err != nil {
				return fmt.Errorf("error writing %s: %w", absPath, err)
			}
			if !quiet {
				fmt.Fprintf(w, "Formatted %s\n", filePath)
			}
		default:
			fmt.Fprint(w, formatted)
		}
	}

	if !quiet && totalFiles > 1 {
		switch {
		case len(needsFormatting) == 0:
			fmt.Fprintf(w, "\nAll %d files already formatted\n", totalFiles)
		case fmtWrite:
			fmt.Fprintf(w, "\nFormatted %d of %d files\n", len(needsFormatting), totalFiles)
		default:
			fmt.Fprintf(w, "\n%d of %d files need formatting\n", len(needsFormatting), totalFiles)
		}
	}

	if fmtCheck && len(needsFormatting) > 0 {
		exitFunc(1)
	}
	return nil
}

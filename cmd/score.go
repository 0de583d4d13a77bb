package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/output"
	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/outputters"
)

var scoreCmd = &cobra.Command{
	Use:   "score [answers.yaml|dir]...",
	Short: "Score answer documents",
	Long: `Score one or more answer documents against their instruments.

Directories are searched for *.answers.yaml files. With no arguments the
current directory is searched. Every document is scored from its response
tokens; documents that cannot be scored are reported as failures and the
command exits 1.

EXAMPLES:

  spmto score joao.answers.yaml
  spmto score --format json intake/
  spmto score --format xlsx --output report.xlsx intake/`,
	Args: cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		failed, err := runScore(cmd.Context(), args)
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
	rootCmd.AddCommand(scoreCmd)
}

// runScore scores every document and renders one report. It reports whether
// any document failed.
func runScore(ctx context.Context, args []string) (bool, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	s, err := newSession(ctx)
	if err != nil {
		return false, err
	}
	defer s.Close()

	files, err := collectAnswerFiles(args, s.cfg.FollowSymlinks)
	if err != nil {
		return false, err
	}
	if len(files) == 0 {
		return false, fmt.Errorf("no answer documents found")
	}

	report := &output.Report{StartTime: time.Now()}
	for _, path := range files {
		set, err := s.loadAnswers(path)
		if err != nil {
			report.Failures = append(report.Failures, output.Failure{Source: path, Message: err.Error()})
			continue
		}
		_, res, err := s.score(set)
		if err != nil {
			s.logger.Warn("scoring failed", zap.String("file", path), zap.Error(err))
			report.Failures = append(report.Failures, output.Failure{Source: path, Message: err.Error()})
			continue
		}
		report.Entries = append(report.Entries, output.Entry{
			Source:  path,
			Subject: set.Subject,
			Status:  string(set.Status),
			Result:  res,
		})
	}

	if err := outputters.NewOutputter(s.cfg).Format(report, ""); err != nil {
		return false, fmt.Errorf("error formatting output: %w", err)
	}
	return len(report.Failures) > 0, nil
}

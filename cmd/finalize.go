package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/answers"
	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/output"
	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/outputters"
)

var finalizeDryRun bool

var finalizeCmd = &cobra.Command{
	Use:   "finalize <answers.yaml>",
	Short: "Score a complete answer document and mark it finalized",
	Long: `Finalize an answer document: the set is scored, and when every item
carries a response its status becomes finalized and the document is
rewritten with a finalized_at timestamp. A document with an unanswered or
NAO_APLICA item stays a draft and the command exits 1.

Finalizing an already finalized document rescores it without changing it.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runFinalize(cmd.Context(), args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitFunc(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(finalizeCmd)
	finalizeCmd.Flags().BoolVar(&finalizeDryRun, "dry-run", false, "Score and check completeness without rewriting the document")
}

func runFinalize(ctx context.Context, path string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	s, err := newSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	set, err := s.loadAnswers(path)
	if err != nil {
		return err
	}
	inst, err := s.catalog.Get(set.Instrument)
	if err != nil {
		return err
	}

	wasFinal := set.Finalized()
	res, err := s.engine.Finalize(inst, set)
	if err != nil {
		if errors.Is(err, answers.ErrIncomplete) {
			return fmt.Errorf("%s: %w", path, err)
		}
		return err
	}

	if !wasFinal && !finalizeDryRun {
		data, err := set.Marshal()
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("error writing %s: %w", path, err)
		}
		s.logger.Info("answer set finalized", zap.String("file", path), zap.String("id", set.ID.String()))
	}

	report := &output.Report{
		StartTime: time.Now(),
		Entries: []output.Entry{{
			Source:  path,
			Subject: set.Subject,
			Status:  string(set.Status),
			Result:  res,
		}},
	}
	return outputters.NewOutputter(s.cfg).Format(report, "")
}

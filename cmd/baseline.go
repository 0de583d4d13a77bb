package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/baseline"
)

var (
	createBaseline bool
	baselinePath   string
)

var baselineCmd = &cobra.Command{
	Use:   "baseline [answers.yaml|dir]...",
	Short: "Detect drift in the scores of finalized answer sets",
	Long: `Record or check fingerprints of finalized scored results.

With --create the finalized documents are scored and their fingerprints
written to the baseline file. Without it the documents are rescored and any
result whose fingerprint differs from the baseline is reported as drifted,
for example after a norm table changed. Drafts are skipped.

The command exits 1 when a result drifted or disappeared.`,
	Args: cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		clean, err := runBaseline(cmd.Context(), args, os.Stdout)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitFunc(1)
			return
		}
		if !clean {
			exitFunc(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(baselineCmd)
	baselineCmd.Flags().BoolVar(&createBaseline, "create", false, "Write a new baseline from the current scores")
	baselineCmd.Flags().StringVar(&baselinePath, "file", ".spmto-baseline.json", "Baseline file")
}

// runBaseline reports whether the documents match the baseline.
func runBaseline(ctx context.Context, args []string, w io.Writer) (bool, error) {
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

	var entries []baseline.Entry
	for _, path := range files {
		set, err := s.loadAnswers(path)
		if err != nil {
			return false, err
		}
		if !set.Finalized() {
			continue
		}
		// Bypasses the result cache: a cached result would hide drift.
		inst, err := s.catalog.Get(set.Instrument)
		if err != nil {
			return false, fmt.Errorf("%s: %w", path, err)
		}
		res, err := s.engine.Score(inst, set)
		if err != nil {
			return false, fmt.Errorf("%s: %w", path, err)
		}
		entries = append(entries, baseline.Entry{Key: filepath.ToSlash(path), Result: res})
	}

	if createBaseline {
		b, err := baseline.CreateBaseline(entries)
		if err != nil {
			return false, err
		}
		if err := b.SaveBaseline(baselinePath); err != nil {
			return false, err
		}
		if !s.cfg.Quiet {
			fmt.Fprintf(w, "Baseline written to %s (%d results)\n", baselinePath, len(entries))
		}
		return true, nil
	}

	b, err := baseline.LoadBaseline(baselinePath)
	if err != nil {
		return false, err
	}
	rep, err := b.Compare(entries)
	if err != nil {
		return false, err
	}

	for _, key := range rep.Drifted {
		fmt.Fprintf(w, "%s %s: score drifted\n", errorMark, key)
	}
	for _, key := range rep.Missing {
		fmt.Fprintf(w, "%s %s: missing\n", errorMark, key)
	}
	if verbose {
		for _, key := range rep.New {
			fmt.Fprintf(w, "%s %s: not in baseline\n", warningMark, key)
		}
	}
	if !s.cfg.Quiet {
		fmt.Fprintf(w, "%d unchanged, %d drifted, %d missing, %d new\n",
			rep.Unchanged, len(rep.Drifted), len(rep.Missing), len(rep.New))
	}
	return rep.Clean(), nil
}

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/scoring"
	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/types"
)

var compareCmd = &cobra.Command{
	Use:   "compare <pre.answers.yaml> <post.answers.yaml>",
	Short: "Compare two COPM administrations",
	Long: `Score two COPM answer documents and report the change in mean
performance and satisfaction (post minus pre). A change of 2 points or more
is clinically significant. Both documents must use the same COPM instrument.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runCompare(cmd.Context(), args[0], args[1], os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitFunc(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(compareCmd)
}

// copmComparison is the JSON shape of a compare run.
type copmComparison struct {
	Pre    *scoring.COPMResult `json:"pre"`
	Post   *scoring.COPMResult `json:"post"`
	Change scoring.COPMChange  `json:"change"`
}

func runCompare(ctx context.Context, prePath, postPath string, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	s, err := newSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	pre, err := s.scoreCOPM(prePath)
	if err != nil {
		return err
	}
	post, err := s.scoreCOPM(postPath)
	if err != nil {
		return err
	}
	if pre.Instrument != post.Instrument {
		return fmt.Errorf("cannot compare %s (%s) with %s (%s): instruments differ",
			prePath, pre.Instrument, postPath, post.Instrument)
	}
	cmp := copmComparison{Pre: pre.COPM, Post: post.COPM, Change: scoring.CompareCOPM(pre.COPM, post.COPM)}

	if s.cfg.Format == "json" {
		data, err := json.MarshalIndent(cmp, "", "  ")
		if err != nil {
			return fmt.Errorf("error marshaling JSON: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	t := newTable("", "Pre", "Post", "Change", "Significant")
	t.Row("Performance",
		fmt.Sprintf("%.1f", cmp.Pre.PerformanceMean),
		fmt.Sprintf("%.1f", cmp.Post.PerformanceMean),
		fmt.Sprintf("%+.1f", cmp.Change.PerformanceChange),
		yesNo(cmp.Change.PerformanceSignificant))
	t.Row("Satisfaction",
		fmt.Sprintf("%.1f", cmp.Pre.SatisfactionMean),
		fmt.Sprintf("%.1f", cmp.Post.SatisfactionMean),
		fmt.Sprintf("%+.1f", cmp.Change.SatisfactionChange),
		yesNo(cmp.Change.SatisfactionSignificant))
	_, err = fmt.Fprintln(w, t.String())
	return err
}

// scoreCOPM scores a COPM answer document; other families are rejected.
func (s *session) scoreCOPM(path string) (*scoring.ScoredResult, error) {
	set, err := s.loadAnswers(path)
	if err != nil {
		return nil, err
	}
	_, res, err := s.score(set)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if res.Family != types.FamilyCOPM || res.COPM == nil {
		return nil, fmt.Errorf("%s: %s is not a COPM instrument", path, res.Instrument)
	}
	return res, nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

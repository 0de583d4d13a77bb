package scoring

import (
	"errors"
	"strings"
	"testing"

	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/answers"
	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/instrument"
	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/types"
)

func domainScore(t *testing.T, res *ScoredResult, code string) DomainScore {
	t.Helper()
	if res.SPM == nil {
		t.Fatalf("result has no SPM variant: %+v", res)
	}
	for _, d := range res.SPM.Domains {
		if d.Code == code {
			return d
		}
	}
	t.Fatalf("domain %s missing from result", code)
	return DomainScore{}
}

func TestSPMScorer_NormalPolarity(t *testing.T) {
	inst := spmFixture()
	set := answers.New(inst.Code)
	fill(t, set, 1, 10, types.TokenSempre)
	fill(t, set, 11, 18, types.TokenNunca)

	res, err := NewSPMScorer().Score(inst, set)
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}

	soc := domainScore(t, res, "SOC")
	if soc.Raw != 10 {
		t.Errorf("SOC raw = %d, want 10", soc.Raw)
	}
	if soc.Classification != types.ClassTypical {
		t.Errorf("SOC classification = %q, want %q", soc.Classification, types.ClassTypical)
	}
	if soc.TScore == nil || *soc.TScore != 45 {
		t.Errorf("SOC t_score = %v, want 45", soc.TScore)
	}
	if res.Partial {
		t.Error("Score() partial = true, want false for a complete set")
	}
}

func TestSPMScorer_InvertedPolarity(t *testing.T) {
	inst := spmFixture()
	set := answers.New(inst.Code)
	fill(t, set, 1, 10, types.TokenSempre)
	fill(t, set, 11, 15, types.TokenNunca)
	fill(t, set, 16, 18, types.TokenSempre)

	res, err := NewSPMScorer().Score(inst, set)
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}

	vis := domainScore(t, res, "VIS")
	if vis.Raw != 17 {
		t.Errorf("VIS raw = %d, want 17", vis.Raw)
	}
	if vis.Classification != types.ClassProbableDysfunc {
		t.Errorf("VIS classification = %q, want %q", vis.Classification, types.ClassProbableDysfunc)
	}
	if res.SPM.Total.Raw != 27 {
		t.Errorf("total raw = %d, want 27", res.SPM.Total.Raw)
	}
	if res.SPM.Total.Classification != types.ClassTypical {
		t.Errorf("total classification = %q, want %q", res.SPM.Total.Classification, types.ClassTypical)
	}
}

func TestSPMScorer_PartialSet(t *testing.T) {
	inst := spmFixture()
	set := answers.New(inst.Code)
	fill(t, set, 1, 9, types.TokenSempre)
	fill(t, set, 11, 18, types.TokenNunca)

	res, err := NewSPMScorer().Score(inst, set)
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if !res.Partial {
		t.Error("Score() partial = false, want true with item 10 unanswered")
	}
	if got := domainScore(t, res, "SOC").Raw; got != 9 {
		t.Errorf("SOC raw = %d, want 9 (unanswered item contributes 0)", got)
	}
	vis := domainScore(t, res, "VIS")
	if vis.Raw != 8 || vis.Classification != types.ClassTypical {
		t.Errorf("VIS = %+v, want raw 8 classified TIPICO", vis)
	}
	if len(res.SPM.Domains) != 2 {
		t.Errorf("len(Domains) = %d, want 2", len(res.SPM.Domains))
	}
}

func TestSPMScorer_NotApplicable(t *testing.T) {
	inst := spmFixture()
	set := answers.New(inst.Code)
	fill(t, set, 1, 10, types.TokenSempre)
	fill(t, set, 11, 17, types.TokenSempre)
	if err := set.SetNotApplicable(18); err != nil {
		t.Fatal(err)
	}

	res, err := NewSPMScorer().Score(inst, set)
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if got := domainScore(t, res, "VIS").Raw; got != 28 {
		t.Errorf("VIS raw = %d, want 28", got)
	}
	if !res.Partial {
		t.Error("Score() partial = false, want true when an item is not applicable")
	}
}

func TestSPMScorer_OutOfRangeIsNoted(t *testing.T) {
	inst := spmFixture()
	set := answers.New(inst.Code)

	res, err := NewSPMScorer().Score(inst, set)
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	soc := domainScore(t, res, "SOC")
	if soc.Raw != 0 || soc.TScore != nil || soc.Classification != "" {
		t.Errorf("SOC = %+v, want unclassified raw 0", soc)
	}
	found := false
	for _, n := range res.Notes {
		if strings.Contains(n, "SOC") && strings.Contains(n, "outside the norm table") {
			found = true
		}
	}
	if !found {
		t.Errorf("Notes = %v, want an out-of-range note for SOC", res.Notes)
	}
}

func TestSPMScorer_UnknownTokenIsNoted(t *testing.T) {
	inst := spmFixture()
	set := answers.New(inst.Code)
	fill(t, set, 1, 10, types.TokenNunca)
	fill(t, set, 11, 18, types.TokenSempre)
	if err := set.Set(3, "TALVEZ"); err != nil {
		t.Fatal(err)
	}
	if err := set.Set(99, types.TokenSempre); err != nil {
		t.Fatal(err)
	}

	res, err := NewSPMScorer().Score(inst, set)
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if got := domainScore(t, res, "SOC").Raw; got != 36 {
		t.Errorf("SOC raw = %d, want 36", got)
	}
	if !res.Partial {
		t.Error("an unrecognised token leaves the item unanswered, so the result is partial")
	}
	if len(res.Notes) != 2 {
		t.Errorf("Notes = %v, want one note for the token and one for item 99", res.Notes)
	}
}

func TestSPMScorer_Overlap(t *testing.T) {
	inst := spmFixture()
	inst.Norms = append(inst.Norms, norm("SOC", 10, 12, 40, types.ClassTypical))
	set := answers.New(inst.Code)
	fill(t, set, 1, 18, types.TokenSempre)

	res, err := NewSPMScorer().Score(inst, set)
	if !errors.Is(err, instrument.ErrNormTableOverlap) {
		t.Fatalf("Score() error = %v, want ErrNormTableOverlap", err)
	}
	if res != nil {
		t.Errorf("Score() returned a result alongside an error: %+v", res)
	}
}

func TestSPMScorer_Monotonic(t *testing.T) {
	inst := spmFixture()
	base := answers.New(inst.Code)
	fill(t, base, 1, 18, types.TokenFrequente)

	before, err := NewSPMScorer().Score(inst, base)
	if err != nil {
		t.Fatal(err)
	}

	// NUNCA scores higher than FREQUENTE on a normal-polarity item and lower
	// on an inverted one.
	tests := []struct {
		name string
		item int
		code string
		want int
	}{
		{"normal domain rises", 4, "SOC", 2},
		{"inverted domain falls", 12, "VIS", -2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := answers.New(inst.Code)
			fill(t, set, 1, 18, types.TokenFrequente)
			if err := set.Set(tt.item, types.TokenNunca); err != nil {
				t.Fatal(err)
			}
			after, err := NewSPMScorer().Score(inst, set)
			if err != nil {
				t.Fatal(err)
			}
			delta := domainScore(t, after, tt.code).Raw - domainScore(t, before, tt.code).Raw
			if delta != tt.want {
				t.Errorf("raw delta = %d, want %d", delta, tt.want)
			}
		})
	}
}

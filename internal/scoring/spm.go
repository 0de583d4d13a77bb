package scoring

import (
	"fmt"

	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/answers"
	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/instrument"
)

// SPMScorer scores SPM and SPM-P: polarity-aware domain sums resolved
// against the instrument's norm table, plus the normed total.
type SPMScorer struct{}

// NewSPMScorer creates a new SPMScorer
func NewSPMScorer() *SPMScorer {
	return &SPMScorer{}
}

// Score evaluates an answer set and returns the SPM variant.
func (s *SPMScorer) Score(inst *instrument.Instrument, set *answers.AnswerSet) (*ScoredResult, error) {
	agg := AggregateDomains(inst, set)
	notes := agg.Notes
	spm := &SPMResult{Domains: make([]DomainScore, 0, len(agg.Domains))}

	for _, t := range agg.Domains {
		normed, err := ResolveNorm(inst, t.Code, t.Raw)
		if err != nil {
			return nil, err
		}
		notes = appendOutOfRange(notes, inst, t.Code, normed)
		spm.Domains = append(spm.Domains, DomainScore{Code: t.Code, Name: t.Name, NormedScore: normed})
	}

	total, err := ResolveNorm(inst, instrument.TotalDomain, agg.TotalRaw)
	if err != nil {
		return nil, err
	}
	spm.Total = total
	notes = appendOutOfRange(notes, inst, instrument.TotalDomain, total)

	res := newResult(inst, set, agg.Partial, notes)
	res.SPM = spm
	return res, nil
}

// appendOutOfRange notes a raw score that a domain's norm table does not cover.
func appendOutOfRange(notes []string, inst *instrument.Instrument, code string, normed NormedScore) []string {
	unclassified := normed.TScore == nil && normed.Percentile == nil && normed.Classification == ""
	if unclassified && inst.HasNorms(code) {
		notes = append(notes, fmt.Sprintf("%s: raw score %d is outside the norm table", code, normed.Raw))
	}
	return notes
}

func newResult(inst *instrument.Instrument, set *answers.AnswerSet, partial bool, notes []string) *ScoredResult {
	return &ScoredResult{
		Instrument: inst.Code,
		Version:    inst.Version,
		Family:     inst.Family,
		AnswerSet:  set.ID.String(),
		Partial:    partial,
		Notes:      notes,
	}
}

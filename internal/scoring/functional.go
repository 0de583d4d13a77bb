package scoring

import (
	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/answers"
	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/instrument"
)

// FunctionalScorer scores the percent-of-maximum families (PEDI, COG, AVD).
// The family only changes the label table.
type FunctionalScorer struct{}

// NewFunctionalScorer creates a new FunctionalScorer
func NewFunctionalScorer() *FunctionalScorer {
	return &FunctionalScorer{}
}

// Score evaluates an answer set and returns the functional variant.
func (s *FunctionalScorer) Score(inst *instrument.Instrument, set *answers.AnswerSet) (*ScoredResult, error) {
	agg := AggregateDomains(inst, set)
	bands := bandsFor(inst)
	fr := &FunctionalResult{Domains: make([]PercentScore, 0, len(agg.Domains))}

	totalRaw, totalMax := 0, 0
	for _, t := range agg.Domains {
		fr.Domains = append(fr.Domains, percentScore(bands, t.Code, t.Raw, t.MaxPossible()))
		totalRaw += t.Raw
		totalMax += t.MaxPossible()
	}
	fr.Total = percentScore(bands, instrument.TotalDomain, totalRaw, totalMax)

	res := newResult(inst, set, agg.Partial, agg.Notes)
	res.Functional = fr
	return res, nil
}

// percentScore labels the reported (rounded) percent so a report never shows
// a value on one side of a cut-off and a label from the other. A zero
// maximum leaves the score unlabelled.
func percentScore(bands instrument.BandTable, code string, raw, maxRaw int) PercentScore {
	ps := PercentScore{Code: code, Raw: raw, Max: maxRaw}
	if maxRaw == 0 {
		return ps
	}
	ps.Percent = round1(percentOf(raw, maxRaw))
	ps.Label = bands.Resolve(ps.Percent)
	return ps
}

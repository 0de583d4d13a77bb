package scoring

import (
	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/answers"
	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/instrument"
	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/types"
)

// GMFMScorer scores the five gross-motor dimensions A..E.
type GMFMScorer struct{}

// NewGMFMScorer creates a new GMFMScorer
func NewGMFMScorer() *GMFMScorer {
	return &GMFMScorer{}
}

// Score evaluates an answer set and returns the GMFM variant. The total is
// the mean of the five dimension percentages, not of the items.
func (s *GMFMScorer) Score(inst *instrument.Instrument, set *answers.AnswerSet) (*ScoredResult, error) {
	agg := AggregateDomains(inst, set)

	tallies := make(map[string]DomainTally, len(agg.Domains))
	for _, t := range agg.Domains {
		tallies[t.Code] = t
	}

	gr := &GMFMResult{Dimensions: make([]PercentScore, 0, len(types.GMFMDimensions))}
	sum := 0.0
	for _, code := range types.GMFMDimensions {
		t, ok := tallies[code]
		if !ok {
			return nil, &instrument.ReferenceError{
				Kind:       instrument.ErrInconsistentItemPartition,
				Instrument: inst.Code,
				Subject:    code,
				Detail:     "GMFM dimension " + code + " is not an active domain",
			}
		}
		pct := percentOf(t.Raw, t.MaxPossible())
		sum += pct
		gr.Dimensions = append(gr.Dimensions, PercentScore{
			Code:    code,
			Raw:     t.Raw,
			Max:     t.MaxPossible(),
			Percent: round1(pct),
		})
	}
	gr.TotalPercent = round1(sum / float64(len(types.GMFMDimensions)))
	gr.Interpretation = bandsFor(inst).Resolve(gr.TotalPercent)

	res := newResult(inst, set, agg.Partial, agg.Notes)
	res.GMFM = gr
	return res, nil
}

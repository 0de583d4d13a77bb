package scoring

import (
	"strconv"

	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/answers"
	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/instrument"
	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/types"
)

// FIMScorer splits FIM and WeeFIM items into motor and cognitive subtotals.
type FIMScorer struct{}

// NewFIMScorer creates a new FIMScorer
func NewFIMScorer() *FIMScorer {
	return &FIMScorer{}
}

// Score evaluates an answer set and returns the FIM variant. Every active
// item must carry a MOTOR or COGNITIVE category.
func (s *FIMScorer) Score(inst *instrument.Instrument, set *answers.AnswerSet) (*ScoredResult, error) {
	agg := AggregateDomains(inst, set)
	bands := bandsFor(inst)

	var motor, cognitive SubtotalScore
	for _, it := range inst.ActiveItems() {
		var sub *SubtotalScore
		switch it.Meta(types.MetaCategory) {
		case types.CategoryMotor:
			sub = &motor
		case types.CategoryCognitive:
			sub = &cognitive
		default:
			return nil, &instrument.ReferenceError{
				Kind:       instrument.ErrInconsistentItemPartition,
				Instrument: inst.Code,
				Subject:    "item " + strconv.Itoa(it.GlobalNumber),
				Detail:     "item has no MOTOR or COGNITIVE category",
			}
		}
		c, ok := agg.Points(it.GlobalNumber)
		if ok && c.Excluded {
			continue
		}
		sub.Max += it.ResponseType.MaxPoints()
		if ok {
			sub.Raw += c.Points
		}
	}

	total := SubtotalScore{Raw: motor.Raw + cognitive.Raw, Max: motor.Max + cognitive.Max}
	for _, sub := range []*SubtotalScore{&motor, &cognitive, &total} {
		sub.Label = fimLabel(bands, sub.Raw, sub.Max)
	}

	res := newResult(inst, set, agg.Partial, agg.Notes)
	res.FIM = &FIMResult{Motor: motor, Cognitive: cognitive, Total: total}
	return res, nil
}

// fimLabel resolves on the unrounded percentage so that only raw == max
// reaches the 100 band.
func fimLabel(bands instrument.BandTable, raw, maxRaw int) string {
	if maxRaw == 0 {
		return ""
	}
	return bands.Resolve(percentOf(raw, maxRaw))
}

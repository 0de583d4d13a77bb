package scoring

import (
	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/answers"
	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/instrument"
)

// ABCScorer averages balance-confidence percentages.
type ABCScorer struct{}

// NewABCScorer creates a new ABCScorer
func NewABCScorer() *ABCScorer {
	return &ABCScorer{}
}

// Score evaluates an answer set and returns the ABC variant. The mean is
// taken over answered items; unrecognised tokens are left out like missing
// answers.
func (s *ABCScorer) Score(inst *instrument.Instrument, set *answers.AnswerSet) (*ScoredResult, error) {
	agg := AggregateDomains(inst, set)

	answered, sum := 0, 0
	for _, t := range agg.Domains {
		answered += t.Answered
		sum += t.Raw
	}

	ar := &ABCResult{ItemsAnswered: answered}
	if answered > 0 {
		ar.TotalPercent = round1(float64(sum) / float64(answered))
		ar.FallRiskLabel = bandsFor(inst).Resolve(ar.TotalPercent)
	}

	res := newResult(inst, set, agg.Partial, agg.Notes)
	res.ABC = ar
	return res, nil
}

package scoring

import (
	"math"
	"sort"

	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/answers"
	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/instrument"
	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/types"
)

// SignificantChange is the smallest COPM mean change treated as clinically significant.
const SignificantChange = 2.0

// COPMScorer pairs performance and satisfaction ratings per problem.
type COPMScorer struct{}

// NewCOPMScorer creates a new COPMScorer
func NewCOPMScorer() *COPMScorer {
	return &COPMScorer{}
}

type copmPair struct {
	perf, sat       int
	hasPerf, hasSat bool
}

// Score evaluates an answer set and returns the COPM variant. Only problems
// carrying both ratings enter the means.
func (s *COPMScorer) Score(inst *instrument.Instrument, set *answers.AnswerSet) (*ScoredResult, error) {
	agg := AggregateDomains(inst, set)

	pairs := make(map[int]*copmPair)
	for _, it := range inst.ActiveItems() {
		c, ok := agg.Points(it.GlobalNumber)
		if !ok || c.Excluded || !c.Recognized {
			continue
		}
		idx := problemIndex(it)
		p := pairs[idx]
		if p == nil {
			p = &copmPair{}
			pairs[idx] = p
		}
		switch it.Meta(types.MetaDimension) {
		case types.DimensionPerformance:
			p.perf, p.hasPerf = c.Points, true
		case types.DimensionSatisfaction:
			p.sat, p.hasSat = c.Points, true
		}
	}

	indexes := make([]int, 0, len(pairs))
	for idx := range pairs {
		indexes = append(indexes, idx)
	}
	sort.Ints(indexes)

	cr := &COPMResult{Problems: []COPMProblem{}}
	perfSum, satSum := 0, 0
	for _, idx := range indexes {
		p := pairs[idx]
		if !p.hasPerf || !p.hasSat {
			continue
		}
		cr.Problems = append(cr.Problems, COPMProblem{Index: idx, Performance: p.perf, Satisfaction: p.sat})
		perfSum += p.perf
		satSum += p.sat
	}
	if n := len(cr.Problems); n > 0 {
		cr.PerformanceMean = round1(float64(perfSum) / float64(n))
		cr.SatisfactionMean = round1(float64(satSum) / float64(n))
	}

	res := newResult(inst, set, agg.Partial, agg.Notes)
	res.COPM = cr
	return res, nil
}

// CompareCOPM computes post minus pre for both means and flags each change
// whose magnitude reaches SignificantChange.
func CompareCOPM(pre, post *COPMResult) COPMChange {
	perf := round1(post.PerformanceMean - pre.PerformanceMean)
	sat := round1(post.SatisfactionMean - pre.SatisfactionMean)
	return COPMChange{
		PerformanceChange:       perf,
		SatisfactionChange:      sat,
		PerformanceSignificant:  math.Abs(perf) >= SignificantChange,
		SatisfactionSignificant: math.Abs(sat) >= SignificantChange,
	}
}

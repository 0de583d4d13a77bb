package scoring

import (
	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/answers"
	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/instrument"
	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/types"
)

// ScoredResult is a tagged union over instrument families: exactly one of the
// family pointers is set, matching Family.
type ScoredResult struct {
	Instrument string       `json:"instrument"`
	Version    string       `json:"version,omitempty"`
	Family     types.Family `json:"family"`
	AnswerSet  string       `json:"answer_set,omitempty"`
	Partial    bool         `json:"partial"`
	Notes      []string     `json:"notes,omitempty"` // tolerated input problems

	SPM            *SPMResult            `json:"spm,omitempty"`
	SensoryProfile *SensoryProfileResult `json:"sensory_profile,omitempty"`
	Functional     *FunctionalResult     `json:"functional,omitempty"` // PEDI, COG, AVD
	COPM           *COPMResult           `json:"copm,omitempty"`
	ABC            *ABCResult            `json:"abc,omitempty"`
	FIM            *FIMResult            `json:"fim,omitempty"` // FIM and WeeFIM
	GMFM           *GMFMResult           `json:"gmfm,omitempty"`
}

// SPMResult is the SPM / SPM-P variant.
type SPMResult struct {
	Domains []DomainScore `json:"domains"`
	Total   NormedScore   `json:"total"`
}

// DomainScore is one domain's raw score and, when its norm table covers the
// raw score, the normed values.
type DomainScore struct {
	Code string `json:"code"`
	Name string `json:"name,omitempty"`
	NormedScore
}

// NormedScore pairs a raw score with its norm-table lookup. The optional
// fields stay nil when the raw score is outside the table.
type NormedScore struct {
	Raw            int                    `json:"raw"`
	TScore         *int                   `json:"t_score,omitempty"`
	Percentile     *instrument.Percentile `json:"percentile,omitempty"`
	Classification types.Classification   `json:"classification,omitempty"`
}

// SensoryProfileResult is the Sensory Profile variant.
type SensoryProfileResult struct {
	Variant            string          `json:"variant,omitempty"`
	Sections           []SectionScore  `json:"sections"`
	Quadrants          []QuadrantScore `json:"quadrants"`
	InterpretationTags []string        `json:"interpretation_tags"`
}

// SectionScore is one sensory channel.
type SectionScore struct {
	Name  string             `json:"name"`
	Raw   int                `json:"raw"`
	Level types.PatternLevel `json:"level,omitempty"`
}

// QuadrantScore is one processing pattern.
type QuadrantScore struct {
	Name  string             `json:"name"`
	Raw   int                `json:"raw"`
	Max   int                `json:"max"`
	Level types.PatternLevel `json:"level,omitempty"`
}

// FunctionalResult is the PEDI / COG / AVD variant.
type FunctionalResult struct {
	Domains []PercentScore `json:"domains"`
	Total   PercentScore   `json:"total"`
}

// PercentScore expresses a raw score as a percentage of its maximum.
type PercentScore struct {
	Code    string  `json:"code,omitempty"`
	Raw     int     `json:"raw"`
	Max     int     `json:"max"`
	Percent float64 `json:"percent"`
	Label   string  `json:"label,omitempty"`
}

// COPMResult is the COPM variant.
type COPMResult struct {
	Problems         []COPMProblem `json:"problems"`
	PerformanceMean  float64       `json:"performance_mean"`
	SatisfactionMean float64       `json:"satisfaction_mean"`
}

// COPMProblem is one client-identified problem.
type COPMProblem struct {
	Index        int `json:"index"`
	Performance  int `json:"performance"`
	Satisfaction int `json:"satisfaction"`
}

// COPMChange compares two COPM administrations.
type COPMChange struct {
	PerformanceChange       float64 `json:"performance_change"`
	SatisfactionChange      float64 `json:"satisfaction_change"`
	PerformanceSignificant  bool    `json:"performance_clinically_significant"`
	SatisfactionSignificant bool    `json:"satisfaction_clinically_significant"`
}

// ABCResult is the ABC variant.
type ABCResult struct {
	ItemsAnswered int     `json:"items_answered"`
	TotalPercent  float64 `json:"total_percent"`
	FallRiskLabel string  `json:"fall_risk_label,omitempty"`
}

// FIMResult is the FIM / WeeFIM variant.
type FIMResult struct {
	Motor     SubtotalScore `json:"motor"`
	Cognitive SubtotalScore `json:"cognitive"`
	Total     SubtotalScore `json:"total"`
}

// SubtotalScore is a labelled partial sum.
type SubtotalScore struct {
	Raw   int    `json:"raw"`
	Max   int    `json:"max"`
	Label string `json:"label,omitempty"`
}

// GMFMResult is the GMFM variant.
type GMFMResult struct {
	Dimensions     []PercentScore `json:"dimensions"`
	TotalPercent   float64        `json:"total_percent"`
	Interpretation string         `json:"interpretation,omitempty"`
}

// Scorer is the interface for family scorers
type Scorer interface {
	Score(inst *instrument.Instrument, set *answers.AnswerSet) (*ScoredResult, error)
}

package scoring

import (
	"errors"
	"fmt"

	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/answers"
	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/instrument"
	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/interpret"
	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/types"
)

// ErrInstrumentMismatch is returned when an answer set names a different
// instrument than the one it is scored against.
var ErrInstrumentMismatch = errors.New("answer set belongs to a different instrument")

// Engine dispatches an answer set to the scorer of its instrument's family.
// It holds no mutable state; one Engine may score concurrently.
type Engine struct {
	scorers map[types.Family]Scorer
}

// Option configures an Engine.
type Option func(*Engine)

// WithRules replaces the Sensory Profile interpretation rules.
func WithRules(rules *interpret.RuleSet) Option {
	return func(e *Engine) {
		e.scorers[types.FamilySensoryProfile] = NewSensoryProfileScorer(rules)
	}
}

// WithScorer registers or overrides the scorer for a family.
func WithScorer(family types.Family, s Scorer) Option {
	return func(e *Engine) {
		e.scorers[family] = s
	}
}

// NewEngine creates an Engine with a scorer for every known family.
func NewEngine(opts ...Option) *Engine {
	spm := NewSPMScorer()
	functional := NewFunctionalScorer()
	fim := NewFIMScorer()
	e := &Engine{scorers: map[types.Family]Scorer{
		types.FamilySPM:            spm,
		types.FamilySPMP:           spm,
		types.FamilySensoryProfile: NewSensoryProfileScorer(nil),
		types.FamilyPEDI:           functional,
		types.FamilyCOG:            functional,
		types.FamilyAVD:            functional,
		types.FamilyCOPM:           NewCOPMScorer(),
		types.FamilyABC:            NewABCScorer(),
		types.FamilyFIM:            fim,
		types.FamilyWeeFIM:         fim,
		types.FamilyGMFM:           NewGMFMScorer(),
	}}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Score computes the family-specific result for an answer set. It never
// mutates the instrument or the answer set.
func (e *Engine) Score(inst *instrument.Instrument, set *answers.AnswerSet) (*ScoredResult, error) {
	if set.Instrument != "" && set.Instrument != inst.Code {
		return nil, fmt.Errorf("%w: %s scored against %s", ErrInstrumentMismatch, set.Instrument, inst.Code)
	}
	s, ok := e.scorers[inst.Family]
	if !ok {
		return nil, &instrument.ReferenceError{
			Kind:       instrument.ErrUnknownInstrumentFamily,
			Instrument: inst.Code,
			Detail:     fmt.Sprintf("no scorer for family %q", inst.Family),
		}
	}
	return s.Score(inst, set)
}

// Finalize scores a complete answer set and marks it finalized. An
// incomplete set fails with answers.ErrIncomplete and stays a draft.
// Finalizing an already finalized set rescores it without changing its
// timestamp.
func (e *Engine) Finalize(inst *instrument.Instrument, set *answers.AnswerSet) (*ScoredResult, error) {
	res, err := e.Score(inst, set)
	if err != nil {
		return nil, err
	}
	if err := set.Finalize(!res.Partial); err != nil {
		return nil, err
	}
	return res, nil
}

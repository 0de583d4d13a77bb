package scoring

import (
	"fmt"

	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/answers"
	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/instrument"
	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/interpret"
	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/types"
)

// SensoryProfileScorer computes section and quadrant sums and resolves each
// against the variant's pattern table.
type SensoryProfileScorer struct {
	rules *interpret.RuleSet
}

// NewSensoryProfileScorer creates a scorer; nil rules means the built-in set.
func NewSensoryProfileScorer(rules *interpret.RuleSet) *SensoryProfileScorer {
	if rules == nil {
		rules = interpret.Default()
	}
	return &SensoryProfileScorer{rules: rules}
}

// Score evaluates an answer set and returns the Sensory Profile variant.
func (s *SensoryProfileScorer) Score(inst *instrument.Instrument, set *answers.AnswerSet) (*ScoredResult, error) {
	if inst.Patterns == nil {
		return nil, &instrument.ReferenceError{
			Kind:       instrument.ErrMissingPatternTable,
			Instrument: inst.Code,
			Detail:     "sensory profile instrument ships no pattern table",
		}
	}
	if err := instrument.CheckQuadrantPartition(inst); err != nil {
		return nil, err
	}

	agg := AggregateDomains(inst, set)
	notes := agg.Notes
	items := inst.ItemIndex()
	sp := &SensoryProfileResult{
		Variant:   inst.Patterns.Variant,
		Sections:  make([]SectionScore, 0, len(inst.Patterns.Sections)),
		Quadrants: make([]QuadrantScore, 0, 4),
	}

	for _, sec := range inst.Patterns.Sections {
		raw := 0
		for n := sec.From; n <= sec.To; n++ {
			if _, ok := items[n]; !ok {
				continue
			}
			if c, ok := agg.Points(n); ok && !c.Excluded {
				raw += c.Points
			}
		}
		level, err := resolvePattern(inst, sec.Name, raw)
		if err != nil {
			return nil, err
		}
		if level == "" {
			notes = append(notes, fmt.Sprintf("section %s: sum %d is outside the pattern table", sec.Name, raw))
		}
		sp.Sections = append(sp.Sections, SectionScore{Name: sec.Name, Raw: raw, Level: level})
	}

	inputs := make([]interpret.Quadrant, 0, 4)
	for _, q := range inst.QuadrantSets() {
		raw, maxRaw := 0, 0
		for _, n := range q.Items {
			c, ok := agg.Points(n)
			if ok && c.Excluded {
				continue
			}
			maxRaw += items[n].ResponseType.MaxPoints()
			if ok {
				raw += c.Points
			}
		}
		level, err := resolvePattern(inst, q.Name, raw)
		if err != nil {
			return nil, err
		}
		if level == "" {
			notes = append(notes, fmt.Sprintf("quadrant %s: sum %d is outside the pattern table", q.Name, raw))
		}
		sp.Quadrants = append(sp.Quadrants, QuadrantScore{Name: q.Name, Raw: raw, Max: maxRaw, Level: level})
		inputs = append(inputs, interpret.Quadrant{
			Name:    q.Name,
			Pattern: patternName(q.Name),
			Level:   string(level),
			Raw:     raw,
			Max:     maxRaw,
		})
	}
	sp.InterpretationTags = s.rules.Tags(inputs)

	res := newResult(inst, set, agg.Partial, notes)
	res.SensoryProfile = sp
	return res, nil
}

// resolvePattern returns the level whose sum interval contains sum, "" when
// none does. A name without rows fails with ErrMissingPatternTable; two
// matching rows fail with ErrNormTableOverlap.
func resolvePattern(inst *instrument.Instrument, name string, sum int) (types.PatternLevel, error) {
	rows := inst.Patterns.RowsFor(name)
	if len(rows) == 0 {
		return "", &instrument.ReferenceError{
			Kind:       instrument.ErrMissingPatternTable,
			Instrument: inst.Code,
			Subject:    name,
			Detail:     "no pattern rows for " + name,
		}
	}

	var level types.PatternLevel
	matched := false
	for _, r := range rows {
		if !r.Contains(sum) {
			continue
		}
		if matched {
			return "", &instrument.ReferenceError{
				Kind:       instrument.ErrNormTableOverlap,
				Instrument: inst.Code,
				Subject:    name,
				Detail:     fmt.Sprintf("sum %d matches more than one pattern row", sum),
			}
		}
		matched = true
		level = r.Level
	}
	return level, nil
}

func patternName(quadrant string) string {
	if p, ok := types.QuadrantPattern[quadrant]; ok {
		return p
	}
	return quadrant
}

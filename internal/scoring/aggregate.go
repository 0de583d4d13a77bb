package scoring

import (
	"fmt"
	"strconv"

	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/answers"
	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/instrument"
	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/types"
)

// DomainTally is the Domain Aggregator's output for one domain.
type DomainTally struct {
	Code          string
	Name          string
	Raw           int
	Items         int // active items
	Answered      int // answered and not excluded
	NotApplicable int
	Missing       int
	MaxPerItem    int
}

// Applicable is the item count left after "not applicable" exclusions; it is
// the denominator family scorers use.
func (t DomainTally) Applicable() int { return t.Items - t.NotApplicable }

// MaxPossible is the highest raw score the applicable items can reach.
func (t DomainTally) MaxPossible() int { return t.Applicable() * t.MaxPerItem }

// Aggregate is the per-instrument output of the Domain Aggregator.
type Aggregate struct {
	Domains  []DomainTally
	TotalRaw int
	Partial  bool
	Notes    []string
	points   map[int]Coded // coded answers keyed by global item number
}

// Points returns the coded value for an answered item.
func (a *Aggregate) Points(item int) (Coded, bool) {
	c, ok := a.points[item]
	return c, ok
}

// AggregateDomains codes every answer and sums each active domain, applying
// the domain's polarity uniformly to its items. Missing answers contribute
// zero; "not applicable" contributes zero and leaves the denominator.
func AggregateDomains(inst *instrument.Instrument, set *answers.AnswerSet) Aggregate {
	agg := Aggregate{points: make(map[int]Coded)}

	for _, d := range inst.ActiveDomains() {
		tally := DomainTally{Code: d.Code, Name: d.Name}
		for _, it := range d.ActiveItems() {
			tally.Items++
			if mp := it.ResponseType.MaxPoints(); mp > tally.MaxPerItem {
				tally.MaxPerItem = mp
			}

			tok, ok := set.Get(it.GlobalNumber)
			if !ok {
				tally.Missing++
				continue
			}
			coded := Code(tok, it.ResponseType, d.InvertedScale)
			agg.points[it.GlobalNumber] = coded
			switch {
			case coded.Excluded:
				tally.NotApplicable++
			case !coded.Recognized:
				tally.Missing++
				agg.Notes = append(agg.Notes,
					fmt.Sprintf("item %d: unrecognised %s token %q treated as unanswered", it.GlobalNumber, it.ResponseType, tok))
			default:
				tally.Answered++
				tally.Raw += coded.Points
			}
		}
		agg.TotalRaw += tally.Raw
		agg.Domains = append(agg.Domains, tally)
	}

	if unknown := set.Unknown(knownItems(inst)); len(unknown) > 0 {
		agg.Notes = append(agg.Notes, fmt.Sprintf("answers for unknown items %v ignored", unknown))
	}
	agg.Partial = !IsComplete(inst, set)
	return agg
}

func knownItems(inst *instrument.Instrument) map[int]bool {
	known := make(map[int]bool)
	for _, it := range inst.ActiveItems() {
		known[it.GlobalNumber] = true
	}
	return known
}

// IsComplete reports whether every active item of every active domain has a
// present, recognised, non-excluded answer. COPM is complete when at least one problem is
// identified and every identified problem carries both of its scores.
func IsComplete(inst *instrument.Instrument, set *answers.AnswerSet) bool {
	if inst.Family == types.FamilyCOPM {
		return copmComplete(inst, set)
	}
	for _, it := range inst.ActiveItems() {
		if !rated(set, it) {
			return false
		}
	}
	return true
}

func copmComplete(inst *instrument.Instrument, set *answers.AnswerSet) bool {
	answered := make(map[string]int) // problem -> answered dimensions
	declared := make(map[string]int)
	for _, it := range inst.ActiveItems() {
		p := it.Meta(types.MetaProblem)
		declared[p]++
		tok, ok := set.Get(it.GlobalNumber)
		if !ok {
			continue
		}
		if tok != types.TokenNotApplicable && !Code(tok, it.ResponseType, false).Recognized {
			return false
		}
		if rated(set, it) {
			answered[p]++
		}
	}
	if len(answered) == 0 {
		return false
	}
	for p, n := range answered {
		if n != declared[p] {
			return false
		}
	}
	return true
}

// rated reports whether an item carries a recognised, applicable answer.
func rated(set *answers.AnswerSet, it instrument.Item) bool {
	tok, ok := set.Get(it.GlobalNumber)
	if !ok || tok == types.TokenNotApplicable {
		return false
	}
	return Code(tok, it.ResponseType, false).Recognized
}

// problemIndex parses the COPM problem index of an item.
func problemIndex(it instrument.Item) int {
	n, _ := strconv.Atoi(it.Meta(types.MetaProblem))
	return n
}

package instrument

import (
	"sort"

	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/types"
)

// Sensory Profile variants. Each ships its own partitions and pattern table.
const (
	VariantInfant      = "Infant"
	VariantToddler     = "Toddler"
	VariantChild       = "Child"
	VariantSchool      = "School"
	VariantAbbreviated = "Abbreviated"
	VariantCaregiver   = "Caregiver"
)

// PatternSpec is the Sensory Profile companion data: the section and quadrant
// partitions over global item numbers and the percentile-band table that
// resolves their sums to a pattern level.
type PatternSpec struct {
	Variant   string         `yaml:"variant" json:"variant"`
	Sections  []SectionRange `yaml:"sections" json:"sections"`
	Quadrants []QuadrantSet  `yaml:"quadrants,omitempty" json:"quadrants,omitempty"`
	Rows      []PatternRow   `yaml:"rows" json:"rows"`
}

// SectionRange is a contiguous, inclusive range of global item numbers.
type SectionRange struct {
	Name string `yaml:"name" json:"name"`
	From int    `yaml:"from" json:"from"`
	To   int    `yaml:"to" json:"to"`
}

// Contains reports whether the global item number n falls in the section.
func (s SectionRange) Contains(n int) bool { return s.From <= n && n <= s.To }

// QuadrantSet is an explicit list of global item numbers.
type QuadrantSet struct {
	Name  string `yaml:"name" json:"name"`
	Items []int  `yaml:"items" json:"items"`
}

// PatternRow maps a closed sum interval of one section or quadrant to a level.
type PatternRow struct {
	Pattern string             `yaml:"pattern" json:"pattern"`
	Level   types.PatternLevel `yaml:"level" json:"level"`
	SumMin  int                `yaml:"sum_min" json:"sum_min"`
	SumMax  int                `yaml:"sum_max" json:"sum_max"`
}

// Contains reports whether sum falls inside [SumMin, SumMax].
func (r PatternRow) Contains(sum int) bool { return r.SumMin <= sum && sum <= r.SumMax }

// RowsFor returns the pattern rows keyed by a section or quadrant name.
func (p *PatternSpec) RowsFor(name string) []PatternRow {
	var rows []PatternRow
	for _, r := range p.Rows {
		if r.Pattern == name {
			rows = append(rows, r)
		}
	}
	return rows
}

// QuadrantSets returns the instrument's quadrant lists. Explicit lists in the
// pattern spec win; otherwise they are derived from each item's "quadrant"
// metadata tag, in canonical quadrant order.
func (inst *Instrument) QuadrantSets() []QuadrantSet {
	if inst.Patterns != nil && len(inst.Patterns.Quadrants) > 0 {
		return inst.Patterns.Quadrants
	}

	byName := make(map[string][]int)
	for _, it := range inst.ActiveItems() {
		if q := it.Meta(types.MetaQuadrant); q != "" {
			byName[q] = append(byName[q], it.GlobalNumber)
		}
	}
	if len(byName) == 0 {
		return nil
	}

	var sets []QuadrantSet
	for _, name := range types.Quadrants {
		if items, ok := byName[name]; ok {
			sets = append(sets, QuadrantSet{Name: name, Items: items})
			delete(byName, name)
		}
	}
	var rest []string
	for name := range byName {
		rest = append(rest, name)
	}
	sort.Strings(rest)
	for _, name := range rest {
		sets = append(sets, QuadrantSet{Name: name, Items: byName[name]})
	}
	return sets
}

// OrderQuadrants sorts quadrant sets into canonical quadrant order. Names
// outside the canonical set follow in their existing order.
func OrderQuadrants(sets []QuadrantSet) {
	rank := func(name string) int {
		for i, q := range types.Quadrants {
			if q == name {
				return i
			}
		}
		return len(types.Quadrants)
	}
	sort.SliceStable(sets, func(i, j int) bool {
		return rank(sets[i].Name) < rank(sets[j].Name)
	})
}

// Package instrument models the read-only reference data the scoring engine
// consumes: instruments, their domains and items, norm tables and the
// Sensory Profile pattern tables.
//
// Values of these types are seeded once and shared across goroutines without
// synchronization; nothing in this package mutates an Instrument after load.
package instrument

import (
	"sort"

	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/types"
)

// TotalDomain is the norm-table domain code used for instrument totals.
const TotalDomain = "TOTAL"

// Instrument is a published assessment instrument.
type Instrument struct {
	Code     string       `yaml:"code" json:"code"`
	Name     string       `yaml:"name" json:"name"`
	Family   types.Family `yaml:"family" json:"family"`
	Version  string       `yaml:"version,omitempty" json:"version,omitempty"`
	AgeRange AgeRange     `yaml:"age_range,omitempty" json:"age_range,omitempty"`
	Domains  []Domain     `yaml:"domains" json:"domains"`
	Norms    []NormRow    `yaml:"norms,omitempty" json:"norms,omitempty"`
	Patterns *PatternSpec `yaml:"patterns,omitempty" json:"patterns,omitempty"`
	Bands    BandTable    `yaml:"bands,omitempty" json:"bands,omitempty"`
}

// AgeRange bounds the population an instrument is normed for, in months.
type AgeRange struct {
	MinMonths int `yaml:"min_months" json:"min_months"`
	MaxMonths int `yaml:"max_months" json:"max_months"`
}

// Domain groups items that are summed together. For the Sensory Profile
// family a domain is a section.
type Domain struct {
	Code          string `yaml:"code" json:"code"`
	Name          string `yaml:"name,omitempty" json:"name,omitempty"`
	Position      int    `yaml:"position" json:"position"`
	InvertedScale bool   `yaml:"inverted_scale,omitempty" json:"inverted_scale,omitempty"`
	Disabled      bool   `yaml:"disabled,omitempty" json:"disabled,omitempty"`
	Items         []Item `yaml:"items" json:"items"`
}

// Active reports whether the domain takes part in scoring.
func (d *Domain) Active() bool { return !d.Disabled }

// ActiveItems returns the domain's active items in declaration order.
func (d *Domain) ActiveItems() []Item {
	items := make([]Item, 0, len(d.Items))
	for _, it := range d.Items {
		if it.Active() {
			items = append(items, it)
		}
	}
	return items
}

// Item is a single question.
type Item struct {
	Number       int                `yaml:"number" json:"number"`
	GlobalNumber int                `yaml:"global_number" json:"global_number"`
	Text         string             `yaml:"text,omitempty" json:"text,omitempty"`
	ResponseType types.ResponseType `yaml:"response_type" json:"response_type"`
	Metadata     map[string]string  `yaml:"metadata,omitempty" json:"metadata,omitempty"`
	Disabled     bool               `yaml:"disabled,omitempty" json:"disabled,omitempty"`
}

// Active reports whether the item takes part in scoring.
func (it *Item) Active() bool { return !it.Disabled }

// Meta returns a metadata value, or "" when absent.
func (it *Item) Meta(key string) string {
	if it.Metadata == nil {
		return ""
	}
	return it.Metadata[key]
}

// NormRow maps a closed raw-score interval of one domain to its normed values.
type NormRow struct {
	Domain         string               `yaml:"domain" json:"domain"`
	RawMin         int                  `yaml:"raw_min" json:"raw_min"`
	RawMax         int                  `yaml:"raw_max" json:"raw_max"`
	TScore         *int                 `yaml:"t_score,omitempty" json:"t_score,omitempty"`
	Percentile     *Percentile          `yaml:"percentile,omitempty" json:"percentile,omitempty"`
	Classification types.Classification `yaml:"classification,omitempty" json:"classification,omitempty"`
}

// Contains reports whether raw falls inside [RawMin, RawMax].
func (r NormRow) Contains(raw int) bool {
	return r.RawMin <= raw && raw <= r.RawMax
}

// ActiveDomains returns active domains ordered by Position, ties broken by
// declaration order.
func (inst *Instrument) ActiveDomains() []Domain {
	domains := make([]Domain, 0, len(inst.Domains))
	for _, d := range inst.Domains {
		if d.Active() {
			domains = append(domains, d)
		}
	}
	sort.SliceStable(domains, func(i, j int) bool {
		return domains[i].Position < domains[j].Position
	})
	return domains
}

// Domain looks up a domain by code.
func (inst *Instrument) Domain(code string) (Domain, bool) {
	for _, d := range inst.Domains {
		if d.Code == code {
			return d, true
		}
	}
	return Domain{}, false
}

// ActiveItems returns every active item of every active domain, in domain order.
func (inst *Instrument) ActiveItems() []Item {
	var items []Item
	for _, d := range inst.ActiveDomains() {
		items = append(items, d.ActiveItems()...)
	}
	return items
}

// ItemIndex maps global item numbers to active items.
func (inst *Instrument) ItemIndex() map[int]Item {
	index := make(map[int]Item)
	for _, it := range inst.ActiveItems() {
		index[it.GlobalNumber] = it
	}
	return index
}

// NormRows returns the norm rows for one domain code.
func (inst *Instrument) NormRows(domain string) []NormRow {
	var rows []NormRow
	for _, r := range inst.Norms {
		if r.Domain == domain {
			rows = append(rows, r)
		}
	}
	return rows
}

// HasNorms reports whether any norm row exists for the domain code.
func (inst *Instrument) HasNorms(domain string) bool {
	for _, r := range inst.Norms {
		if r.Domain == domain {
			return true
		}
	}
	return false
}

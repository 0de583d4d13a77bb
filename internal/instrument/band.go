package instrument

// Band is one threshold row of a functional-family label table.
// A value v falls in the band when v >= Min (v > Min when Strict).
type Band struct {
	Min    float64 `yaml:"min" json:"min"`
	Strict bool    `yaml:"strict,omitempty" json:"strict,omitempty"`
	Label  string  `yaml:"label" json:"label"`
}

// BandTable is ordered from the highest threshold down; the first band a
// value falls in wins. Percent-valued tables close with a Min 0 catch-all.
type BandTable []Band

// Resolve returns the label for v, or "" when no band matches.
func (t BandTable) Resolve(v float64) string {
	for _, b := range t {
		if b.Strict && v > b.Min {
			return b.Label
		}
		if !b.Strict && v >= b.Min {
			return b.Label
		}
	}
	return ""
}

package instrument

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Percentile is a percentile band as published in a norm table.
// Scalar bands have Min == Max; open upper bands (">99") become (99, 100);
// open lower bands ("<1") become (0, 1).
type Percentile struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// ParsePercentile parses "50", "95-97", ">99" or "<1".
func ParsePercentile(s string) (Percentile, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return Percentile{}, fmt.Errorf("empty percentile")
	case strings.HasPrefix(s, ">"):
		n, err := parseBound(s[1:])
		if err != nil {
			return Percentile{}, err
		}
		return Percentile{Min: n, Max: 100}, nil
	case strings.HasPrefix(s, "<"):
		n, err := parseBound(s[1:])
		if err != nil {
			return Percentile{}, err
		}
		return Percentile{Min: 0, Max: n}, nil
	}

	a, b, isRange := strings.Cut(s, "-")
	if !isRange {
		n, err := parseBound(s)
		if err != nil {
			return Percentile{}, err
		}
		return Percentile{Min: n, Max: n}, nil
	}
	lo, err := parseBound(a)
	if err != nil {
		return Percentile{}, err
	}
	hi, err := parseBound(b)
	if err != nil {
		return Percentile{}, err
	}
	if lo > hi {
		return Percentile{}, fmt.Errorf("percentile range %q is inverted", s)
	}
	return Percentile{Min: lo, Max: hi}, nil
}

func parseBound(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid percentile bound %q", s)
	}
	if n < 0 || n > 100 {
		return 0, fmt.Errorf("percentile bound %d outside 0..100", n)
	}
	return n, nil
}

// String renders the band in table notation.
func (p Percentile) String() string {
	switch {
	case p.Min == p.Max:
		return strconv.Itoa(p.Min)
	case p.Max == 100 && p.Min > 0:
		return ">" + strconv.Itoa(p.Min)
	case p.Min == 0 && p.Max < 100:
		return "<" + strconv.Itoa(p.Max)
	default:
		return fmt.Sprintf("%d-%d", p.Min, p.Max)
	}
}

// UnmarshalYAML accepts the table notation as a scalar.
func (p *Percentile) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: percentile must be a scalar", node.Line)
	}
	parsed, err := ParsePercentile(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*p = parsed
	return nil
}

// MarshalYAML writes the table notation.
func (p Percentile) MarshalYAML() (interface{}, error) {
	return p.String(), nil
}

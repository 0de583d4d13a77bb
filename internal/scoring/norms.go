package scoring

import (
	"fmt"

	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/instrument"
)

// ResolveNorm finds the unique norm row of a domain whose [raw_min, raw_max]
// contains raw. A raw score outside the table yields an unclassified score
// (nil T-score and percentile, empty classification). More than one matching
// row is a reference-data defect and fails with ErrNormTableOverlap.
func ResolveNorm(inst *instrument.Instrument, domain string, raw int) (NormedScore, error) {
	score := NormedScore{Raw: raw}

	var match *instrument.NormRow
	for _, row := range inst.NormRows(domain) {
		if !row.Contains(raw) {
			continue
		}
		if match != nil {
			return NormedScore{}, &instrument.ReferenceError{
				Kind:       instrument.ErrNormTableOverlap,
				Instrument: inst.Code,
				Subject:    domain,
				Detail: fmt.Sprintf("raw score %d matches rows [%d,%d] and [%d,%d]",
					raw, match.RawMin, match.RawMax, row.RawMin, row.RawMax),
			}
		}
		r := row
		match = &r
	}
	if match == nil {
		return score, nil
	}

	if match.TScore != nil {
		t := *match.TScore
		score.TScore = &t
	}
	if match.Percentile != nil {
		p := *match.Percentile
		score.Percentile = &p
	}
	score.Classification = match.Classification
	return score, nil
}

package scoring

import (
	"strconv"

	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/types"
)

// Coded is the outcome of coding one answer.
type Coded struct {
	Points     int
	Excluded   bool // "not applicable": left out of every aggregate and denominator
	Recognized bool // false when the token is outside the response type's vocabulary
}

// likertPoints is the normal-polarity FourPointLikert mapping.
var likertPoints = map[string]int{
	types.TokenNunca:     4,
	types.TokenOcasional: 3,
	types.TokenFrequente: 2,
	types.TokenSempre:    1,
}

var frequencyPoints = map[string]int{
	types.TokenQuaseNunca:     1,
	types.TokenOcasionalmente: 2,
	types.TokenMetadeTempo:    3,
	types.TokenFrequentemente: 4,
	types.TokenQuaseSempre:    5,
}

// Code maps a raw answer token to points for an item of the given response
// type. Tokens are matched case-insensitively. An unrecognised token codes to
// zero points; callers needing strictness check Recognized.
func Code(token string, rt types.ResponseType, inverted bool) Coded {
	tok := types.NormalizeToken(token)
	if tok == types.TokenNotApplicable {
		return Coded{Excluded: true, Recognized: true}
	}

	switch rt {
	case types.FourPointLikert:
		p, ok := likertPoints[tok]
		if !ok {
			return Coded{}
		}
		if inverted {
			p = 5 - p
		}
		return Coded{Points: p, Recognized: true}
	case types.FivePointFrequency:
		p, ok := frequencyPoints[tok]
		return Coded{Points: p, Recognized: ok}
	case types.SevenPointFIM:
		return codeInt(tok, 1, 7, 1)
	case types.FourPointGMFM:
		return codeInt(tok, 0, 3, 1)
	case types.NumericPercent:
		return codeInt(tok, 0, 100, 10)
	case types.NumericTen:
		return codeInt(tok, 1, 10, 1)
	default:
		return Coded{}
	}
}

// codeInt accepts decimal tokens in [lo, hi] that are multiples of step.
func codeInt(tok string, lo, hi, step int) Coded {
	n, err := strconv.Atoi(tok)
	if err != nil || n < lo || n > hi || n%step != 0 {
		return Coded{}
	}
	return Coded{Points: n, Recognized: true}
}

package scoring

import (
	"strconv"
	"testing"

	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/answers"
	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/instrument"
	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/types"
)

func intp(v int) *int { return &v }

// seq builds n items numbered from first (global) with the given response type.
func seq(first, n int, rt types.ResponseType, meta func(global int) map[string]string) []instrument.Item {
	out := make([]instrument.Item, 0, n)
	for i := 0; i < n; i++ {
		it := instrument.Item{Number: i + 1, GlobalNumber: first + i, ResponseType: rt}
		if meta != nil {
			it.Metadata = meta(first + i)
		}
		out = append(out, it)
	}
	return out
}

func norm(domain string, lo, hi, t int, class types.Classification) instrument.NormRow {
	return instrument.NormRow{
		Domain:         domain,
		RawMin:         lo,
		RawMax:         hi,
		TScore:         intp(t),
		Percentile:     &instrument.Percentile{Min: t, Max: t},
		Classification: class,
	}
}

// spmFixture: SOC normal polarity items 1..10, VIS inverted items 11..18.
func spmFixture() *instrument.Instrument {
	return &instrument.Instrument{
		Code:    "SPM_TEST",
		Family:  types.FamilySPM,
		Version: "1",
		Domains: []instrument.Domain{
			{Code: "SOC", Name: "Participacao Social", Position: 1, Items: seq(1, 10, types.FourPointLikert, nil)},
			{Code: "VIS", Name: "Visao", Position: 2, InvertedScale: true, Items: seq(11, 8, types.FourPointLikert, nil)},
		},
		Norms: []instrument.NormRow{
			norm("SOC", 10, 15, 45, types.ClassTypical),
			norm("SOC", 16, 25, 63, types.ClassProbableDysfunc),
			norm("SOC", 26, 40, 72, types.ClassDefiniteDysfunc),
			norm("VIS", 8, 16, 50, types.ClassTypical),
			norm("VIS", 17, 24, 62, types.ClassProbableDysfunc),
			norm("VIS", 25, 32, 75, types.ClassDefiniteDysfunc),
			norm(instrument.TotalDomain, 18, 40, 48, types.ClassTypical),
			norm(instrument.TotalDomain, 41, 55, 62, types.ClassProbableDysfunc),
			norm(instrument.TotalDomain, 56, 72, 74, types.ClassDefiniteDysfunc),
		},
	}
}

// sensoryFixture: 28 FivePointFrequency items; EXPLORACAO holds 1..19 and the
// other quadrants three items each. Sections AUDITIVO 1..14, VISUAL 15..28.
func sensoryFixture() *instrument.Instrument {
	quadrant := func(g int) map[string]string {
		q := types.QuadrantSeeking
		switch {
		case g >= 26:
			q = types.QuadrantRegistration
		case g >= 23:
			q = types.QuadrantSensitivity
		case g >= 20:
			q = types.QuadrantAvoiding
		}
		return map[string]string{types.MetaQuadrant: q}
	}
	small := func(name string) []instrument.PatternRow {
		return []instrument.PatternRow{
			{Pattern: name, Level: types.LevelMuchLess, SumMin: 0, SumMax: 2},
			{Pattern: name, Level: types.LevelLess, SumMin: 3, SumMax: 5},
			{Pattern: name, Level: types.LevelTypical, SumMin: 6, SumMax: 10},
			{Pattern: name, Level: types.LevelMore, SumMin: 11, SumMax: 13},
			{Pattern: name, Level: types.LevelMuchMore, SumMin: 14, SumMax: 15},
		}
	}
	section := func(name string) []instrument.PatternRow {
		return []instrument.PatternRow{
			{Pattern: name, Level: types.LevelLess, SumMin: 0, SumMax: 27},
			{Pattern: name, Level: types.LevelTypical, SumMin: 28, SumMax: 50},
			{Pattern: name, Level: types.LevelMore, SumMin: 51, SumMax: 70},
		}
	}

	rows := []instrument.PatternRow{
		{Pattern: types.QuadrantSeeking, Level: types.LevelMuchLess, SumMin: 0, SumMax: 18},
		{Pattern: types.QuadrantSeeking, Level: types.LevelLess, SumMin: 19, SumMax: 37},
		{Pattern: types.QuadrantSeeking, Level: types.LevelTypical, SumMin: 38, SumMax: 59},
		{Pattern: types.QuadrantSeeking, Level: types.LevelMore, SumMin: 60, SumMax: 75},
		{Pattern: types.QuadrantSeeking, Level: types.LevelMuchMore, SumMin: 76, SumMax: 95},
	}
	rows = append(rows, small(types.QuadrantAvoiding)...)
	rows = append(rows, small(types.QuadrantSensitivity)...)
	rows = append(rows, small(types.QuadrantRegistration)...)
	rows = append(rows, section(types.SectionAuditory)...)
	rows = append(rows, section(types.SectionVisual)...)

	return &instrument.Instrument{
		Code:   "PS2_TEST",
		Family: types.FamilySensoryProfile,
		Domains: []instrument.Domain{
			{Code: types.SectionAuditory, Position: 1, Items: seq(1, 14, types.FivePointFrequency, quadrant)},
			{Code: types.SectionVisual, Position: 2, Items: seq(15, 14, types.FivePointFrequency, quadrant)},
		},
		Patterns: &instrument.PatternSpec{
			Variant: instrument.VariantChild,
			Sections: []instrument.SectionRange{
				{Name: types.SectionAuditory, From: 1, To: 14},
				{Name: types.SectionVisual, From: 15, To: 28},
			},
			Rows: rows,
		},
	}
}

// pediFixture: AUTO with 16 items (1..16) and MOB with 4 items (17..20).
func pediFixture(family types.Family) *instrument.Instrument {
	return &instrument.Instrument{
		Code:   "PEDI_TEST",
		Family: family,
		Domains: []instrument.Domain{
			{Code: "AUTO", Position: 1, Items: seq(1, 16, types.FourPointGMFM, nil)},
			{Code: "MOB", Position: 2, Items: seq(17, 4, types.FourPointGMFM, nil)},
		},
	}
}

// fimFixture: 13 motor items (1..13) and 5 cognitive items (14..18).
func fimFixture(family types.Family) *instrument.Instrument {
	category := func(g int) map[string]string {
		if g <= 13 {
			return map[string]string{types.MetaCategory: types.CategoryMotor}
		}
		return map[string]string{types.MetaCategory: types.CategoryCognitive}
	}
	return &instrument.Instrument{
		Code:   "FIM_TEST",
		Family: family,
		Domains: []instrument.Domain{
			{Code: "MOTOR", Position: 1, Items: seq(1, 13, types.SevenPointFIM, category)},
			{Code: "COGNITIVO", Position: 2, Items: seq(14, 5, types.SevenPointFIM, category)},
		},
	}
}

// copmFixture: five problems; problem p has performance item 2p-1 and
// satisfaction item 2p.
func copmFixture() *instrument.Instrument {
	meta := func(g int) map[string]string {
		dim := types.DimensionPerformance
		if g%2 == 0 {
			dim = types.DimensionSatisfaction
		}
		return map[string]string{
			types.MetaProblem:   strconv.Itoa((g + 1) / 2),
			types.MetaDimension: dim,
		}
	}
	return &instrument.Instrument{
		Code:    "COPM_TEST",
		Family:  types.FamilyCOPM,
		Domains: []instrument.Domain{{Code: "COPM", Position: 1, Items: seq(1, 10, types.NumericTen, meta)}},
	}
}

func abcFixture() *instrument.Instrument {
	return &instrument.Instrument{
		Code:    "ABC_TEST",
		Family:  types.FamilyABC,
		Domains: []instrument.Domain{{Code: "ABC", Position: 1, Items: seq(1, 16, types.NumericPercent, nil)}},
	}
}

// gmfmFixture: dimensions A..E with 4, 2, 2, 2, 2 items.
func gmfmFixture() *instrument.Instrument {
	return &instrument.Instrument{
		Code:   "GMFM_TEST",
		Family: types.FamilyGMFM,
		Domains: []instrument.Domain{
			{Code: "A", Position: 1, Items: seq(1, 4, types.FourPointGMFM, nil)},
			{Code: "B", Position: 2, Items: seq(5, 2, types.FourPointGMFM, nil)},
			{Code: "C", Position: 3, Items: seq(7, 2, types.FourPointGMFM, nil)},
			{Code: "D", Position: 4, Items: seq(9, 2, types.FourPointGMFM, nil)},
			{Code: "E", Position: 5, Items: seq(11, 2, types.FourPointGMFM, nil)},
		},
	}
}

// fill answers every item in [from, to] with token.
func fill(t *testing.T, set *answers.AnswerSet, from, to int, token string) {
	t.Helper()
	for n := from; n <= to; n++ {
		if err := set.Set(n, token); err != nil {
			t.Fatalf("Set(%d, %q) error = %v", n, token, err)
		}
	}
}

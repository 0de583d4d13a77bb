package scoring

import (
	"math"

	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/instrument"
	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/types"
)

// round1 rounds half away from zero to one decimal place.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// percentOf returns raw/maxRaw*100, or 0 when maxRaw is 0.
func percentOf(raw, maxRaw int) float64 {
	if maxRaw == 0 {
		return 0
	}
	return float64(raw) / float64(maxRaw) * 100
}

// Default label tables per family. An instrument overrides them by shipping
// its own bands.
var (
	PEDIBands = instrument.BandTable{
		{Min: 80, Label: "FUNCTIONAL"},
		{Min: 60, Label: "MODERATELY_FUNCTIONAL"},
		{Min: 40, Label: "MODERATE_DEPENDENCE"},
		{Min: 20, Label: "SEVERE_DEPENDENCE"},
		{Min: 0, Label: "TOTAL_DEPENDENCE"},
	}
	COGBands = instrument.BandTable{
		{Min: 80, Label: "PRESERVED"},
		{Min: 60, Label: "MILD_IMPAIRMENT"},
		{Min: 40, Label: "MODERATE_IMPAIRMENT"},
		{Min: 20, Label: "SEVERE_IMPAIRMENT"},
		{Min: 0, Label: "PROFOUND_IMPAIRMENT"},
	}
	AVDBands = instrument.BandTable{
		{Min: 80, Label: "INDEPENDENT"},
		{Min: 60, Label: "MINIMAL_ASSISTANCE"},
		{Min: 40, Label: "MODERATE_ASSISTANCE"},
		{Min: 20, Label: "MAXIMAL_ASSISTANCE"},
		{Min: 0, Label: "DEPENDENT"},
	}
	ABCBands = instrument.BandTable{
		{Min: 80, Strict: true, Label: "LOW"},
		{Min: 50, Label: "MODERATE"},
		{Min: 0, Label: "HIGH"},
	}
	// FIMBands resolve percent of maximum; 100 means raw equals the maximum.
	FIMBands = instrument.BandTable{
		{Min: 100, Label: "COMPLETE_INDEPENDENCE"},
		{Min: 80, Label: "MODIFIED_INDEPENDENCE"},
		{Min: 50, Label: "MODERATE_DEPENDENCE"},
		{Min: 0, Label: "COMPLETE_DEPENDENCE"},
	}
	GMFMBands = instrument.BandTable{
		{Min: 90, Label: "EXCELLENT"},
		{Min: 70, Label: "GOOD"},
		{Min: 50, Label: "MODERATE"},
		{Min: 30, Label: "LIMITED"},
		{Min: 0, Label: "SEVERELY_LIMITED"},
	}
)

// DefaultBands maps families to their built-in label table.
var DefaultBands = map[types.Family]instrument.BandTable{
	types.FamilyPEDI:   PEDIBands,
	types.FamilyCOG:    COGBands,
	types.FamilyAVD:    AVDBands,
	types.FamilyABC:    ABCBands,
	types.FamilyFIM:    FIMBands,
	types.FamilyWeeFIM: FIMBands,
	types.FamilyGMFM:   GMFMBands,
}

// bandsFor prefers the instrument's own bands over the family default.
func bandsFor(inst *instrument.Instrument) instrument.BandTable {
	if len(inst.Bands) > 0 {
		return inst.Bands
	}
	return DefaultBands[inst.Family]
}

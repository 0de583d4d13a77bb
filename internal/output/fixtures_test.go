package output

import (
	"time"

	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/instrument"
	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/scoring"
	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/types"
)

func intp(v int) *int { return &v }

func spmResult() *scoring.ScoredResult {
	return &scoring.ScoredResult{
		Instrument: "SPM_CASA_5_12",
		Version:    "1",
		Family:     types.FamilySPM,
		AnswerSet:  "a1",
		SPM: &scoring.SPMResult{
			Domains: []scoring.DomainScore{
				{Code: "SOC", NormedScore: scoring.NormedScore{Raw: 10, TScore: intp(40), Percentile: &instrument.Percentile{Min: 16, Max: 50}, Classification: types.ClassTypical}},
				{Code: "VIS", NormedScore: scoring.NormedScore{Raw: 17, TScore: intp(62), Percentile: &instrument.Percentile{Min: 88, Max: 92}, Classification: types.ClassProbableDysfunc}},
			},
			Total: scoring.NormedScore{Raw: 27},
		},
	}
}

func sensoryResult() *scoring.ScoredResult {
	return &scoring.ScoredResult{
		Instrument: "PS2_CRIANCA",
		Family:     types.FamilySensoryProfile,
		Partial:    true,
		Notes:      []string{"item 12: unrecognized token \"talvez\""},
		SensoryProfile: &scoring.SensoryProfileResult{
			Variant: "Child",
			Sections: []scoring.SectionScore{
				{Name: types.SectionAuditory, Raw: 30, Level: types.LevelTypical},
			},
			Quadrants: []scoring.QuadrantScore{
				{Name: types.QuadrantSeeking, Raw: 95, Max: 95, Level: types.LevelMuchMore},
			},
			InterpretationTags: []string{"elevated Seeking pattern"},
		},
	}
}

func fimResult() *scoring.ScoredResult {
	return &scoring.ScoredResult{
		Instrument: "FIM",
		Family:     types.FamilyFIM,
		FIM: &scoring.FIMResult{
			Motor:     scoring.SubtotalScore{Raw: 91, Max: 91, Label: "COMPLETE_INDEPENDENCE"},
			Cognitive: scoring.SubtotalScore{Raw: 28, Max: 35, Label: "MODIFIED_INDEPENDENCE"},
			Total:     scoring.SubtotalScore{Raw: 119, Max: 126, Label: "MODIFIED_INDEPENDENCE"},
		},
	}
}

func sampleReport() *Report {
	return &Report{
		Entries: []Entry{
			{Source: "./joao.answers.yaml", Subject: "joao", Status: "final", Result: spmResult()},
			{Source: "maria.answers.yaml", Subject: "maria", Result: sensoryResult()},
		},
		Failures:  []Failure{{Source: "broken.answers.yaml", Message: "instrument \"XYZ\" not found"}},
		StartTime: time.Now(),
	}
}

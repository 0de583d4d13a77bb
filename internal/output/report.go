// Package output renders scored answer sets as console tables, JSON,
// Markdown and XLSX workbooks.
package output

import (
	"fmt"
	"strconv"
	"time"

	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/scoring"
	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/types"
)

// Entry is one scored answer document.
type Entry struct {
	Source  string // document path
	Subject string
	Status  string
	Result  *scoring.ScoredResult
}

// Failure is an answer document that could not be scored.
type Failure struct {
	Source  string
	Message string
}

// Report is everything one scoring run produced.
type Report struct {
	Entries   []Entry
	Failures  []Failure
	StartTime time.Time
}

// Partial counts the entries scored from incomplete answer sets.
func (r *Report) Partial() int {
	n := 0
	for _, e := range r.Entries {
		if e.Result != nil && e.Result.Partial {
			n++
		}
	}
	return n
}

// Formatter renders a report.
type Formatter interface {
	Format(report *Report) error
}

// Line is one row of a result table.
type Line struct {
	Name  string
	Raw   string
	Max   string
	Score string
	Label string
}

// LineHeaders names the Line columns.
var LineHeaders = []string{"Score", "Raw", "Max", "Result", "Label"}

// Strings returns the row cells in LineHeaders order.
func (l Line) Strings() []string {
	return []string{l.Name, l.Raw, l.Max, l.Score, l.Label}
}

// Lines flattens a result into table rows, family by family.
func Lines(res *scoring.ScoredResult) []Line {
	var lines []Line
	switch {
	case res.SPM != nil:
		for _, d := range res.SPM.Domains {
			lines = append(lines, normedLine(d.Code, d.NormedScore))
		}
		lines = append(lines, normedLine("TOTAL", res.SPM.Total))

	case res.SensoryProfile != nil:
		for _, q := range res.SensoryProfile.Quadrants {
			name := q.Name
			if p, ok := types.QuadrantPattern[q.Name]; ok {
				name += " (" + p + ")"
			}
			lines = append(lines, Line{Name: name, Raw: strconv.Itoa(q.Raw), Max: strconv.Itoa(q.Max), Label: string(q.Level)})
		}
		for _, s := range res.SensoryProfile.Sections {
			lines = append(lines, Line{Name: s.Name, Raw: strconv.Itoa(s.Raw), Label: string(s.Level)})
		}

	case res.Functional != nil:
		for _, d := range res.Functional.Domains {
			lines = append(lines, percentLine(d))
		}
		lines = append(lines, percentLine(res.Functional.Total))

	case res.COPM != nil:
		for _, p := range res.COPM.Problems {
			lines = append(lines, Line{
				Name:  fmt.Sprintf("Problem %d", p.Index),
				Score: fmt.Sprintf("P=%d S=%d", p.Performance, p.Satisfaction),
			})
		}
		lines = append(lines,
			Line{Name: "Performance (mean)", Score: fmt.Sprintf("%.1f", res.COPM.PerformanceMean)},
			Line{Name: "Satisfaction (mean)", Score: fmt.Sprintf("%.1f", res.COPM.SatisfactionMean)},
		)

	case res.ABC != nil:
		lines = append(lines, Line{
			Name:  "ABC",
			Raw:   strconv.Itoa(res.ABC.ItemsAnswered),
			Score: fmt.Sprintf("%.1f%%", res.ABC.TotalPercent),
			Label: res.ABC.FallRiskLabel,
		})

	case res.FIM != nil:
		lines = append(lines,
			subtotalLine("MOTOR", res.FIM.Motor),
			subtotalLine("COGNITIVE", res.FIM.Cognitive),
			subtotalLine("TOTAL", res.FIM.Total),
		)

	case res.GMFM != nil:
		for _, d := range res.GMFM.Dimensions {
			lines = append(lines, percentLine(d))
		}
		lines = append(lines, Line{
			Name:  "TOTAL",
			Score: fmt.Sprintf("%.1f%%", res.GMFM.TotalPercent),
			Label: res.GMFM.Interpretation,
		})
	}
	return lines
}

// Tags returns the interpretation tags of a Sensory Profile result.
func Tags(res *scoring.ScoredResult) []string {
	if res.SensoryProfile == nil {
		return nil
	}
	return res.SensoryProfile.InterpretationTags
}

func normedLine(name string, n scoring.NormedScore) Line {
	l := Line{Name: name, Raw: strconv.Itoa(n.Raw), Label: string(n.Classification)}
	switch {
	case n.TScore != nil && n.Percentile != nil:
		l.Score = fmt.Sprintf("T=%d P=%s", *n.TScore, n.Percentile)
	case n.TScore != nil:
		l.Score = fmt.Sprintf("T=%d", *n.TScore)
	case n.Percentile != nil:
		l.Score = "P=" + n.Percentile.String()
	}
	return l
}

func percentLine(p scoring.PercentScore) Line {
	return Line{
		Name:  p.Code,
		Raw:   strconv.Itoa(p.Raw),
		Max:   strconv.Itoa(p.Max),
		Score: fmt.Sprintf("%.1f%%", p.Percent),
		Label: p.Label,
	}
}

func subtotalLine(name string, s scoring.SubtotalScore) Line {
	return Line{Name: name, Raw: strconv.Itoa(s.Raw), Max: strconv.Itoa(s.Max), Label: s.Label}
}

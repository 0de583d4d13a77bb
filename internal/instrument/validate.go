package instrument

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/types"
)

// Finding is one reference-data problem. Error-severity findings carry the
// fatal Kind; warnings never block loading.
type Finding struct {
	Severity string
	Subject  string
	Message  string
	Kind     error
}

// ResponseTypeFor is the response type every item of a family must use.
var ResponseTypeFor = map[types.Family]types.ResponseType{
	types.FamilySPM:            types.FourPointLikert,
	types.FamilySPMP:           types.FourPointLikert,
	types.FamilySensoryProfile: types.FivePointFrequency,
	types.FamilyPEDI:           types.FourPointGMFM,
	types.FamilyCOG:            types.FourPointGMFM,
	types.FamilyAVD:            types.FourPointGMFM,
	types.FamilyCOPM:           types.NumericTen,
	types.FamilyABC:            types.NumericPercent,
	types.FamilyFIM:            types.SevenPointFIM,
	types.FamilyWeeFIM:         types.SevenPointFIM,
	types.FamilyGMFM:           types.FourPointGMFM,
}

type findings []Finding

func (f *findings) fail(kind error, subject, format string, args ...any) {
	*f = append(*f, Finding{
		Severity: types.SeverityError,
		Subject:  subject,
		Message:  fmt.Sprintf(format, args...),
		Kind:     kind,
	})
}

func (f *findings) warn(subject, format string, args ...any) {
	*f = append(*f, Finding{
		Severity: types.SeverityWarning,
		Subject:  subject,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Validate runs every structural check on an instrument and returns all findings.
func Validate(inst *Instrument) []Finding {
	var f findings

	if inst.Code == "" {
		f.fail(ErrInvalidDefinition, "", "instrument code is empty")
	}
	if !inst.Family.Known() {
		f.fail(ErrUnknownInstrumentFamily, string(inst.Family), "family %q is not recognised", inst.Family)
		return f
	}

	validateDomains(inst, &f)
	validateNorms(inst, &f)

	switch inst.Family {
	case types.FamilySensoryProfile:
		validatePatterns(inst, &f)
	case types.FamilyFIM, types.FamilyWeeFIM:
		validateFIM(inst, &f)
	case types.FamilyCOPM:
		validateCOPM(inst, &f)
	case types.FamilyGMFM:
		validateGMFM(inst, &f)
	}

	return f
}

// Check returns the first fatal finding as a *ReferenceError, or nil.
func (inst *Instrument) Check() error {
	for _, finding := range Validate(inst) {
		if finding.Severity == types.SeverityError {
			return &ReferenceError{
				Kind:       finding.Kind,
				Instrument: inst.Code,
				Subject:    finding.Subject,
				Detail:     finding.Message,
			}
		}
	}
	return nil
}

func validateDomains(inst *Instrument, f *findings) {
	want := ResponseTypeFor[inst.Family]
	codes := make(map[string]bool)
	globals := make(map[int]string)

	if len(inst.Domains) == 0 {
		f.fail(ErrInvalidDefinition, "", "instrument declares no domains")
	}
	for _, d := range inst.Domains {
		if d.Code == "" {
			f.fail(ErrInvalidDefinition, "", "domain at position %d has no code", d.Position)
		}
		if codes[d.Code] {
			f.fail(ErrInconsistentItemPartition, d.Code, "duplicate domain code")
		}
		codes[d.Code] = true

		for _, it := range d.Items {
			subject := d.Code + "#" + strconv.Itoa(it.Number)
			if prev, dup := globals[it.GlobalNumber]; dup {
				f.fail(ErrInconsistentItemPartition, subject,
					"global number %d already used in domain %s", it.GlobalNumber, prev)
			}
			globals[it.GlobalNumber] = d.Code
			if !it.ResponseType.Known() {
				f.fail(ErrInvalidDefinition, subject, "unknown response type %q", it.ResponseType)
			} else if it.ResponseType != want {
				f.fail(ErrInvalidDefinition, subject,
					"response type %s does not fit family %s (want %s)", it.ResponseType, inst.Family, want)
			}
		}
	}
}

func validateNorms(inst *Instrument, f *findings) {
	byDomain := make(map[string][]NormRow)
	for _, r := range inst.Norms {
		if r.RawMin > r.RawMax {
			f.fail(ErrInvalidDefinition, r.Domain, "norm row raw_min %d > raw_max %d", r.RawMin, r.RawMax)
			continue
		}
		if r.Classification != "" && !r.Classification.Known() {
			f.fail(ErrInvalidDefinition, r.Domain, "unknown classification %q", r.Classification)
		}
		if r.Domain != TotalDomain {
			if _, ok := inst.Domain(r.Domain); !ok {
				f.fail(ErrInvalidDefinition, r.Domain, "norm rows reference an unknown domain")
			}
		}
		byDomain[r.Domain] = append(byDomain[r.Domain], r)
	}

	for _, code := range sortedKeys(byDomain) {
		rows := byDomain[code]
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].RawMin < rows[j].RawMin })
		for i := 1; i < len(rows); i++ {
			if rows[i].RawMin <= rows[i-1].RawMax {
				f.fail(ErrNormTableOverlap, code, "rows [%d,%d] and [%d,%d] overlap",
					rows[i-1].RawMin, rows[i-1].RawMax, rows[i].RawMin, rows[i].RawMax)
			}
		}

		lo, hi, ok := achievableRange(inst, code)
		if !ok {
			continue
		}
		if gaps := uncovered(rows, lo, hi); len(gaps) > 0 {
			f.warn(code, "raw scores %v in achievable range %d..%d match no norm row", gaps, lo, hi)
		}
	}
}

// achievableRange is the raw-score range of a fully answered domain (or of
// the instrument total).
func achievableRange(inst *Instrument, code string) (int, int, bool) {
	var lo, hi int
	var domains []Domain
	if code == TotalDomain {
		domains = inst.ActiveDomains()
	} else {
		d, ok := inst.Domain(code)
		if !ok || !d.Active() {
			return 0, 0, false
		}
		domains = []Domain{d}
	}
	for _, d := range domains {
		for _, it := range d.ActiveItems() {
			lo += it.ResponseType.MinPoints()
			hi += it.ResponseType.MaxPoints()
		}
	}
	return lo, hi, hi > 0
}

// uncovered lists gaps as "a-b" strings; rows must be sorted by RawMin.
func uncovered(rows []NormRow, lo, hi int) []string {
	var gaps []string
	next := lo
	for _, r := range rows {
		if r.RawMin > next && next <= hi {
			gaps = append(gaps, gapString(next, min(r.RawMin-1, hi)))
		}
		if r.RawMax+1 > next {
			next = r.RawMax + 1
		}
	}
	if next <= hi {
		gaps = append(gaps, gapString(next, hi))
	}
	return gaps
}

func gapString(a, b int) string {
	if a == b {
		return strconv.Itoa(a)
	}
	return fmt.Sprintf("%d-%d", a, b)
}

func validatePatterns(inst *Instrument, f *findings) {
	if inst.Patterns == nil {
		f.fail(ErrMissingPatternTable, "", "sensory profile instrument ships no pattern table")
		return
	}
	p := inst.Patterns

	if err := CheckQuadrantPartition(inst); err != nil {
		var re *ReferenceError
		if errors.As(err, &re) {
			f.fail(re.Kind, re.Subject, "%s", re.Detail)
		}
	}

	items := inst.ItemIndex()
	sections := append([]SectionRange(nil), p.Sections...)
	sort.SliceStable(sections, func(i, j int) bool { return sections[i].From < sections[j].From })
	for i, s := range sections {
		if s.From > s.To {
			f.fail(ErrInconsistentItemPartition, s.Name, "section range %d..%d is inverted", s.From, s.To)
			continue
		}
		if i > 0 && s.From <= sections[i-1].To {
			f.fail(ErrInconsistentItemPartition, s.Name, "section overlaps %s", sections[i-1].Name)
		}
		for n := s.From; n <= s.To; n++ {
			if _, ok := items[n]; !ok {
				f.fail(ErrInconsistentItemPartition, s.Name, "section covers unknown item %d", n)
				break
			}
		}
	}
	for _, it := range inst.ActiveItems() {
		inSection := false
		for _, s := range sections {
			if s.Contains(it.GlobalNumber) {
				inSection = true
				break
			}
		}
		if !inSection {
			f.warn(strconv.Itoa(it.GlobalNumber), "item belongs to no section and is excluded from section sums")
		}
	}

	names := make([]string, 0, len(p.Sections)+4)
	for _, s := range p.Sections {
		names = append(names, s.Name)
	}
	for _, q := range inst.QuadrantSets() {
		names = append(names, q.Name)
	}
	for _, name := range names {
		rows := p.RowsFor(name)
		if len(rows) == 0 {
			f.fail(ErrMissingPatternTable, name, "no pattern rows for %s", name)
			continue
		}
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].SumMin < rows[j].SumMin })
		for i, r := range rows {
			if !r.Level.Known() {
				f.fail(ErrInvalidDefinition, name, "unknown pattern level %q", r.Level)
			}
			if r.SumMin > r.SumMax {
				f.fail(ErrInvalidDefinition, name, "pattern row sum_min %d > sum_max %d", r.SumMin, r.SumMax)
			}
			if i > 0 && r.SumMin <= rows[i-1].SumMax {
				f.fail(ErrNormTableOverlap, name, "pattern rows [%d,%d] and [%d,%d] overlap",
					rows[i-1].SumMin, rows[i-1].SumMax, r.SumMin, r.SumMax)
			}
		}
	}
}

// CheckQuadrantPartition verifies that the quadrant lists partition the
// instrument's active items: every item in exactly one quadrant.
func CheckQuadrantPartition(inst *Instrument) error {
	sets := inst.QuadrantSets()
	if len(sets) == 0 {
		return refErr(ErrMissingPatternTable, inst.Code, "quadrants", "no quadrant lists declared")
	}

	items := inst.ItemIndex()
	owner := make(map[int]string, len(items))
	for _, q := range sets {
		for _, n := range q.Items {
			if _, ok := items[n]; !ok {
				return refErr(ErrInconsistentItemPartition, inst.Code, q.Name,
					"quadrant lists item %d which the instrument does not have", n)
			}
			if prev, dup := owner[n]; dup {
				return refErr(ErrInconsistentItemPartition, inst.Code, q.Name,
					"item %d already belongs to %s", n, prev)
			}
			owner[n] = q.Name
		}
	}
	if len(owner) != len(items) {
		var missing []int
		for n := range items {
			if _, ok := owner[n]; !ok {
				missing = append(missing, n)
			}
		}
		sort.Ints(missing)
		return refErr(ErrInconsistentItemPartition, inst.Code, "quadrants",
			"items %v belong to no quadrant", missing)
	}
	return nil
}

func validateFIM(inst *Instrument, f *findings) {
	for _, it := range inst.ActiveItems() {
		switch it.Meta(types.MetaCategory) {
		case types.CategoryMotor, types.CategoryCognitive:
		default:
			f.fail(ErrInconsistentItemPartition, strconv.Itoa(it.GlobalNumber),
				"item carries no MOTOR/COGNITIVE category")
		}
	}
}

func validateCOPM(inst *Instrument, f *findings) {
	seen := make(map[string]bool)
	for _, it := range inst.ActiveItems() {
		subject := strconv.Itoa(it.GlobalNumber)
		problem, err := strconv.Atoi(it.Meta(types.MetaProblem))
		if err != nil || problem < 1 || problem > 5 {
			f.fail(ErrInconsistentItemPartition, subject, "problem index must be 1..5")
			continue
		}
		dim := it.Meta(types.MetaDimension)
		if dim != types.DimensionPerformance && dim != types.DimensionSatisfaction {
			f.fail(ErrInconsistentItemPartition, subject, "dimension must be PERFORMANCE or SATISFACTION")
			continue
		}
		key := fmt.Sprintf("%d/%s", problem, dim)
		if seen[key] {
			f.fail(ErrInconsistentItemPartition, subject, "problem %d already has a %s item", problem, dim)
		}
		seen[key] = true
	}
}

func validateGMFM(inst *Instrument, f *findings) {
	var codes []string
	for _, d := range inst.ActiveDomains() {
		codes = append(codes, d.Code)
	}
	sort.Strings(codes)
	if fmt.Sprint(codes) != fmt.Sprint(types.GMFMDimensions) {
		f.fail(ErrInconsistentItemPartition, "", "GMFM domains must be exactly %v, got %v",
			types.GMFMDimensions, codes)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

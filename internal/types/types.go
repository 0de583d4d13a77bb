// Package types provides the frozen vocabulary shared across the spmto codebase.
// This package is at the bottom of the dependency graph and should not import
// any other internal packages to avoid circular dependencies.
//
// Every string here is part of the external contract: it is seeded into
// reference data and written into answer documents.
package types

import "strings"

// Family identifies the scoring pipeline an instrument uses.
type Family string

// Instrument family constants.
const (
	FamilySPM            Family = "SPM"
	FamilySPMP           Family = "SPM-P"
	FamilySensoryProfile Family = "SensoryProfile"
	FamilyPEDI           Family = "PEDI"
	FamilyCOG            Family = "COG"
	FamilyAVD            Family = "AVD"
	FamilyCOPM           Family = "COPM"
	FamilyABC            Family = "ABC"
	FamilyFIM            Family = "FIM"
	FamilyWeeFIM         Family = "WeeFIM"
	FamilyGMFM           Family = "GMFM"
)

// Families lists every known family in a stable order.
var Families = []Family{
	FamilySPM, FamilySPMP, FamilySensoryProfile,
	FamilyPEDI, FamilyCOG, FamilyAVD,
	FamilyCOPM, FamilyABC, FamilyFIM, FamilyWeeFIM, FamilyGMFM,
}

// Known reports whether f is part of the vocabulary.
func (f Family) Known() bool {
	for _, k := range Families {
		if k == f {
			return true
		}
	}
	return false
}

// ResponseType tags how an item's answer is coded into points.
type ResponseType string

// Response type constants.
const (
	FourPointLikert    ResponseType = "FourPointLikert"
	FivePointFrequency ResponseType = "FivePointFrequency"
	SevenPointFIM      ResponseType = "SevenPointFIM"
	FourPointGMFM      ResponseType = "FourPointGMFM"
	NumericPercent     ResponseType = "NumericPercent"
	NumericTen         ResponseType = "NumericTen"
)

// ResponseTypes lists every known response type.
var ResponseTypes = []ResponseType{
	FourPointLikert, FivePointFrequency, SevenPointFIM,
	FourPointGMFM, NumericPercent, NumericTen,
}

// Known reports whether rt is part of the vocabulary.
func (rt ResponseType) Known() bool {
	for _, k := range ResponseTypes {
		if k == rt {
			return true
		}
	}
	return false
}

// MaxPoints is the highest point value an item of this type can score.
func (rt ResponseType) MaxPoints() int {
	switch rt {
	case FourPointLikert:
		return 4
	case FivePointFrequency:
		return 5
	case SevenPointFIM:
		return 7
	case FourPointGMFM:
		return 3
	case NumericPercent:
		return 100
	case NumericTen:
		return 10
	default:
		return 0
	}
}

// MinPoints is the lowest point value a recognised answer of this type scores.
func (rt ResponseType) MinPoints() int {
	switch rt {
	case FourPointGMFM, NumericPercent:
		return 0
	case FourPointLikert, FivePointFrequency, SevenPointFIM, NumericTen:
		return 1
	default:
		return 0
	}
}

// Response tokens.
const (
	// FourPointLikert (SPM / SPM-P)
	TokenNunca     = "NUNCA"
	TokenOcasional = "OCASIONAL"
	TokenFrequente = "FREQUENTE"
	TokenSempre    = "SEMPRE"

	// FivePointFrequency (Sensory Profile)
	TokenQuaseNunca     = "QUASE_NUNCA"
	TokenOcasionalmente = "OCASIONALMENTE"
	TokenMetadeTempo    = "METADE_TEMPO"
	TokenFrequentemente = "FREQUENTEMENTE"
	TokenQuaseSempre    = "QUASE_SEMPRE"

	// TokenNotApplicable excludes an item from every aggregate that contains it.
	TokenNotApplicable = "NAO_APLICA"
)

// NormalizeToken canonicalises a response token: trimmed, upper case,
// with inner spaces and hyphens folded to underscores.
func NormalizeToken(token string) string {
	t := strings.ToUpper(strings.TrimSpace(token))
	t = strings.Join(strings.Fields(t), "_")
	return strings.ReplaceAll(t, "-", "_")
}

// Classification is a norm-table label returned verbatim from reference rows.
type Classification string

// Classification constants.
const (
	ClassTypical         Classification = "TIPICO"
	ClassProbableDysfunc Classification = "PROVAVEL_DISFUNCAO"
	ClassDefiniteDysfunc Classification = "DISFUNCAO_DEFINITIVA"
)

// Known reports whether c is part of the vocabulary.
func (c Classification) Known() bool {
	switch c {
	case ClassTypical, ClassProbableDysfunc, ClassDefiniteDysfunc:
		return true
	}
	return false
}

// PatternLevel is the five-level Sensory Profile label.
type PatternLevel string

// Pattern level constants.
const (
	LevelMuchLess PatternLevel = "MUITO_MENOS"
	LevelLess     PatternLevel = "MENOS"
	LevelTypical  PatternLevel = "TIPICO"
	LevelMore     PatternLevel = "MAIS"
	LevelMuchMore PatternLevel = "MUITO_MAIS"
)

// Known reports whether l is part of the vocabulary.
func (l PatternLevel) Known() bool {
	switch l {
	case LevelMuchLess, LevelLess, LevelTypical, LevelMore, LevelMuchMore:
		return true
	}
	return false
}

// Sensory Profile quadrant names.
const (
	QuadrantSeeking      = "EXPLORACAO"
	QuadrantAvoiding     = "ESQUIVA"
	QuadrantSensitivity  = "SENSIBILIDADE"
	QuadrantRegistration = "OBSERVACAO"
)

// Quadrants lists the quadrant names in report order.
var Quadrants = []string{QuadrantSeeking, QuadrantAvoiding, QuadrantSensitivity, QuadrantRegistration}

// QuadrantPattern maps a quadrant to the processing-pattern name used in interpretation text.
var QuadrantPattern = map[string]string{
	QuadrantSeeking:      "Seeking",
	QuadrantAvoiding:     "Avoiding",
	QuadrantSensitivity:  "Sensitivity",
	QuadrantRegistration: "Registration",
}

// Sensory Profile section names.
const (
	SectionAuditory       = "AUDITIVO"
	SectionVisual         = "VISUAL"
	SectionTouch          = "TATO"
	SectionMovement       = "MOVIMENTOS"
	SectionBodyPosition   = "POSICAO_CORPO"
	SectionOral           = "ORAL"
	SectionConduct        = "CONDUTA"
	SectionSocioEmotional = "SOCIOEMOCIONAL"
	SectionAttention      = "ATENCAO"
)

// Item metadata keys.
const (
	MetaQuadrant  = "quadrant"
	MetaCategory  = "category"
	MetaProblem   = "problem"
	MetaDimension = "dimension"
)

// FIM partition values for MetaCategory.
const (
	CategoryMotor     = "MOTOR"
	CategoryCognitive = "COGNITIVE"
)

// COPM dimension values for MetaDimension.
const (
	DimensionPerformance  = "PERFORMANCE"
	DimensionSatisfaction = "SATISFACTION"
)

// GMFMDimensions are the domain codes a GMFM instrument must declare, in order.
var GMFMDimensions = []string{"A", "B", "C", "D", "E"}

// Severity level constants for reference-data findings.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

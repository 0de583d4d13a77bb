package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/answers"
	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/instrument"
	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/scoring"
	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/types"
)

const extraInstrument = `code: ABC_CURTA
name: "ABC versao curta"
family: ABC
version: "2"
domains:
  - code: ABC
    position: 1
    items:
      - number: 1
        global_number: 1
        response_type: NumericPercent
      - number: 2
        global_number: 2
        response_type: NumericPercent
`

func loadSeeds(t *testing.T) *Catalog {
	t.Helper()
	c, err := Load("", zap.NewNop())
	require.NoError(t, err)
	return c
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(filepath.Join(dir, name)), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestLoadSeeds(t *testing.T) {
	c := loadSeeds(t)

	var codes []string
	for _, inst := range c.List() {
		codes = append(codes, inst.Code)
	}
	assert.Equal(t, []string{
		"ABC", "AVD", "COG", "COPM", "FIM", "GMFM_88", "PEDI",
		"PS2_CRIANCA", "SPMP_CASA_2_5", "SPM_CASA_5_12", "WEEFIM",
	}, codes)
	assert.Equal(t, 11, c.Len())

	covered := make(map[types.Family]bool)
	for _, inst := range c.List() {
		covered[inst.Family] = true
	}
	for _, f := range types.Families {
		assert.True(t, covered[f], "no seed for family %s", f)
	}
}

func TestSeedsHaveNoFatalFindings(t *testing.T) {
	for _, inst := range loadSeeds(t).List() {
		for _, f := range instrument.Validate(inst) {
			assert.NotEqual(t, types.SeverityError, f.Severity, "%s: %s %s", inst.Code, f.Subject, f.Message)
		}
	}
}

func TestGet(t *testing.T) {
	c := loadSeeds(t)

	inst, err := c.Get("SPM_CASA_5_12")
	require.NoError(t, err)
	assert.Equal(t, types.FamilySPM, inst.Family)
	assert.Equal(t, 60, inst.AgeRange.MinMonths)

	_, err = c.Get("NOPE")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestListFamily(t *testing.T) {
	c := loadSeeds(t)
	fim := c.ListFamily(types.FamilyFIM)
	require.Len(t, fim, 1)
	assert.Equal(t, "FIM", fim[0].Code)
	assert.Empty(t, c.ListFamily(types.Family("XYZ")))
}

func TestNewDuplicate(t *testing.T) {
	a := &instrument.Instrument{Code: "X"}
	_, err := New(a, &instrument.Instrument{Code: "X"})
	assert.True(t, errors.Is(err, ErrDuplicateCode))
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "extra/abc_curta.instrument.yaml", extraInstrument)
	writeFile(t, dir, "notes.yaml", "ignored: true\n")

	c, err := Load(dir, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 12, c.Len())

	inst, err := c.Get("ABC_CURTA")
	require.NoError(t, err)
	assert.Len(t, inst.ActiveItems(), 2)
}

func TestLoadDirDuplicateSeedCode(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "abc.instrument.yaml", strings.Replace(extraInstrument, "ABC_CURTA", "ABC", 1))

	_, err := Load(dir, zap.NewNop())
	assert.True(t, errors.Is(err, ErrDuplicateCode))
}

func TestDecodeErrors(t *testing.T) {
	l, err := NewLoader(nil)
	require.NoError(t, err)

	tests := []struct {
		name    string
		doc     string
		wantErr string
		kind    error
	}{
		{
			name:    "schema violation",
			doc:     strings.Replace(extraInstrument, "family: ABC", "family: XYZ", 1),
			wantErr: "schema validation failed",
		},
		{
			name:    "not yaml",
			doc:     "code: [unterminated",
			wantErr: "schema validation failed",
		},
		{
			name: "wrong response type",
			doc: strings.Replace(extraInstrument, "response_type: NumericPercent\n      - number: 2",
				"response_type: NumericTen\n      - number: 2", 1),
			wantErr: "does not fit family ABC",
			kind:    instrument.ErrInvalidDefinition,
		},
		{
			name:    "duplicate global number",
			doc:     strings.Replace(extraInstrument, "global_number: 2", "global_number: 1", 1),
			wantErr: "global number 1 already used",
			kind:    instrument.ErrInconsistentItemPartition,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := l.Decode("x.instrument.yaml", []byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Contains(t, err.Error(), "x.instrument.yaml")
			if tt.kind != nil {
				assert.True(t, errors.Is(err, tt.kind), "errors.Is(%v, %v)", err, tt.kind)
			}
		})
	}
}

func score(t *testing.T, c *Catalog, code string, fill func(set *answers.AnswerSet)) *scoring.ScoredResult {
	t.Helper()
	inst, err := c.Get(code)
	require.NoError(t, err)
	set := answers.New(code)
	fill(set)
	res, err := scoring.NewEngine().Score(inst, set)
	require.NoError(t, err)
	return res
}

func TestSeedSPMScenarios(t *testing.T) {
	c := loadSeeds(t)

	res := score(t, c, "SPM_CASA_5_12", func(set *answers.AnswerSet) {
		for n := 1; n <= 10; n++ {
			_ = set.Set(n, types.TokenSempre)
		}
		for n := 11; n <= 15; n++ {
			_ = set.Set(n, types.TokenNunca)
		}
		for n := 16; n <= 18; n++ {
			_ = set.Set(n, types.TokenSempre)
		}
	})
	require.NotNil(t, res.SPM)
	assert.True(t, res.Partial)

	byCode := make(map[string]scoring.DomainScore)
	for _, d := range res.SPM.Domains {
		byCode[d.Code] = d
	}
	assert.Equal(t, 10, byCode["SOC"].Raw)
	assert.Equal(t, types.ClassTypical, byCode["SOC"].Classification)
	assert.Equal(t, 17, byCode["VIS"].Raw)
	assert.Equal(t, types.ClassProbableDysfunc, byCode["VIS"].Classification)
}

func TestSeedSensoryProfileSeeking(t *testing.T) {
	c := loadSeeds(t)
	inst, err := c.Get("PS2_CRIANCA")
	require.NoError(t, err)

	var seeking []int
	for _, q := range inst.QuadrantSets() {
		if q.Name == types.QuadrantSeeking {
			seeking = q.Items
		}
	}
	require.Len(t, seeking, 19)

	res := score(t, c, "PS2_CRIANCA", func(set *answers.AnswerSet) {
		for _, n := range seeking {
			_ = set.Set(n, types.TokenQuaseSempre)
		}
	})
	require.NotNil(t, res.SensoryProfile)

	var got scoring.QuadrantScore
	for _, q := range res.SensoryProfile.Quadrants {
		if q.Name == types.QuadrantSeeking {
			got = q
		}
	}
	assert.Equal(t, 95, got.Raw)
	assert.Equal(t, types.LevelMuchMore, got.Level)
	assert.Contains(t, res.SensoryProfile.InterpretationTags, "elevated Seeking pattern")
	assert.Len(t, res.SensoryProfile.Sections, 9)
}

func TestSeedFIMScenario(t *testing.T) {
	c := loadSeeds(t)
	// 13 motor items at 7 sum to 91; the cognitive five sum to 28.
	cognitive := []int{6, 6, 6, 5, 5}
	res := score(t, c, "FIM", func(set *answers.AnswerSet) {
		for n := 1; n <= 13; n++ {
			_ = set.SetInt(n, 7)
		}
		for i, v := range cognitive {
			_ = set.SetInt(14+i, v)
		}
	})
	require.NotNil(t, res.FIM)
	assert.Equal(t, 91, res.FIM.Motor.Raw)
	assert.Equal(t, "COMPLETE_INDEPENDENCE", res.FIM.Motor.Label)
	assert.Equal(t, 28, res.FIM.Cognitive.Raw)
	assert.Equal(t, "MODIFIED_INDEPENDENCE", res.FIM.Cognitive.Label)
	assert.Equal(t, 119, res.FIM.Total.Raw)
	assert.Equal(t, "MODIFIED_INDEPENDENCE", res.FIM.Total.Label)
}

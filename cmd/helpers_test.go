package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/answers"
	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/types"
)

// setupCmdTest runs the test inside a fresh directory with clean viper
// state and default flag values.
func setupCmdTest(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))

	oldCatalog, oldRules, oldQuiet, oldVerbose := catalogDir, rulesFile, quiet, verbose
	catalogDir, rulesFile, quiet, verbose = "", "", false, false
	viper.Reset()
	viper.Set("log.level", "error")

	t.Cleanup(func() {
		_ = os.Chdir(wd)
		viper.Reset()
		catalogDir, rulesFile, quiet, verbose = oldCatalog, oldRules, oldQuiet, oldVerbose
	})
	return dir
}

// mockExit replaces exitFunc and returns a pointer to the last exit code,
// -1 when exitFunc was never called.
func mockExit(t *testing.T) *int {
	t.Helper()
	code := -1
	original := exitFunc
	exitFunc = func(c int) { code = c }
	t.Cleanup(func() { exitFunc = original })
	return &code
}

// writeAnswers writes an answer document and returns its path.
func writeAnswers(t *testing.T, dir, name string, set *answers.AnswerSet) string {
	t.Helper()
	data, err := set.Marshal()
	require.NoError(t, err)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

// spmAnswers answers the SPM 5-12 seed: SOC items always, every other item
// never, which is the lowest raw score in each domain. The first n items
// only are answered when n > 0.
func spmAnswers(t *testing.T, subject string, n int) *answers.AnswerSet {
	t.Helper()
	set := answers.New("SPM_CASA_5_12")
	set.Subject = subject
	if n <= 0 {
		n = 65
	}
	for item := 1; item <= n; item++ {
		tok := types.TokenNunca
		if item <= 10 {
			tok = types.TokenSempre
		}
		require.NoError(t, set.Set(item, tok))
	}
	return set
}

// copmAnswers rates problem 1 only.
func copmAnswers(t *testing.T, performance, satisfaction string) *answers.AnswerSet {
	t.Helper()
	set := answers.New("COPM")
	require.NoError(t, set.Set(1, performance))
	require.NoError(t, set.Set(2, satisfaction))
	return set
}

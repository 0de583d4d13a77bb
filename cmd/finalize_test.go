package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/answers"
)

func TestRunFinalize(t *testing.T) {
	dir := setupCmdTest(t)
	viper.Set("format", "json")
	viper.Set("output", filepath.Join(dir, "report.json"))

	path := writeAnswers(t, dir, "joao.answers.yaml", spmAnswers(t, "joao", 0))
	require.NoError(t, runFinalize(context.Background(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	set, err := answers.Parse(data)
	require.NoError(t, err)
	assert.True(t, set.Finalized())
	assert.False(t, set.FinalizedAt.IsZero())
	assert.Equal(t, 65, set.Len())

	// A second run rescores without rewriting.
	require.NoError(t, runFinalize(context.Background(), path))
	again, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(data), string(again))

	_, err = os.Stat(filepath.Join(dir, "report.json"))
	assert.NoError(t, err)
}

func TestRunFinalize_Incomplete(t *testing.T) {
	dir := setupCmdTest(t)
	viper.Set("format", "json")
	viper.Set("output", filepath.Join(dir, "report.json"))

	path := writeAnswers(t, dir, "joao.answers.yaml", spmAnswers(t, "joao", 20))
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	err = runFinalize(context.Background(), path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, answers.ErrIncomplete))

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after), "an incomplete set stays a draft on disk")
}

func TestRunFinalize_DryRun(t *testing.T) {
	dir := setupCmdTest(t)
	viper.Set("format", "json")
	viper.Set("output", filepath.Join(dir, "report.json"))
	finalizeDryRun = true
	t.Cleanup(func() { finalizeDryRun = false })

	path := writeAnswers(t, dir, "joao.answers.yaml", spmAnswers(t, "joao", 0))
	require.NoError(t, runFinalize(context.Background(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	set, err := answers.Parse(data)
	require.NoError(t, err)
	assert.False(t, set.Finalized())
}

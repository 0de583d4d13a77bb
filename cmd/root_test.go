package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRootCommands(t *testing.T) {
	want := []string{"baseline", "catalog", "compare", "finalize", "fmt", "score", "validate"}
	var got []string
	for _, c := range rootCmd.Commands() {
		if c.Name() == "help" || c.Name() == "completion" {
			continue
		}
		got = append(got, c.Name())
		assert.NotEmpty(t, c.Short, c.Name())
		assert.NotEmpty(t, c.Long, c.Name())
		assert.NotNil(t, c.Run, c.Name())
	}
	assert.ElementsMatch(t, want, got)
}

func TestRootPersistentFlags(t *testing.T) {
	for _, name := range []string{"catalog", "rules", "quiet", "verbose", "format", "output", "log-level"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), name)
	}
	assert.Equal(t, "console", rootCmd.PersistentFlags().Lookup("format").DefValue)
}

func TestExecute_ErrorPath(t *testing.T) {
	code := mockExit(t)
	rootCmd.SetArgs([]string{"--invalid-flag-that-does-not-exist"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	Execute()
	assert.Equal(t, 1, *code)
}

func TestExecute_Help(t *testing.T) {
	code := mockExit(t)
	rootCmd.SetArgs([]string{"--help"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	Execute()
	assert.Equal(t, -1, *code)
}

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/moodmap/internal/config"
)

// chdirTemp switches into an empty temp dir, optionally seeded with a
// config.yaml, and restores cfg afterwards.
func chdirTemp(t *testing.T, configYAML string) string {
	t.Helper()
	dir := t.TempDir()
	if configYAML != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(configYAML), 0o644))
	}
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	oldCfg := cfg
	t.Cleanup(func() { cfg = oldCfg })
	return dir
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		showMetrics = false
		resolveJSON = false
	})
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	expected := []string{"search", "suggest", "resolve", "moods", "autocomplete", "details"}
	for _, name := range expected {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "moodmap", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("metrics"))
}

func TestSearchCommand_Flags(t *testing.T) {
	for _, name := range []string{"lat", "lng", "sort", "min-rating", "max-distance", "open-now", "price", "query", "json", "no-label", "watch"} {
		assert.NotNil(t, searchCmd.Flags().Lookup(name), "search should have --%s flag", name)
	}
	assert.Equal(t, "best", searchCmd.Flags().Lookup("sort").DefValue)
}

func TestPlaceCommands_OriginFlags(t *testing.T) {
	for _, c := range []string{"autocomplete", "details"} {
		cmd, _, err := rootCmd.Find([]string{c})
		require.NoError(t, err)
		assert.NotNil(t, cmd.Flags().Lookup("lat"), "%s --lat", c)
		assert.NotNil(t, cmd.Flags().Lookup("lng"), "%s --lng", c)
	}
}

func TestRootCmd_PersistentPreRunE_WithValidConfig(t *testing.T) {
	chdirTemp(t, `
google:
  key: from-file
log:
  level: info
  format: console
`)
	cfg = nil

	err := rootCmd.PersistentPreRunE(rootCmd, nil)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, "from-file", cfg.Google.Key)
}

func TestRootCmd_PersistentPreRunE_NoConfigFile(t *testing.T) {
	chdirTemp(t, "")
	cfg = nil

	err := rootCmd.PersistentPreRunE(rootCmd, nil)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 20, cfg.Places.MaxResults)
}

func TestRootCmd_PersistentPreRunE_BadLogLevel(t *testing.T) {
	chdirTemp(t, "log:\n  level: loud\n")

	err := rootCmd.PersistentPreRunE(rootCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "init logger")
}

func TestMoodsCommand(t *testing.T) {
	chdirTemp(t, "")

	out, _, err := execute(t, "moods")
	require.NoError(t, err)
	assert.Contains(t, out, "MOOD")
	assert.Contains(t, out, "coffee")
	assert.Contains(t, out, "date-night")
}

func TestSuggestCommand(t *testing.T) {
	chdirTemp(t, "")

	out, _, err := execute(t, "suggest", "night")
	require.NoError(t, err)
	assert.Contains(t, out, "date-night")
	assert.Contains(t, out, "nightlife")

	out, stderr, err := execute(t, "suggest", "qqqq")
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Contains(t, stderr, "No matching moods")
}

func TestResolveCommand_JSON(t *testing.T) {
	chdirTemp(t, "")

	out, _, err := execute(t, "resolve", "romantic", "dinner", "--json")
	require.NoError(t, err)

	var got struct {
		Key        string   `json:"key"`
		Categories []string `json:"categories"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "date-night", got.Key)
	assert.Equal(t, []string{"restaurant", "bar"}, got.Categories)
}

func TestResolveCommand_CustomTable(t *testing.T) {
	dir := chdirTemp(t, "")
	table := filepath.Join(dir, "moods.yaml")
	require.NoError(t, os.WriteFile(table, []byte("moods:\n  - key: tea\n    categories: [cafe]\n    keywords: [matcha]\n"), 0o644))
	t.Setenv("MOODMAP_MOODS_FILE", table)

	out, _, err := execute(t, "resolve", "matcha")
	require.NoError(t, err)
	assert.Contains(t, out, "tea")
}

func TestMetricsFlag(t *testing.T) {
	chdirTemp(t, "")

	_, stderr, err := execute(t, "moods", "--metrics")
	require.NoError(t, err)
	assert.Contains(t, stderr, "moodmap_search_duration_seconds")
}

func TestInitProvider_RequiresKey(t *testing.T) {
	cfg = &config.Config{}
	t.Cleanup(func() { cfg = nil })

	_, err := initProvider()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "google.key is required")
}

func TestSearchCommand_RejectsBadInput(t *testing.T) {
	chdirTemp(t, "")
	t.Cleanup(func() {
		searchSort = "best"
		searchPrice = nil
		searchMinRating = 0
	})

	_, _, err := execute(t, "search", "coffee", "--sort", "random")
	assert.Error(t, err)

	searchSort = "best"
	_, _, err = execute(t, "search", "coffee", "--price", "7")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

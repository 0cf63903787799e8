package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evalforge/crossfail/internal/faults"
	"github.com/evalforge/crossfail/internal/projectconfig"
)

// writeDataset writes a 100-row prediction CSV where exactly the given row
// numbers are misidentified, and returns its path.
func writeDataset(t *testing.T, dir, name string, missed ...int) string {
	t.Helper()

	missedSet := make(map[int]bool, len(missed))
	for _, n := range missed {
		missedSet[n] = true
	}

	var b strings.Builder
	b.WriteString("image_id,correct,predicted_label\n")
	for i := 1; i <= 100; i++ {
		correct := "true"
		if missedSet[i] {
			correct = "false"
		}
		fmt.Fprintf(&b, "%d,%s,label-%d\n", i, correct, i)
	}

	path := filepath.Join(dir, name+".csv")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

func testConfig(t *testing.T) *projectconfig.ProjectConfig {
	t.Helper()
	dir := t.TempDir()

	cfg := projectconfig.New()
	cfg.Dir = dir
	cfg.Models = []projectconfig.ModelConfig{
		{Name: "model-a", Path: writeDataset(t, dir, "model_a", 7, 12, 40)},
		{Name: "model-b", Path: writeDataset(t, dir, "model_b", 12, 40, 55, 61)},
	}
	return cfg
}

func TestBuildDocument_EndToEnd(t *testing.T) {
	cfg := testConfig(t)

	now := time.Date(2026, 8, 23, 10, 0, 0, 0, time.UTC)
	doc, err := buildDocument(cfg, now)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(doc, "# "+projectconfig.DefaultTitle))

	// Expected statistics from the two datasets.
	assert.Contains(t, doc, "| model-a | 100 | 0.9700 | Excellent (>90%) | 3 |")
	assert.Contains(t, doc, "| model-b | 100 | 0.9600 | Excellent (>90%) | 4 |")

	// Common failures: {12, 40}, count 2.
	assert.Contains(t, doc, "Rows misidentified by every model: 2")
	assert.Contains(t, doc, "| 12 |")
	assert.Contains(t, doc, "| 40 |")

	// Default section order: summary, per-model detail, common failures.
	posSummary := strings.Index(doc, "## Summary")
	posDetailA := strings.Index(doc, "## Model: model-a")
	posDetailB := strings.Index(doc, "## Model: model-b")
	posCommon := strings.Index(doc, "## Common Failures")
	require.NotEqual(t, -1, posSummary)
	require.NotEqual(t, -1, posDetailA)
	require.NotEqual(t, -1, posDetailB)
	require.NotEqual(t, -1, posCommon)
	assert.Less(t, posSummary, posDetailA)
	assert.Less(t, posDetailA, posDetailB)
	assert.Less(t, posDetailB, posCommon)

	// Prediction tables included by default.
	assert.Contains(t, doc, "### Predictions")
	assert.Contains(t, doc, "predicted_label")

	// Bootstrap CI rendered for each model.
	assert.Contains(t, doc, "Accuracy 95% CI: [")
}

func TestBuildDocument_SectionOrderFollowsConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Sections = []projectconfig.SectionConfig{
		{ID: "common_failures"},
		{ID: "summary"},
	}

	doc, err := buildDocument(cfg, time.Now())
	require.NoError(t, err)

	posCommon := strings.Index(doc, "## Common Failures")
	posSummary := strings.Index(doc, "## Summary")
	require.NotEqual(t, -1, posCommon)
	require.NotEqual(t, -1, posSummary)
	assert.Less(t, posCommon, posSummary)
	assert.NotContains(t, doc, "## Model:")
}

func TestBuildDocument_ModelDetailWithoutTables(t *testing.T) {
	cfg := testConfig(t)
	cfg.Sections = []projectconfig.SectionConfig{
		{ID: "model_detail", Params: map[string]any{"include_table": false}},
	}

	doc, err := buildDocument(cfg, time.Now())
	require.NoError(t, err)

	assert.Contains(t, doc, "## Model: model-a")
	assert.NotContains(t, doc, "### Predictions")
}

func TestBuildDocument_HTMLFormat(t *testing.T) {
	cfg := testConfig(t)
	cfg.Output.Format = "html"

	doc, err := buildDocument(cfg, time.Now())
	require.NoError(t, err)

	assert.Contains(t, doc, "<!DOCTYPE html>")
	assert.Contains(t, doc, "<table>")
	assert.Contains(t, doc, "<h2>Common Failures</h2>")
}

func TestBuildDocument_UnsupportedFormat(t *testing.T) {
	cfg := testConfig(t)
	cfg.Output.Format = "pdf"

	_, err := buildDocument(cfg, time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported output format "pdf"`)
}

func TestBuildDocument_NoModels(t *testing.T) {
	cfg := projectconfig.New()

	_, err := buildDocument(cfg, time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no models configured")
}

func TestBuildDocument_MissingDataset(t *testing.T) {
	cfg := testConfig(t)
	cfg.Models = append(cfg.Models, projectconfig.ModelConfig{
		Name: "model-c",
		Path: filepath.Join(cfg.Dir, "missing.csv"),
	})

	_, err := buildDocument(cfg, time.Now())
	require.Error(t, err)

	var accessErr *faults.DataAccessError
	assert.True(t, errors.As(err, &accessErr))
}

func TestBuildDocument_EmptyDataset(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.csv")
	require.NoError(t, os.WriteFile(path, []byte("image_id,correct\n"), 0o644))

	cfg := projectconfig.New()
	cfg.Models = []projectconfig.ModelConfig{{Name: "empty-model", Path: path}}

	_, err := buildDocument(cfg, time.Now())
	require.Error(t, err)

	var undefErr *faults.UndefinedStatisticError
	require.True(t, errors.As(err, &undefErr))
	assert.Equal(t, "empty-model", undefErr.Model)
}

func TestBuildDocument_UnknownSection(t *testing.T) {
	cfg := testConfig(t)
	cfg.Sections = []projectconfig.SectionConfig{{ID: "appendix"}}

	_, err := buildDocument(cfg, time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown section id "appendix"`)
}

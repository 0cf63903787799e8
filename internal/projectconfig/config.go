// Package projectconfig provides the ProjectConfig struct and loader for
// .crossfail.yaml project-level configuration files.
package projectconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/evalforge/crossfail/internal/compose"
	"github.com/evalforge/crossfail/internal/modelresult"
	"github.com/evalforge/crossfail/internal/report"
	"github.com/evalforge/crossfail/internal/validation"
)

// ConfigFileName is the file the loader searches for.
const ConfigFileName = ".crossfail.yaml"

// Default values for project configuration. These are the single source of
// truth; New() references them and no other code should duplicate them.
const (
	DefaultTitle        = "Model Misclassification Report"
	DefaultOutputPath   = "report.md"
	DefaultOutputFormat = report.FormatMarkdown
)

// OutputConfig holds the output artifact location and format.
type OutputConfig struct {
	Path   string `yaml:"path,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// DatasetConfig names the columns the loader interprets.
type DatasetConfig struct {
	IndexColumn       string `yaml:"index_column,omitempty"`
	CorrectnessColumn string `yaml:"correctness_column,omitempty"`
}

// ModelConfig names one model and its prediction table.
type ModelConfig struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

// SectionConfig selects one report section. Params are decoded by the
// section builder that consumes them.
type SectionConfig struct {
	ID     string         `yaml:"id"`
	Params map[string]any `yaml:"params,omitempty"`
}

// ProjectConfig is the top-level configuration loaded from .crossfail.yaml.
type ProjectConfig struct {
	Title    string          `yaml:"title,omitempty"`
	Output   OutputConfig    `yaml:"output,omitempty"`
	Dataset  DatasetConfig   `yaml:"dataset,omitempty"`
	Models   []ModelConfig   `yaml:"models"`
	Sections []SectionConfig `yaml:"sections,omitempty"`

	// Dir is the directory the config file was found in, used to resolve
	// relative paths. Empty when running on pure defaults.
	Dir string `yaml:"-"`
}

// New returns a ProjectConfig with all hard-coded defaults populated.
// Models are intentionally empty: there is no sensible default dataset.
func New() *ProjectConfig {
	return &ProjectConfig{
		Title: DefaultTitle,
		Output: OutputConfig{
			Path:   DefaultOutputPath,
			Format: DefaultOutputFormat,
		},
		Dataset: DatasetConfig{
			IndexColumn:       modelresult.DefaultIndexColumn,
			CorrectnessColumn: modelresult.DefaultCorrectnessColumn,
		},
		Sections: DefaultSections(),
	}
}

// DefaultSections returns the section sequence used when the config file
// does not declare one.
func DefaultSections() []SectionConfig {
	return []SectionConfig{
		{ID: compose.TemplateSummary},
		{ID: compose.TemplateModelDetail, Params: map[string]any{"include_table": true}},
		{ID: compose.TemplateCommonFailures},
	}
}

// Load finds .crossfail.yaml by walking up from startDir (max 10 levels),
// validates it against the embedded schema, unmarshals it, and fills in
// missing fields with defaults. If no config file is found, returns
// defaults with a nil error. Real I/O errors (e.g. permission denied) are
// returned to the caller.
func Load(startDir string) (*ProjectConfig, error) {
	cfg := New()

	data, dir, err := findConfigFile(startDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("loading %s: %w", ConfigFileName, err)
	}

	if errs := validation.ValidateConfigBytes(data); len(errs) > 0 {
		return nil, fmt.Errorf("invalid %s:\n  %s", ConfigFileName, strings.Join(errs, "\n  "))
	}

	var fileCfg ProjectConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", ConfigFileName, err)
	}

	mergeConfig(cfg, &fileCfg)
	cfg.Dir = dir
	return cfg, nil
}

// ResolvePath resolves a path from the config file relative to the config
// file's directory. Absolute paths are returned unchanged.
func (c *ProjectConfig) ResolvePath(path string) string {
	if filepath.IsAbs(path) || c.Dir == "" {
		return path
	}
	return filepath.Join(c.Dir, path)
}

// findConfigFile walks up from dir looking for .crossfail.yaml (max 10
// levels). Returns os.ErrNotExist if no config file is found. Propagates
// real I/O errors (e.g. permission denied) instead of silently swallowing
// them.
func findConfigFile(dir string) ([]byte, string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, "", fmt.Errorf("resolving path %q: %w", dir, err)
	}
	dir = absDir

	for i := 0; i < 10; i++ {
		p := filepath.Join(dir, ConfigFileName)
		data, err := os.ReadFile(p)
		if err == nil {
			return data, dir, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, "", fmt.Errorf("reading %q: %w", p, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break // reached filesystem root
		}
		dir = parent
	}
	return nil, "", os.ErrNotExist
}

// mergeConfig overlays non-zero values from src onto dst.
func mergeConfig(dst, src *ProjectConfig) {
	if src.Title != "" {
		dst.Title = src.Title
	}
	if src.Output.Path != "" {
		dst.Output.Path = src.Output.Path
	}
	if src.Output.Format != "" {
		dst.Output.Format = src.Output.Format
	}
	if src.Dataset.IndexColumn != "" {
		dst.Dataset.IndexColumn = src.Dataset.IndexColumn
	}
	if src.Dataset.CorrectnessColumn != "" {
		dst.Dataset.CorrectnessColumn = src.Dataset.CorrectnessColumn
	}
	if len(src.Models) > 0 {
		dst.Models = src.Models
	}
	if len(src.Sections) > 0 {
		dst.Sections = src.Sections
	}
}

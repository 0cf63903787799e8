package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cobra"

	"github.com/evalforge/crossfail/internal/analysis"
	"github.com/evalforge/crossfail/internal/compose"
	"github.com/evalforge/crossfail/internal/modelresult"
	"github.com/evalforge/crossfail/internal/projectconfig"
	"github.com/evalforge/crossfail/internal/report"
	"github.com/evalforge/crossfail/internal/statistics"
)

func newReportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Generate the cross-model misclassification report",
		Long: `Load every configured prediction table, derive per-model accuracy and
misidentified-row statistics, intersect the failure sets across all models,
and write the assembled report to the configured output path.

Configuration comes from .crossfail.yaml, found by walking up from the
current directory.`,
		Args: cobra.NoArgs,
		RunE: reportCommandE,
	}
}

func reportCommandE(_ *cobra.Command, _ []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolving working directory: %w", err)
	}

	cfg, err := projectconfig.Load(cwd)
	if err != nil {
		return err
	}

	doc, err := buildDocument(cfg, time.Now())
	if err != nil {
		return err
	}

	outPath := cfg.ResolvePath(cfg.Output.Path)
	if err := report.Persist(doc, outPath); err != nil {
		return err
	}

	fmt.Printf("Report written to %s\n", outPath)
	return nil
}

// modelDetailParams are the options accepted by a model_detail section's
// params block.
type modelDetailParams struct {
	IncludeTable bool `mapstructure:"include_table"`
}

// buildDocument runs the full pipeline short of persistence: load, derive,
// analyze, render each configured section in order, assemble. Every phase
// completes (or fails) before the next begins.
func buildDocument(cfg *projectconfig.ProjectConfig, now time.Time) (string, error) {
	if len(cfg.Models) == 0 {
		return "", fmt.Errorf("no models configured: add a models list to %s", projectconfig.ConfigFileName)
	}
	if cfg.Output.Format != report.FormatMarkdown && cfg.Output.Format != report.FormatHTML {
		return "", fmt.Errorf("unsupported output format %q: must be %s or %s",
			cfg.Output.Format, report.FormatMarkdown, report.FormatHTML)
	}

	opts := modelresult.Options{
		IndexColumn:       cfg.Dataset.IndexColumn,
		CorrectnessColumn: cfg.Dataset.CorrectnessColumn,
	}

	results := make([]*modelresult.ModelResult, 0, len(cfg.Models))
	for _, m := range cfg.Models {
		path := cfg.ResolvePath(m.Path)
		slog.Debug("loading dataset", "model", m.Name, "path", path)
		r, err := modelresult.Build(m.Name, path, opts)
		if err != nil {
			return "", err
		}
		slog.Debug("dataset loaded",
			"model", m.Name, "rows", r.RowCount(), "misidentified", r.NumberMisidentified())
		results = append(results, r)
	}

	composer, err := compose.New()
	if err != nil {
		return "", err
	}

	var sections []string
	for _, sc := range cfg.Sections {
		rendered, err := buildSection(composer, sc, results, now)
		if err != nil {
			return "", err
		}
		sections = append(sections, rendered...)
	}

	doc, err := report.Assemble(cfg.Title, sections)
	if err != nil {
		return "", err
	}

	if cfg.Output.Format == report.FormatHTML {
		return report.RenderHTML(cfg.Title, doc)
	}
	return doc, nil
}

// buildSection renders one configured section. model_detail expands to one
// fragment per model, in config order.
func buildSection(composer *compose.Composer, sc projectconfig.SectionConfig, results []*modelresult.ModelResult, now time.Time) ([]string, error) {
	switch sc.ID {
	case compose.TemplateSummary:
		views := make([]modelresult.View, 0, len(results))
		for _, r := range results {
			v, err := r.View()
			if err != nil {
				return nil, err
			}
			views = append(views, v)
		}
		out, err := composer.Render(compose.TemplateSummary, map[string]any{
			"GeneratedAt": now.UTC().Format(time.RFC3339),
			"Models":      views,
		})
		if err != nil {
			return nil, err
		}
		return []string{out}, nil

	case compose.TemplateModelDetail:
		params := modelDetailParams{IncludeTable: true}
		if len(sc.Params) > 0 {
			if err := mapstructure.Decode(sc.Params, &params); err != nil {
				return nil, fmt.Errorf("section %q: decoding params: %w", sc.ID, err)
			}
		}

		sections := make([]string, 0, len(results))
		for _, r := range results {
			v, err := r.View()
			if err != nil {
				return nil, err
			}
			table := ""
			if params.IncludeTable {
				table = r.TableMarkup()
			}
			// Fixed seed keeps successive runs of the same datasets
			// byte-identical.
			correct := v.RowCount - v.NumberMisidentified
			ci := statistics.BinaryAccuracyCI(correct, v.RowCount, 0.95, 0)
			out, err := composer.Render(compose.TemplateModelDetail, map[string]any{
				"ModelName":           v.ModelName,
				"RowCount":            v.RowCount,
				"Accuracy":            v.Accuracy,
				"AccuracyCI":          fmt.Sprintf("[%.4f, %.4f]", ci.Lower, ci.Upper),
				"NumberMisidentified": v.NumberMisidentified,
				"MisidentifiedIDs":    v.MisidentifiedIDs,
				"IncludeTable":        params.IncludeTable,
				"Table":               table,
			})
			if err != nil {
				return nil, err
			}
			sections = append(sections, out)
		}
		return sections, nil

	case compose.TemplateCommonFailures:
		ids, count, err := analysis.CommonFailures(results)
		if err != nil {
			return nil, err
		}
		names := make([]string, 0, len(results))
		for _, r := range results {
			names = append(names, r.Name())
		}
		out, err := composer.Render(compose.TemplateCommonFailures, map[string]any{
			"ModelNames":  names,
			"CommonIDs":   ids,
			"CommonCount": count,
		})
		if err != nil {
			return nil, err
		}
		return []string{out}, nil

	default:
		return nil, fmt.Errorf("unknown section id %q", sc.ID)
	}
}

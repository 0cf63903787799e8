package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/evalforge/crossfail/internal/modelresult"
	"github.com/evalforge/crossfail/internal/projectconfig"
)

func newCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the configuration and datasets without writing a report",
		Long: `Load the project configuration and every configured prediction table,
reporting per-dataset status. Nothing is written. Exits non-zero if any
dataset is missing, malformed, or empty.`,
		Args: cobra.NoArgs,
		RunE: checkCommandE,
	}
}

// datasetStatus is one row of the check output.
type datasetStatus struct {
	Name   string
	OK     bool
	Detail string
}

func checkCommandE(_ *cobra.Command, _ []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolving working directory: %w", err)
	}

	cfg, err := projectconfig.Load(cwd)
	if err != nil {
		return err
	}
	if len(cfg.Models) == 0 {
		return fmt.Errorf("no models configured: add a models list to %s", projectconfig.ConfigFileName)
	}

	statuses := checkDatasets(cfg)
	printDatasetStatuses(statuses)

	failed := 0
	for _, s := range statuses {
		if !s.OK {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("check failed: %d of %d datasets invalid", failed, len(statuses))
	}
	fmt.Println("All datasets valid.")
	return nil
}

// checkDatasets builds each configured model result and records whether the
// report pipeline would accept it. A zero-row dataset is invalid because
// its accuracy is undefined.
func checkDatasets(cfg *projectconfig.ProjectConfig) []datasetStatus {
	opts := modelresult.Options{
		IndexColumn:       cfg.Dataset.IndexColumn,
		CorrectnessColumn: cfg.Dataset.CorrectnessColumn,
	}

	statuses := make([]datasetStatus, 0, len(cfg.Models))
	for _, m := range cfg.Models {
		r, err := modelresult.Build(m.Name, cfg.ResolvePath(m.Path), opts)
		if err != nil {
			statuses = append(statuses, datasetStatus{Name: m.Name, Detail: err.Error()})
			continue
		}
		acc, err := r.Accuracy()
		if err != nil {
			statuses = append(statuses, datasetStatus{Name: m.Name, Detail: err.Error()})
			continue
		}
		statuses = append(statuses, datasetStatus{
			Name: m.Name,
			OK:   true,
			Detail: fmt.Sprintf("%d rows, accuracy %.4f, %d misidentified",
				r.RowCount(), acc, r.NumberMisidentified()),
		})
	}
	return statuses
}

func printDatasetStatuses(statuses []datasetStatus) {
	nameWidth := len("Model")
	for _, s := range statuses {
		if w := runewidth.StringWidth(s.Name); w > nameWidth {
			nameWidth = w
		}
	}

	fmt.Printf("%s  %s  %s\n", padRight("Model", nameWidth), "OK", "Detail")
	for _, s := range statuses {
		icon := "✓"
		if !s.OK {
			icon = "✗"
		}
		fmt.Printf("%s  %s   %s\n", padRight(s.Name, nameWidth), icon, s.Detail)
	}
}

// padRight pads s with spaces so its terminal display width reaches width.
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return s + strings.Repeat(" ", width-sw)
}

// Package modelresult derives per-model accuracy and failure statistics
// from one prediction table. A ModelResult is immutable: every derived
// value is computed exactly once at construction.
package modelresult

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/evalforge/crossfail/internal/dataset"
	"github.com/evalforge/crossfail/internal/faults"
)

// Default column names for prediction tables.
const (
	DefaultIndexColumn       = "image_id"
	DefaultCorrectnessColumn = "correct"
)

// Options selects which table columns carry the row identifier and the
// per-row correctness flag.
type Options struct {
	IndexColumn       string
	CorrectnessColumn string
}

func (o Options) withDefaults() Options {
	if o.IndexColumn == "" {
		o.IndexColumn = DefaultIndexColumn
	}
	if o.CorrectnessColumn == "" {
		o.CorrectnessColumn = DefaultCorrectnessColumn
	}
	return o
}

// ModelResult wraps one model's prediction table together with its derived
// statistics. Construct with Build; there is no mutation afterward.
type ModelResult struct {
	name          string
	source        string
	table         *dataset.Table
	rowCount      int
	correctCount  int
	accuracy      float64 // meaningful only when rowCount > 0
	misidentified []string
}

// Build loads the prediction table at path and derives all statistics for
// the named model. The correctness column must hold boolean values
// (true/false, 1/0, t/f). A zero-row table builds successfully; only
// Accuracy is undefined for it.
func Build(name string, path string, opts Options) (*ModelResult, error) {
	opts = opts.withDefaults()

	table, err := dataset.Load(path, opts.IndexColumn)
	if err != nil {
		return nil, err
	}

	r := &ModelResult{
		name:     name,
		source:   path,
		table:    table,
		rowCount: table.Len(),
	}

	for i := 0; i < table.Len(); i++ {
		raw, ok := table.Row(i)[opts.CorrectnessColumn]
		if !ok {
			return nil, &faults.DataFormatError{
				Path:   path,
				Reason: fmt.Sprintf("missing correctness column %q", opts.CorrectnessColumn),
			}
		}
		correct, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return nil, &faults.DataFormatError{
				Path:   path,
				Reason: fmt.Sprintf("row %d: correctness value %q is not a boolean", i+2, raw),
			}
		}
		if correct {
			r.correctCount++
		} else {
			r.misidentified = append(r.misidentified, table.ID(i))
		}
	}

	// Sorted once here so every downstream rendering is stable.
	sort.Strings(r.misidentified)

	if r.rowCount > 0 {
		r.accuracy = float64(r.correctCount) / float64(r.rowCount)
	}

	return r, nil
}

// Name returns the model's label.
func (r *ModelResult) Name() string {
	return r.name
}

// Source returns the path the prediction table was loaded from.
func (r *ModelResult) Source() string {
	return r.source
}

// RowCount returns the number of prediction rows.
func (r *ModelResult) RowCount() int {
	return r.rowCount
}

// Accuracy returns the fraction of rows predicted correctly, in [0, 1].
// Accuracy of an empty dataset is not meaningful, so a zero-row result
// returns an UndefinedStatisticError rather than 0 or NaN.
func (r *ModelResult) Accuracy() (float64, error) {
	if r.rowCount == 0 {
		return 0, &faults.UndefinedStatisticError{Statistic: "accuracy", Model: r.name}
	}
	return r.accuracy, nil
}

// MisidentifiedIDs returns the identifiers of rows whose correctness flag
// is false, sorted. The returned slice is a copy.
func (r *ModelResult) MisidentifiedIDs() []string {
	out := make([]string, len(r.misidentified))
	copy(out, r.misidentified)
	return out
}

// NumberMisidentified returns the size of the misidentified set.
func (r *ModelResult) NumberMisidentified() int {
	return len(r.misidentified)
}

// View is the flat record shape handed to report templates.
type View struct {
	ModelName           string
	RowCount            int
	Accuracy            float64
	MisidentifiedIDs    []string
	NumberMisidentified int
}

// View returns the template-facing projection of this result. It fails for
// a zero-row result, since the projection includes accuracy.
func (r *ModelResult) View() (View, error) {
	acc, err := r.Accuracy()
	if err != nil {
		return View{}, err
	}
	return View{
		ModelName:           r.name,
		RowCount:            r.rowCount,
		Accuracy:            acc,
		MisidentifiedIDs:    r.MisidentifiedIDs(),
		NumberMisidentified: r.NumberMisidentified(),
	}, nil
}

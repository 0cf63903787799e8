// Package compose binds named data into named section templates. The
// composer validates bindings against each template's declared placeholder
// names before delegating substitution to text/template, so a drifted
// binding map surfaces as a BindingError instead of a silent blank.
package compose

import (
	"bytes"
	"embed"
	"fmt"
	"sort"
	"strings"
	"text/template"

	"github.com/evalforge/crossfail/internal/faults"
	"github.com/evalforge/crossfail/internal/report"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Section template identifiers.
const (
	TemplateSummary        = "summary"
	TemplateModelDetail    = "model_detail"
	TemplateCommonFailures = "common_failures"
)

// requiredBindings declares, per template, the exact placeholder names the
// template consumes. Render enforces this in both directions: every
// declared name must be bound, and no undeclared name may be bound.
var requiredBindings = map[string][]string{
	TemplateSummary: {"GeneratedAt", "Models"},
	TemplateModelDetail: {
		"ModelName", "RowCount", "Accuracy", "AccuracyCI",
		"NumberMisidentified", "MisidentifiedIDs",
		"IncludeTable", "Table",
	},
	TemplateCommonFailures: {"ModelNames", "CommonIDs", "CommonCount"},
}

// Composer renders report sections from the embedded template set. It is
// constructed once at pipeline start and carries no mutable state.
type Composer struct {
	templates map[string]*template.Template
}

// New parses the embedded section templates.
func New() (*Composer, error) {
	funcs := template.FuncMap{
		"interpret": report.InterpretAccuracy,
		"join":      strings.Join,
	}

	templates := make(map[string]*template.Template, len(requiredBindings))
	for id := range requiredBindings {
		raw, err := templateFS.ReadFile("templates/" + id + ".tmpl")
		if err != nil {
			return nil, fmt.Errorf("compose: reading template %q: %w", id, err)
		}
		t, err := template.New(id).Funcs(funcs).Option("missingkey=error").Parse(string(raw))
		if err != nil {
			return nil, fmt.Errorf("compose: parsing template %q: %w", id, err)
		}
		templates[id] = t
	}

	return &Composer{templates: templates}, nil
}

// TemplateIDs returns the registered template identifiers, sorted.
func (c *Composer) TemplateIDs() []string {
	ids := make([]string, 0, len(c.templates))
	for id := range c.templates {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Render binds the given values into the named template and returns the
// rendered fragment. The fragment is opaque to every downstream component.
func (c *Composer) Render(templateID string, bindings map[string]any) (string, error) {
	t, ok := c.templates[templateID]
	if !ok {
		return "", &faults.BindingError{TemplateID: templateID, Unknown: true}
	}

	if err := checkBindings(templateID, bindings); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, bindings); err != nil {
		return "", fmt.Errorf("compose: rendering %q: %w", templateID, err)
	}
	return buf.String(), nil
}

func checkBindings(templateID string, bindings map[string]any) error {
	declared := make(map[string]struct{}, len(requiredBindings[templateID]))
	for _, name := range requiredBindings[templateID] {
		declared[name] = struct{}{}
	}

	var missing, extra []string
	for name := range declared {
		if _, ok := bindings[name]; !ok {
			missing = append(missing, name)
		}
	}
	for name := range bindings {
		if _, ok := declared[name]; !ok {
			extra = append(extra, name)
		}
	}

	if len(missing) == 0 && len(extra) == 0 {
		return nil
	}
	sort.Strings(missing)
	sort.Strings(extra)
	return &faults.BindingError{TemplateID: templateID, Missing: missing, Extra: extra}
}

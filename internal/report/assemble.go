// Package report assembles rendered sections into the final document and
// persists it. Sections are opaque here: the assembler never inspects or
// rewrites a fragment, it only orders them under one title.
package report

import (
	"bytes"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/evalforge/crossfail/internal/faults"
)

// Output formats accepted by the report command.
const (
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
)

type documentData struct {
	Title    string
	Sections []string
}

var documentTemplate = template.Must(template.New("document").Parse(documentTemplateText))

const documentTemplateText = `# {{.Title}}
{{range .Sections}}
{{.}}
{{end}}`

// Assemble concatenates sections strictly in the order given, wrapped once
// in the outer document template. No section is reordered, dropped, or
// deduplicated. An empty sequence or a blank section is an AssemblyError.
func Assemble(title string, sections []string) (string, error) {
	if len(sections) == 0 {
		return "", &faults.AssemblyError{Reason: "no sections to assemble"}
	}
	for i, s := range sections {
		if strings.TrimSpace(s) == "" {
			return "", &faults.AssemblyError{Reason: fmt.Sprintf("section %d is empty", i)}
		}
	}

	normalized := make([]string, len(sections))
	for i, s := range sections {
		normalized[i] = strings.TrimRight(s, "\n")
	}

	var buf bytes.Buffer
	if err := documentTemplate.Execute(&buf, documentData{Title: title, Sections: normalized}); err != nil {
		return "", &faults.AssemblyError{Reason: err.Error()}
	}
	return buf.String(), nil
}

// RenderHTML converts an assembled markdown document into a self-contained
// HTML page. Tables use the GFM extension so the summary and prediction
// tables survive the conversion.
func RenderHTML(title string, markdown string) (string, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))

	var body bytes.Buffer
	if err := md.Convert([]byte(markdown), &body); err != nil {
		return "", fmt.Errorf("report: converting markdown to HTML: %w", err)
	}

	var page strings.Builder
	page.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n")
	page.WriteString("<title>" + html.EscapeString(title) + "</title>\n</head>\n<body>\n")
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")
	return page.String(), nil
}

// Persist writes the complete document to path. The write goes to a
// temporary file in the destination directory which is then renamed into
// place, so a partially written file is never left at path.
func Persist(document string, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &faults.DataAccessError{Op: "write", Path: path, Err: err}
	}

	tmp, err := os.CreateTemp(dir, ".crossfail-*")
	if err != nil {
		return &faults.DataAccessError{Op: "write", Path: path, Err: err}
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(document); err != nil {
		tmp.Close()          //nolint:errcheck
		os.Remove(tmpName)   //nolint:errcheck
		return &faults.DataAccessError{Op: "write", Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName) //nolint:errcheck
		return &faults.DataAccessError{Op: "write", Path: path, Err: err}
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName) //nolint:errcheck
		return &faults.DataAccessError{Op: "write", Path: path, Err: err}
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName) //nolint:errcheck
		return &faults.DataAccessError{Op: "write", Path: path, Err: err}
	}
	return nil
}

// Package faults defines the error taxonomy shared across the report
// pipeline. Every error aborts the run; callers match with errors.As.
package faults

import (
	"fmt"
	"strings"
)

// DataAccessError indicates a missing or unreadable input file, or an
// unwritable output destination.
type DataAccessError struct {
	Op   string // "open", "read", "write"
	Path string
	Err  error
}

func (e *DataAccessError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *DataAccessError) Unwrap() error {
	return e.Err
}

// DataFormatError indicates a table whose declared schema cannot be parsed:
// a missing or duplicated index column, inconsistent row width, or an
// unparsable correctness value.
type DataFormatError struct {
	Path   string
	Reason string
}

func (e *DataFormatError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}

// UndefinedStatisticError indicates a statistic requested on a zero-row
// dataset, where the value is not meaningful.
type UndefinedStatisticError struct {
	Statistic string
	Model     string
}

func (e *UndefinedStatisticError) Error() string {
	return fmt.Sprintf("%s is undefined for model %q: dataset has no rows", e.Statistic, e.Model)
}

// BindingError indicates a mismatch between a template's declared
// placeholders and the bindings supplied for it. Both directions are
// reported: required names with no binding, and bindings for names the
// template does not declare.
type BindingError struct {
	TemplateID string
	Unknown    bool // no template registered under TemplateID
	Missing    []string
	Extra      []string
}

func (e *BindingError) Error() string {
	if e.Unknown {
		return fmt.Sprintf("template %q: not registered", e.TemplateID)
	}
	parts := make([]string, 0, 2)
	if len(e.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("missing bindings [%s]", strings.Join(e.Missing, ", ")))
	}
	if len(e.Extra) > 0 {
		parts = append(parts, fmt.Sprintf("undeclared bindings [%s]", strings.Join(e.Extra, ", ")))
	}
	return fmt.Sprintf("template %q: %s", e.TemplateID, strings.Join(parts, "; "))
}

// InvariantViolation indicates an operation invoked outside its defined
// domain, such as a cross-model comparison over zero models.
type InvariantViolation struct {
	Reason string
}

func (e *InvariantViolation) Error() string {
	return e.Reason
}

// AssemblyError indicates an incomplete section sequence handed to the
// report assembler.
type AssemblyError struct {
	Reason string
}

func (e *AssemblyError) Error() string {
	return fmt.Sprintf("assembling report: %s", e.Reason)
}

package diagnostics

import "sort"

// Engine is an append-only diagnostic sink for a single Unit. Emission
// order is always preserved; a stable display order of (line, column,
// code) is also available.
type Engine struct {
	entries []Diagnostic
}

// NewEngine returns an empty Engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Report appends a diagnostic. Never mutates or removes prior entries.
func (e *Engine) Report(d Diagnostic) {
	e.entries = append(e.entries, d)
}

// All returns the diagnostics in emission order.
func (e *Engine) All() []Diagnostic {
	return e.entries
}

// HasErrors reports whether any entry is Error or Fatal severity.
func (e *Engine) HasErrors() bool {
	for _, d := range e.entries {
		if d.Severity == Error || d.Severity == Fatal {
			return true
		}
	}
	return false
}

// Filter returns entries matching pred, preserving emission order.
func (e *Engine) Filter(pred func(Diagnostic) bool) []Diagnostic {
	var out []Diagnostic
	for _, d := range e.entries {
		if pred(d) {
			out = append(out, d)
		}
	}
	return out
}

// BySeverity filters to a single severity level.
func (e *Engine) BySeverity(s Severity) []Diagnostic {
	return e.Filter(func(d Diagnostic) bool { return d.Severity == s })
}

// ByCode filters to a single diagnostic code.
func (e *Engine) ByCode(c Code) []Diagnostic {
	return e.Filter(func(d Diagnostic) bool { return d.Code == c })
}

// SortedForDisplay returns a copy of All(), stably sorted by
// (span.line, span.column, code), a reasonable default for display.
func (e *Engine) SortedForDisplay() []Diagnostic {
	out := append([]Diagnostic(nil), e.entries...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Span.StartLine != b.Span.StartLine {
			return a.Span.StartLine < b.Span.StartLine
		}
		if a.Span.StartCol != b.Span.StartCol {
			return a.Span.StartCol < b.Span.StartCol
		}
		return a.Code < b.Code
	})
	return out
}

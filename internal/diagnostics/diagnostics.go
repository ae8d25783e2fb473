// Package diagnostics implements the Diagnostic Engine: kinded
// diagnostics with spans, hints, and fix-its, partitioned by
// producer code family (P parser, T type, R resolution, Q compression/
// backend boundary).
package diagnostics

import "fmt"

// Severity ranks a Diagnostic.
type Severity int

const (
	Info Severity = iota
	Warning
	Error
	Fatal
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	case Fatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Span is a byte/line/column range, matching the Token span shape the
// external tokenizer provides (§3.2, §6).
type Span struct {
	StartByte, EndByte int
	StartLine, EndLine int
	StartCol, EndCol   int
}

// Fix is a suggested textual replacement for a Span.
type Fix struct {
	Span        Span
	Replacement string
}

// Code is a producer-tagged diagnostic code, e.g. "P0001".
type Code string

// Parser codes.
const (
	ErrP0001UnexpectedToken   Code = "P0001"
	ErrP0002S0FeatureBlocked  Code = "P0002"
	ErrP0003UnitCreateFailed  Code = "P0003"
	ErrP0004InvalidTokenKind  Code = "P0004"
)

// Type / Analysis codes.
const (
	ErrT0001TypeMismatch        Code = "T0001"
	ErrT0002UnknownType         Code = "T0002"
	ErrT0003ConstraintViolation Code = "T0003"
	ErrT0004TypeArgArity        Code = "T0004"
	ErrT0005ContractViolation   Code = "T0005"
)

// Resolution codes.
const (
	ErrR0001NoMatchingImpl    Code = "R0001"
	ErrR0002AmbiguousDispatch Code = "R0002"
	ErrR0003MissingImport     Code = "R0003"
	ErrR0004CircularDep       Code = "R0004"
	ErrR0005ExportConflict    Code = "R0005"
	ErrR0006HotReloadIncon    Code = "R0006"
)

// Compression / backend-boundary codes.
const (
	ErrQ0001CompressionRoundTrip Code = "Q0001"
)

// Diagnostic is the engine's sole unit of reporting.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Span     Span
	Hints    []string
	Fix      *Fix
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s[%s] %d:%d: %s", d.Severity, d.Code, d.Span.StartLine, d.Span.StartCol, d.Message)
}

// New builds an Error-severity diagnostic. Use the Severity-specific
// constructors below for other levels.
func New(code Code, span Span, message string) Diagnostic {
	return Diagnostic{Severity: Error, Code: code, Message: message, Span: span}
}

func NewFatal(code Code, span Span, message string) Diagnostic {
	return Diagnostic{Severity: Fatal, Code: code, Message: message, Span: span}
}

func NewWarning(code Code, span Span, message string) Diagnostic {
	return Diagnostic{Severity: Warning, Code: code, Message: message, Span: span}
}

// WithHints returns a copy of d with hints appended.
func (d Diagnostic) WithHints(hints ...string) Diagnostic {
	d.Hints = append(append([]string{}, d.Hints...), hints...)
	return d
}

// WithFix returns a copy of d carrying a suggested fix-it.
func (d Diagnostic) WithFix(fix Fix) Diagnostic {
	d.Fix = &fix
	return d
}

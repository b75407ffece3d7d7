package fhirquery

// Severity classifies how a diagnostic should be treated by the caller.
type Severity string

const (
	// SeverityError indicates the request as typed would be rejected or
	// misinterpreted by the server.
	SeverityError Severity = "error"
	// SeverityWarning indicates likely-unintended but not necessarily
	// invalid input.
	SeverityWarning Severity = "warning"
	// SeverityInfo is reserved for informational feedback. It is part of
	// the contract but currently unused by the built-in checks.
	SeverityInfo Severity = "info"
)

// Code identifies the kind of problem a diagnostic reports, independent of
// its message text, so callers and tests can filter programmatically.
type Code string

// Diagnostic codes emitted by the diagnose package.
const (
	// CodeUnknownResource indicates a resource type not present in the
	// server's capability metadata.
	CodeUnknownResource Code = "unknown-resource"
	// CodeUnknownParam indicates a search parameter the resource does not
	// declare.
	CodeUnknownParam Code = "unknown-param"
	// CodeInvalidModifier indicates a modifier the parameter does not
	// support.
	CodeInvalidModifier Code = "invalid-modifier"
	// CodeInvalidPrefix indicates a comparator prefix on a parameter whose
	// type does not accept prefixes.
	CodeInvalidPrefix Code = "invalid-prefix"
	// CodeInvalidValue indicates a special-parameter value outside its
	// allowed set or range.
	CodeInvalidValue Code = "invalid-value"
	// CodeEmptyParamName indicates a query token with no parameter name.
	CodeEmptyParamName Code = "empty-param-name"
	// CodeEmptyValue indicates a parameter with an explicitly empty value.
	CodeEmptyValue Code = "empty-value"
	// CodeDuplicateParam indicates a non-repeatable parameter that appears
	// more than once.
	CodeDuplicateParam Code = "duplicate-param"
)

// Diagnostic is a single issue found in a parsed query. Diagnostics are
// always fully computed and returned in AST traversal order (path first,
// then parameters in original order); callers may re-sort for display.
type Diagnostic struct {
	// Severity of the issue.
	Severity Severity `json:"severity"`

	// Code identifying the kind of issue.
	Code Code `json:"code"`

	// Message contains human-readable details.
	Message string `json:"message"`

	// Span locates the flagged token in the original raw string.
	Span TextSpan `json:"span"`
}

// IsError returns true if this is an error diagnostic.
func (d Diagnostic) IsError() bool {
	return d.Severity == SeverityError
}

// IsWarning returns true if this is a warning diagnostic.
func (d Diagnostic) IsWarning() bool {
	return d.Severity == SeverityWarning
}

// String returns a human-readable representation of the diagnostic.
func (d Diagnostic) String() string {
	return string(d.Severity) + " [" + string(d.Code) + "] " + d.Message
}

// DiagnosticBuilder provides a fluent API for building diagnostics.
type DiagnosticBuilder struct {
	d Diagnostic
}

// NewDiagnostic creates a new DiagnosticBuilder.
func NewDiagnostic(severity Severity, code Code) *DiagnosticBuilder {
	return &DiagnosticBuilder{d: Diagnostic{Severity: severity, Code: code}}
}

// Error creates an error diagnostic builder.
func Error(code Code) *DiagnosticBuilder {
	return NewDiagnostic(SeverityError, code)
}

// Warning creates a warning diagnostic builder.
func Warning(code Code) *DiagnosticBuilder {
	return NewDiagnostic(SeverityWarning, code)
}

// Info creates an informational diagnostic builder.
func Info(code Code) *DiagnosticBuilder {
	return NewDiagnostic(SeverityInfo, code)
}

// Message sets the diagnostic message.
func (b *DiagnosticBuilder) Message(msg string) *DiagnosticBuilder {
	b.d.Message = msg
	return b
}

// At sets the span of the flagged token.
func (b *DiagnosticBuilder) At(span TextSpan) *DiagnosticBuilder {
	b.d.Span = span
	return b
}

// Build returns the constructed diagnostic.
func (b *DiagnosticBuilder) Build() Diagnostic {
	return b.d
}

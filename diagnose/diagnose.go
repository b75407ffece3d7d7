// Package diagnose validates a parsed query against server capability
// metadata and produces severity-tagged diagnostics. Validation is split
// into ordered checks sharing one traversal order: path first, then
// parameters in their original query-string order, so output order is
// stable and callers can rely on it.
//
// Every check degrades gracefully: when the metadata slice it needs is
// empty (capability statement not loaded yet), the check is skipped
// entirely instead of guessing. An empty input therefore never produces
// false positives.
package diagnose

import (
	fq "github.com/gofhir/query"
	"github.com/gofhir/query/ast"
)

// Check is one validation pass over the AST. Checks are independent and
// order-preserving; Diagnose runs them in a fixed order.
type Check interface {
	// Name identifies the check.
	Name() string

	// Check returns the diagnostics this pass finds, in traversal order.
	Check(q *ast.Query, meta *fq.Metadata) []fq.Diagnostic
}

// Checks returns the built-in checks in execution order.
func Checks() []Check {
	return []Check{
		PathCheck{},
		ParamCheck{},
	}
}

// Diagnose runs all built-in checks and returns their diagnostics in
// order: path diagnostics first, then parameter diagnostics in original
// parameter order. The result is fully computed, never truncated, and
// deterministic for a fixed (q, meta) pair.
func Diagnose(q *ast.Query, meta *fq.Metadata) []fq.Diagnostic {
	if q == nil {
		return nil
	}
	if meta == nil {
		meta = &fq.Metadata{}
	}

	var diags []fq.Diagnostic
	for _, c := range Checks() {
		diags = append(diags, c.Check(q, meta)...)
	}
	return diags
}

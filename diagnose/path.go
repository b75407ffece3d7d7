package diagnose

import (
	"fmt"

	fq "github.com/gofhir/query"
	"github.com/gofhir/query/ast"
)

// PathCheck validates the path's resource type against the server's
// declared resource types. When the metadata lists no resource types the
// check is skipped entirely.
type PathCheck struct{}

// Name returns the check name.
func (PathCheck) Name() string { return "path" }

// Check flags resource types the server does not declare.
func (PathCheck) Check(q *ast.Query, meta *fq.Metadata) []fq.Diagnostic {
	rt, ok := ast.ResourceTypeOf(q.Path)
	if !ok || len(meta.ResourceTypes) == 0 {
		return nil
	}
	if meta.HasResourceType(rt) {
		return nil
	}

	span, _ := ast.ResourceNameSpan(q.Path)
	return []fq.Diagnostic{
		fq.Error(fq.CodeUnknownResource).
			Message(fmt.Sprintf("Unknown resource type %q", rt)).
			At(span).
			Build(),
	}
}

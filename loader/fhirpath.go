package loader

import (
	"sort"

	"github.com/gofhir/fhirpath"

	fq "github.com/gofhir/query"
)

// ExpressionChecker verifies that search-parameter FHIRPath expressions
// compile. Compilation results are cached per expression text since the
// same expression recurs across resources.
type ExpressionChecker struct {
	cache map[string]error
}

// NewExpressionChecker creates an ExpressionChecker.
func NewExpressionChecker() *ExpressionChecker {
	return &ExpressionChecker{cache: make(map[string]error)}
}

// Check compiles an expression, returning the compile error if any.
func (c *ExpressionChecker) Check(expr string) error {
	if err, ok := c.cache[expr]; ok {
		return err
	}
	_, err := fhirpath.Compile(expr)
	c.cache[expr] = err
	return err
}

// ExpressionIssue reports a search parameter whose declared FHIRPath
// expression does not compile.
type ExpressionIssue struct {
	ResourceType string `json:"resourceType"`
	Param        string `json:"param"`
	Expression   string `json:"expression"`
	Err          string `json:"error"`
}

// CheckMetadata compiles every non-empty search-parameter expression in
// the metadata and reports the failures, ordered by resource type then
// parameter code.
func (c *ExpressionChecker) CheckMetadata(meta *fq.Metadata) []ExpressionIssue {
	if meta == nil {
		return nil
	}

	rts := make([]string, 0, len(meta.SearchParams))
	for rt := range meta.SearchParams {
		rts = append(rts, rt)
	}
	sort.Strings(rts)

	var issues []ExpressionIssue
	for _, rt := range rts {
		for _, p := range meta.SearchParams[rt] {
			if p.Expression == "" {
				continue
			}
			if err := c.Check(p.Expression); err != nil {
				issues = append(issues, ExpressionIssue{
					ResourceType: rt,
					Param:        p.Code,
					Expression:   p.Expression,
					Err:          err.Error(),
				})
			}
		}
	}
	return issues
}

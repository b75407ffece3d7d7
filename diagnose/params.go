package diagnose

import (
	"fmt"

	fq "github.com/gofhir/query"
	"github.com/gofhir/query/ast"
)

// repeatable lists the parameters that may legitimately appear more than
// once in a single query.
var repeatable = map[string]bool{
	"_include":    true,
	"_revinclude": true,
	"_has":        true,
	"_sort":       true,
}

// ParamCheck validates each query parameter: empty names, duplicates,
// special-parameter values, unknown parameters, unsupported modifiers and
// type-inappropriate comparator prefixes.
type ParamCheck struct{}

// Name returns the check name.
func (ParamCheck) Name() string { return "params" }

// Check walks the parameters in original order.
func (ParamCheck) Check(q *ast.Query, meta *fq.Metadata) []fq.Diagnostic {
	rt, _ := ast.ResourceTypeOf(q.Path)

	var diags []fq.Diagnostic
	seen := make(map[string]bool, len(q.Params))

	for _, p := range q.Params {
		if p.Name == "" {
			diags = append(diags, fq.Error(fq.CodeEmptyParamName).
				Message("Query parameter has no name").
				At(p.Loc).
				Build())
			continue
		}

		if seen[p.Name] && !repeatable[p.Name] {
			diags = append(diags, fq.Warning(fq.CodeDuplicateParam).
				Message(fmt.Sprintf("Duplicate parameter %q", p.Name)).
				At(p.NameLoc).
				Build())
		}
		seen[p.Name] = true

		for _, v := range p.Values {
			if v.Raw == "" {
				diags = append(diags, fq.Warning(fq.CodeEmptyValue).
					Message(fmt.Sprintf("Parameter %q has an empty value", p.Name)).
					At(v.Loc).
					Build())
			}
		}

		if p.IsSpecial {
			diags = append(diags, checkSpecial(p, rt, meta)...)
			continue
		}

		diags = append(diags, checkAgainstDefinition(p, rt, meta)...)
	}
	return diags
}

// checkAgainstDefinition validates a regular parameter against the
// resource's declared search parameters. Skipped when the resource type
// is unknown or the metadata carries no entry for it.
func checkAgainstDefinition(p ast.Param, rt string, meta *fq.Metadata) []fq.Diagnostic {
	if rt == "" {
		return nil
	}
	if _, ok := meta.ParamsFor(rt); !ok {
		return nil
	}

	def, ok := meta.FindParam(rt, p.Name)
	if !ok {
		return []fq.Diagnostic{
			fq.Error(fq.CodeUnknownParam).
				Message(fmt.Sprintf("Unknown search parameter %q for %s", p.Name, rt)).
				At(p.NameLoc).
				Build(),
		}
	}

	var diags []fq.Diagnostic

	// Modifier support is only enforced when the server declared a
	// modifier list for the parameter.
	if p.Modifier != "" && len(def.Modifiers) > 0 && !containsString(def.Modifiers, p.Modifier) {
		diags = append(diags, fq.Warning(fq.CodeInvalidModifier).
			Message(fmt.Sprintf("Modifier %q is not supported by parameter %q", p.Modifier, p.Name)).
			At(p.ModifierLoc).
			Build())
	}

	if !def.Type.AllowsPrefix() {
		for _, v := range p.Values {
			if v.Prefix == "" {
				continue
			}
			diags = append(diags, fq.Error(fq.CodeInvalidPrefix).
				Message(fmt.Sprintf("Prefix %q is not valid for %s parameter %q", v.Prefix, def.Type, p.Name)).
				At(v.Loc).
				Build())
		}
	}
	return diags
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

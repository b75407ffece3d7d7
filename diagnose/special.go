package diagnose

import (
	"fmt"
	"strconv"
	"strings"

	fq "github.com/gofhir/query"
	"github.com/gofhir/query/ast"
)

var summaryModes = []string{"true", "false", "count", "text", "data"}
var totalModes = []string{"none", "estimate", "accurate"}

// checkSpecial validates the value of a known special parameter.
// Unrecognized "_"-prefixed names are left alone: servers add result
// parameters and flagging them would be a guess.
func checkSpecial(p ast.Param, rt string, meta *fq.Metadata) []fq.Diagnostic {
	switch p.Name {
	case "_count":
		return checkInteger(p, 1)
	case "_offset":
		return checkInteger(p, 0)
	case "_summary":
		return checkEnum(p, summaryModes)
	case "_total":
		return checkEnum(p, totalModes)
	case "_sort":
		return checkSort(p, rt, meta)
	case "_include":
		return checkInclude(p, meta.Includes[rt])
	case "_revinclude":
		return checkInclude(p, meta.RevIncludes[rt])
	default:
		return nil
	}
}

// checkInteger requires every value to be an integer >= min.
func checkInteger(p ast.Param, min int) []fq.Diagnostic {
	var diags []fq.Diagnostic
	for _, v := range p.Values {
		if v.Raw == "" {
			continue // already flagged as empty-value
		}
		n, err := strconv.Atoi(v.Raw)
		if err != nil || n < min {
			diags = append(diags, fq.Error(fq.CodeInvalidValue).
				Message(fmt.Sprintf("%s must be an integer >= %d, got %q", p.Name, min, v.Raw)).
				At(v.Loc).
				Build())
		}
	}
	return diags
}

// checkEnum requires every value to be in a fixed allowed set.
func checkEnum(p ast.Param, allowed []string) []fq.Diagnostic {
	var diags []fq.Diagnostic
	for _, v := range p.Values {
		if v.Raw == "" || containsString(allowed, v.Raw) {
			continue
		}
		diags = append(diags, fq.Error(fq.CodeInvalidValue).
			Message(fmt.Sprintf("%s must be one of %s, got %q", p.Name, strings.Join(allowed, ", "), v.Raw)).
			At(v.Loc).
			Build())
	}
	return diags
}

// checkSort validates sort fields against the resource's declared
// sortable fields. A leading "-" selects descending order and is not part
// of the field name. Skipped when no sortable fields are declared.
func checkSort(p ast.Param, rt string, meta *fq.Metadata) []fq.Diagnostic {
	fields := meta.SortFields[rt]
	if len(fields) == 0 {
		return nil
	}

	var diags []fq.Diagnostic
	for _, v := range p.Values {
		if v.Raw == "" {
			continue
		}
		field := strings.TrimPrefix(v.Raw, "-")
		if containsString(fields, field) {
			continue
		}
		diags = append(diags, fq.Warning(fq.CodeInvalidValue).
			Message(fmt.Sprintf("Unknown sort field %q for %s", field, rt)).
			At(v.Loc).
			Build())
	}
	return diags
}

// checkInclude validates _include/_revinclude targets against the
// capability-declared entries. The wildcard "*" is always accepted;
// validation is skipped when no targets are declared.
func checkInclude(p ast.Param, declared []string) []fq.Diagnostic {
	if len(declared) == 0 {
		return nil
	}

	var diags []fq.Diagnostic
	for _, v := range p.Values {
		if v.Raw == "" || v.Raw == "*" || containsString(declared, v.Raw) {
			continue
		}
		diags = append(diags, fq.Warning(fq.CodeInvalidValue).
			Message(fmt.Sprintf("Unknown %s target %q", p.Name, v.Raw)).
			At(v.Loc).
			Build())
	}
	return diags
}

package loader

import (
	"github.com/gofhir/fhir/r4"

	fq "github.com/gofhir/query"
)

// Convert builds query-input metadata from an R4 CapabilityStatement.
// Only rest entries in server mode contribute. Fields the statement does
// not populate stay empty, which downstream checks treat as "skip", so a
// sparse capability statement never causes false diagnostics.
func Convert(cs *r4.CapabilityStatement) *fq.Metadata {
	meta := &fq.Metadata{
		SearchParams:       make(map[string][]fq.SearchParam),
		TypeOperations:     make(map[string][]string),
		InstanceOperations: make(map[string][]string),
		SortFields:         make(map[string][]string),
		Includes:           make(map[string][]string),
		RevIncludes:        make(map[string][]string),
	}
	if cs == nil {
		return meta
	}

	for i := range cs.Rest {
		rest := &cs.Rest[i]
		if mode := derefMode(rest.Mode); mode != "" && mode != "server" {
			continue
		}
		for j := range rest.Resource {
			convertResource(&rest.Resource[j], meta)
		}
		for _, op := range rest.Operation {
			if name := derefString(op.Name); name != "" {
				meta.SystemOperations = append(meta.SystemOperations, "$"+name)
			}
		}
	}
	return meta
}

// convertResource folds one rest.resource entry into the metadata.
func convertResource(res *r4.CapabilityStatementRestResource, meta *fq.Metadata) {
	rt := derefResourceType(res.Type)
	if rt == "" {
		return
	}
	meta.ResourceTypes = append(meta.ResourceTypes, rt)

	params := make([]fq.SearchParam, 0, len(res.SearchParam))
	sortable := make([]string, 0, len(res.SearchParam))
	for i := range res.SearchParam {
		sp := &res.SearchParam[i]
		code := derefString(sp.Name)
		if code == "" {
			continue
		}
		t := derefSearchParamType(sp.Type)
		params = append(params, fq.SearchParam{
			Code:          code,
			Type:          t,
			Modifiers:     fq.ModifiersForType(t),
			Documentation: derefString(sp.Documentation),
		})
		sortable = append(sortable, code)
	}
	if len(params) > 0 {
		meta.SearchParams[rt] = params
		// Any search parameter is a legal _sort target in FHIR.
		meta.SortFields[rt] = sortable
	}

	if len(res.SearchInclude) > 0 {
		meta.Includes[rt] = append([]string(nil), res.SearchInclude...)
	}
	if len(res.SearchRevInclude) > 0 {
		meta.RevIncludes[rt] = append([]string(nil), res.SearchRevInclude...)
	}

	// The capability statement does not distinguish type-level from
	// instance-level operations, so declared operations are offered at
	// both levels.
	for _, op := range res.Operation {
		name := derefString(op.Name)
		if name == "" {
			continue
		}
		meta.TypeOperations[rt] = append(meta.TypeOperations[rt], "$"+name)
		meta.InstanceOperations[rt] = append(meta.InstanceOperations[rt], "$"+name)
	}
}

// Pointer deref helpers in the r4 model's nil-heavy style.

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefMode(m *r4.RestfulCapabilityMode) string {
	if m == nil {
		return ""
	}
	return string(*m)
}

func derefResourceType(t *string) string {
	if t == nil {
		return ""
	}
	return string(*t)
}

func derefSearchParamType(t *r4.SearchParamType) fq.SearchParamType {
	if t == nil {
		return fq.TypeString
	}
	return fq.SearchParamType(*t)
}

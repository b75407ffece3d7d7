// Package fhirquery provides a front-end for the FHIR REST search query
// language: parsing, serialization, cursor-context classification,
// completion suggestions, semantic diagnostics and natural-language
// explanation of path+query strings such as
//
//	/fhir/Patient?name:exact=smith&birthdate=ge2020-01-01&_count=10
//
// The core is a small, pure, synchronous pipeline with no I/O. Every
// function is a total transform of its explicit arguments: malformed or
// partial input produces an unknown path variant or an empty result list,
// never an error.
//
// # Quick Start
//
//	import (
//	    fq "github.com/gofhir/query"
//	    "github.com/gofhir/query/engine"
//	)
//
//	eng := engine.New(meta, fq.WithBasePath("/fhir"))
//
//	q := eng.Parse("/fhir/Patient?name=smith")
//	for _, d := range eng.Diagnose(q) {
//	    fmt.Println(d.Severity, d.Message)
//	}
//
//	sugs := eng.Complete("/fhir/Pat", 9)
//
// # Pipeline
//
// The packages form a dependency chain, leaves first:
//
//   - parser/ast: raw string -> *ast.Query with exact character spans
//   - cursor: (raw, offset) -> editing context classification
//   - suggest: cursor context + metadata -> ranked completion candidates
//   - diagnose: *ast.Query + metadata -> severity-tagged diagnostics
//   - explain: *ast.Query + metadata -> human-readable breakdown
//   - builder: *ast.Query <-> flat builder state for visual editors
//
// # Metadata
//
// The only external input besides the raw string is Metadata: the server's
// resource types, per-resource search parameters and capability extras.
// The loader package converts an r4.CapabilityStatement into Metadata.
// Metadata is read-only from the core's perspective; the core keeps no
// cache and no mutable state of its own, so concurrent use is safe.
//
// # Graceful Degradation
//
// Diagnostics never guess: when the metadata slice needed for a check is
// empty (capability statement not loaded yet), that check is skipped
// entirely rather than producing false positives.
package fhirquery

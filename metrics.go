package fhirquery

import "sync/atomic"

// Metrics collects lock-free counters for engine instrumentation.
// All methods are safe for concurrent use.
type Metrics struct {
	parses    atomic.Uint64
	suggests  atomic.Uint64
	diagnoses atomic.Uint64
	explains  atomic.Uint64
	cacheHits atomic.Uint64
	cacheMiss atomic.Uint64
}

// NewMetrics creates a new Metrics instance.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// RecordParse counts one parse call.
func (m *Metrics) RecordParse() { m.parses.Add(1) }

// RecordSuggest counts one suggestion run.
func (m *Metrics) RecordSuggest() { m.suggests.Add(1) }

// RecordDiagnose counts one diagnostics run.
func (m *Metrics) RecordDiagnose() { m.diagnoses.Add(1) }

// RecordExplain counts one explain run.
func (m *Metrics) RecordExplain() { m.explains.Add(1) }

// RecordCacheHit counts one parse-cache hit.
func (m *Metrics) RecordCacheHit() { m.cacheHits.Add(1) }

// RecordCacheMiss counts one parse-cache miss.
func (m *Metrics) RecordCacheMiss() { m.cacheMiss.Add(1) }

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	Parses      uint64 `json:"parses"`
	Suggests    uint64 `json:"suggests"`
	Diagnoses   uint64 `json:"diagnoses"`
	Explains    uint64 `json:"explains"`
	CacheHits   uint64 `json:"cacheHits"`
	CacheMisses uint64 `json:"cacheMisses"`
}

// Snapshot returns a point-in-time copy of the counters.
func (m *Metrics) Snapshot() Snapshot {
	return Snapshot{
		Parses:      m.parses.Load(),
		Suggests:    m.suggests.Load(),
		Diagnoses:   m.diagnoses.Load(),
		Explains:    m.explains.Load(),
		CacheHits:   m.cacheHits.Load(),
		CacheMisses: m.cacheMiss.Load(),
	}
}

// Reset zeroes all counters.
func (m *Metrics) Reset() {
	m.parses.Store(0)
	m.suggests.Store(0)
	m.diagnoses.Store(0)
	m.explains.Store(0)
	m.cacheHits.Store(0)
	m.cacheMiss.Store(0)
}

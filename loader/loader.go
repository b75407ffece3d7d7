// Package loader turns server capability data into the metadata the
// query front-end consumes. It decodes CapabilityStatement JSON into the
// r4 model and converts it to fhirquery.Metadata; how the JSON is fetched
// (HTTP, file, embedded) is the caller's concern.
package loader

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/gofhir/fhir/r4"

	fq "github.com/gofhir/query"
)

// Load decodes a CapabilityStatement JSON document and converts it.
func Load(r io.Reader) (*fq.Metadata, error) {
	var cs r4.CapabilityStatement
	if err := json.NewDecoder(r).Decode(&cs); err != nil {
		return nil, fmt.Errorf("decode capability statement: %w", err)
	}
	return Convert(&cs), nil
}

// LoadFile reads and converts a CapabilityStatement JSON file.
func LoadFile(path string) (*fq.Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open capability statement: %w", err)
	}
	defer f.Close()

	meta, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return meta, nil
}

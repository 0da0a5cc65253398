// Package manifest reconciles cores against a declarative YAML manifest:
// missing cores are created, schema elements upserted, managed resources
// provisioned and synonyms merged.
package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/agentic-research/solradmin/api"
)

// Parse decodes a manifest. Unknown keys are rejected.
func Parse(data []byte) (*api.Manifest, error) {
	var m api.Manifest
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	for i, c := range m.Cores {
		if c.Name == "" {
			return nil, fmt.Errorf("parse manifest: core #%d has no name", i+1)
		}
	}
	return &m, nil
}

// LoadFile reads and parses the manifest at path.
func LoadFile(path string) (*api.Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return Parse(data)
}

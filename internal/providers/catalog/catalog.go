// Package catalog serves charities from a YAML document instead of a remote
// API. The default document is compiled into the binary.
package catalog

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"charity-web/internal/types"
)

//go:embed charities.yaml
var defaultDocument []byte

type document struct {
	Charities []types.Charity `yaml:"charities"`
}

// Catalog is an immutable, ordered charity list
type Catalog struct {
	charities []types.Charity
}

// Default returns the embedded catalog
func Default() (*Catalog, error) {
	return Parse(defaultDocument)
}

// LoadFile reads a catalog document from disk
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates a catalog document
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}

	seen := make(map[types.CharityID]struct{}, len(doc.Charities))
	for i, c := range doc.Charities {
		if c.ID == "" {
			return nil, fmt.Errorf("charity %d has no id", i)
		}
		if c.Name == "" {
			return nil, fmt.Errorf("charity %q has no name", c.ID)
		}
		if _, dup := seen[c.ID]; dup {
			return nil, fmt.Errorf("duplicate charity id %q", c.ID)
		}
		seen[c.ID] = struct{}{}
	}

	return &Catalog{charities: doc.Charities}, nil
}

// ListCharities returns a copy of the catalog in document order
func (c *Catalog) ListCharities(ctx context.Context) ([]types.Charity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]types.Charity, len(c.charities))
	for i, ch := range c.charities {
		ch.Methods = slices.Clone(ch.Methods)
		out[i] = ch
	}
	return out, nil
}

// Package presets provides the texture preset catalog, grouped by material
// domain.
package presets

import (
	_ "embed"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/texpaint/internal/material"
)

// Bucket is the asset bucket preset maps are fetched from.
const Bucket = "textures"

//go:embed presets.yaml
var builtin []byte

// Preset is one entry of the texture grid.
type Preset struct {
	ID    string `yaml:"id"`
	Label string `yaml:"label"`
	// Map is the asset filename of the albedo; empty clears the color map.
	Map       string   `yaml:"map,omitempty"`
	Roughness *float64 `yaml:"roughness,omitempty"`
	Metalness *float64 `yaml:"metalness,omitempty"`
}

// PBR returns the preset's scalar overrides.
func (p Preset) PBR() material.PBR {
	return material.PBR{Roughness: p.Roughness, Metalness: p.Metalness}
}

// Catalog holds presets keyed by domain.
type Catalog struct {
	byDomain map[material.Domain][]Preset
	byID     map[string]Preset
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := Parse(builtin)
	if err != nil {
		panic(fmt.Sprintf("presets: built-in catalog: %v", err))
	}
	return c
}

// Load reads a catalog from a YAML file.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening presets: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("reading presets: %w", err)
	}
	return Parse(data)
}

// Parse decodes a catalog. Unknown domains and duplicate or empty IDs are
// rejected.
func Parse(data []byte) (*Catalog, error) {
	var raw map[string][]Preset
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing presets: %w", err)
	}

	c := &Catalog{
		byDomain: make(map[material.Domain][]Preset),
		byID:     make(map[string]Preset),
	}
	for name, list := range raw {
		d, err := material.ParseDomain(name)
		if err != nil {
			return nil, err
		}
		for _, p := range list {
			if p.ID == "" {
				return nil, fmt.Errorf("preset in %s has no id", d)
			}
			if _, dup := c.byID[p.ID]; dup {
				return nil, fmt.Errorf("duplicate preset id %q", p.ID)
			}
			if p.Label == "" {
				p.Label = p.ID
			}
			c.byID[p.ID] = p
			c.byDomain[d] = append(c.byDomain[d], p)
		}
	}
	return c, nil
}

// ForDomain returns the presets offered for d, in file order.
func (c *Catalog) ForDomain(d material.Domain) []Preset {
	return c.byDomain[d]
}

// Get returns the preset with the given ID.
func (c *Catalog) Get(id string) (Preset, bool) {
	p, ok := c.byID[id]
	return p, ok
}

package presets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/texpaint/internal/material"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()

	for _, d := range material.Domains {
		if len(c.ForDomain(d)) == 0 {
			t.Errorf("expected presets for %s", d)
		}
	}

	steel, ok := c.Get("metal_steel")
	if !ok {
		t.Fatal("metal_steel not found")
	}
	if steel.Metalness == nil || *steel.Metalness != 1 {
		t.Errorf("expected steel metalness 1, got %v", steel.Metalness)
	}
	if steel.Roughness == nil || *steel.Roughness != 0.3 {
		t.Errorf("expected steel roughness 0.3, got %v", steel.Roughness)
	}

	flat, _ := c.Get("fabric_flat")
	if flat.Map != "" {
		t.Errorf("expected flat fabric without map, got %q", flat.Map)
	}
	if pbr := flat.PBR(); pbr.Roughness != nil || pbr.Metalness != nil {
		t.Error("expected no PBR overrides for flat fabric")
	}

	fabric := c.ForDomain(material.DomainFabric)
	if fabric[0].ID != "fabric_flat" || fabric[len(fabric)-1].ID != "denim" {
		t.Errorf("expected file order, got %v", fabric)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"unknown domain", "plastic:\n  - id: a\n"},
		{"missing id", "skin:\n  - label: A\n"},
		{"duplicate id", "skin:\n  - id: a\nfabric:\n  - id: a\n"},
		{"bad yaml", "skin: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.data)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.yaml")
	if err := os.WriteFile(path, []byte("hair:\n  - id: braid\n    map: braid.png\n"), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	p, ok := c.Get("braid")
	if !ok {
		t.Fatal("braid not found")
	}
	if p.Label != "braid" {
		t.Errorf("expected label to default to id, got %q", p.Label)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

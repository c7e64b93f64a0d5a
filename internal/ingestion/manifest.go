package ingestion

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	types "github.com/cardnexus/cardnexus-backend/internal/domain/cards"
)

// Manifest lists the card dumps to ingest at startup, one source per family.
type Manifest struct {
	Sources []ManifestSource `yaml:"sources"`
}

type ManifestSource struct {
	Type types.CardType `yaml:"type"`
	Path string         `yaml:"path"`
}

func LoadManifest(path string) (*Manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read import manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("parse import manifest: %w", err)
	}
	seen := map[types.CardType]bool{}
	for _, src := range m.Sources {
		if !src.Type.Valid() {
			return nil, fmt.Errorf("import manifest: unknown card type %q", src.Type)
		}
		if src.Path == "" {
			return nil, fmt.Errorf("import manifest: missing path for type %q", src.Type)
		}
		if seen[src.Type] {
			return nil, fmt.Errorf("import manifest: duplicate source for type %q", src.Type)
		}
		seen[src.Type] = true
	}
	return &m, nil
}

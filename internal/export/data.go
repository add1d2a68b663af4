// Package export writes the build artifacts: per-game and per-clone JSON
// data, the facet tables, a manifest and an optional SQLite catalog.
package export

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"github.com/osgameclones/osgc/internal/catalog"
	"github.com/osgameclones/osgc/internal/facet"
	"github.com/osgameclones/osgc/internal/logger"
	"github.com/osgameclones/osgc/internal/site"
	"github.com/osgameclones/osgc/internal/storage"
)

const (
	dataFile     = "data.json"
	clonesDir    = "_clones"
	facetsFile   = "facets.json"
	manifestFile = "index.json"
)

// Manifest summarises a build
type Manifest struct {
	BuildID         string         `json:"build_id"`
	GeneratedAt     time.Time      `json:"generated_at"`
	Games           int            `json:"games"`
	Clones          int            `json:"clones"`
	RecentlyUpdated int            `json:"recently_updated"`
	LastUpdated     string         `json:"last_updated,omitempty"`
	Entries         []ManifestGame `json:"entries"`
}

// ManifestGame is the index entry of one game page
type ManifestGame struct {
	Name   string   `json:"name"`
	Names  []string `json:"names"`
	Slug   string   `json:"slug"`
	Clones int      `json:"clones"`
}

// NewManifest summarises m under a fresh build ID
func NewManifest(m *site.Model) *Manifest {
	manifest := &Manifest{
		BuildID:         uuid.New().String(),
		GeneratedAt:     m.GeneratedAt.UTC(),
		Games:           len(m.Games),
		Clones:          len(m.UniqueClones()),
		RecentlyUpdated: len(m.NewGames),
		Entries:         make([]ManifestGame, 0, len(m.Games)),
	}
	if last := m.LastUpdated(); !last.Equal(catalog.MinDate) {
		manifest.LastUpdated = last.Format(catalog.DateLayout)
	}
	for _, g := range m.Games {
		manifest.Entries = append(manifest.Entries, ManifestGame{
			Name:   g.Original.Name.Primary,
			Names:  g.Names(),
			Slug:   g.Slug(),
			Clones: len(g.Clones),
		})
	}
	return manifest
}

// WriteData writes every JSON artifact under dest and returns the manifest
func WriteData(dest string, m *site.Model) (*Manifest, error) {
	for _, g := range m.Games {
		path := filepath.Join(dest, g.Slug(), dataFile)
		if err := storage.WriteJSON(path, g.Original); err != nil {
			return nil, err
		}
	}

	clones := m.UniqueClones()
	for _, c := range clones {
		path := filepath.Join(dest, clonesDir, slug.Make(c.Name.Primary)+".json")
		if err := storage.WriteJSON(path, c); err != nil {
			return nil, err
		}
	}
	logger.Debug("wrote %d game and %d clone data files", len(m.Games), len(clones))

	if err := storage.WriteJSON(filepath.Join(dest, facetsFile), facetTables(m)); err != nil {
		return nil, err
	}

	manifest := NewManifest(m)
	if err := storage.WriteJSON(filepath.Join(dest, manifestFile), manifest); err != nil {
		return nil, fmt.Errorf("failed to write manifest: %w", err)
	}

	return manifest, nil
}

func facetTables(m *site.Model) map[facet.Dimension][]facet.Entry {
	out := make(map[facet.Dimension][]facet.Entry)
	for _, t := range m.Facets() {
		out[t.Name] = t.Entries()
	}
	return out
}

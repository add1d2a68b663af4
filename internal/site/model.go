// Package site assembles the aggregated model consumed by the renderer.
package site

import (
	"strings"
	"time"

	"github.com/gosimple/slug"

	"github.com/osgameclones/osgc/internal/catalog"
	"github.com/osgameclones/osgc/internal/enrich"
	"github.com/osgameclones/osgc/internal/facet"
)

const wikipediaURL = "https://en.wikipedia.org/wiki/"

// Game is an original with its meta block and enriched clones
type Game struct {
	Original catalog.Original
	Meta     *catalog.GroupMeta
	Clones   []*enrich.EnrichedClone
}

// Names returns every declared name of the original, primary first
func (g *Game) Names() []string {
	return g.Original.AllNames()
}

// Slug is the URL-safe identifier of the game page
func (g *Game) Slug() string {
	return slug.Make(g.Names()[0])
}

// WikiLink points at the Wikipedia article, falling back to the website
func (g *Game) WikiLink() string {
	if w := g.Meta.External.Wikipedia; w != "" {
		return wikipediaURL + strings.ReplaceAll(w, " ", "_")
	}
	return g.Meta.External.Website
}

// RecentClone is an entry of the recently updated index
type RecentClone struct {
	Names []string
	Meta  *catalog.GroupMeta
	Clone *enrich.EnrichedClone
}

// Model is the result of a build
type Model struct {
	// Games in display order
	Games []*Game
	// NewGames holds recently updated clones, most recent first, one per name
	NewGames []RecentClone

	// Set holds the genre, subgenre, theme and language tables
	*facet.Set

	GeneratedAt time.Time

	recent map[string]int
}

// NewGame looks up a clone in the recently updated index
func (m *Model) NewGame(name string) (RecentClone, bool) {
	i, ok := m.recent[name]
	if !ok {
		return RecentClone{}, false
	}
	return m.NewGames[i], true
}

// Facets returns the facet tables in output order
func (m *Model) Facets() []*facet.Table {
	return m.Tables()
}

// LastUpdated is the most recent update in the recently updated index, or
// the zero time when the index is empty.
func (m *Model) LastUpdated() time.Time {
	if len(m.NewGames) == 0 {
		return catalog.MinDate
	}
	return m.NewGames[0].Clone.UpdatedDate
}

// CloneCount counts clone entries across all games; a clone remaking two
// originals is counted twice.
func (m *Model) CloneCount() int {
	n := 0
	for _, g := range m.Games {
		n += len(g.Clones)
	}
	return n
}

// UniqueClones returns each clone once, by name, in game order
func (m *Model) UniqueClones() []*enrich.EnrichedClone {
	seen := make(map[string]bool)
	var out []*enrich.EnrichedClone
	for _, g := range m.Games {
		for _, c := range g.Clones {
			if seen[c.Name.Primary] {
				continue
			}
			seen[c.Name.Primary] = true
			out = append(out, c)
		}
	}
	return out
}

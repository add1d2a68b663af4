package site

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/maruel/natural"

	"github.com/osgameclones/osgc/internal/catalog"
	"github.com/osgameclones/osgc/internal/config"
	"github.com/osgameclones/osgc/internal/enrich"
	"github.com/osgameclones/osgc/internal/facet"
	"github.com/osgameclones/osgc/internal/issues"
	"github.com/osgameclones/osgc/internal/linker"
	"github.com/osgameclones/osgc/internal/logger"
	"github.com/osgameclones/osgc/internal/schema"
	"github.com/osgameclones/osgc/internal/storage"
	"github.com/osgameclones/osgc/internal/tags"
)

// DefaultPinnedOriginal is ordered before every other original
const DefaultPinnedOriginal = "SCUMM"

// Options configures a Builder
type Options struct {
	Schemas        *schema.Set      // nil selects the embedded schemas
	Normalizer     *tags.Normalizer // nil creates one with the default cache size
	Now            func() time.Time // nil selects time.Now
	FreshnessDays  int              // zero selects the default window
	PinnedOriginal string           // empty selects DefaultPinnedOriginal
}

// Builder runs validation, linking, enrichment and aggregation in order
type Builder struct {
	opts      Options
	validator *schema.Validator
	norm      *tags.Normalizer
	err       error
}

// NewBuilder creates a builder
func NewBuilder(cfg Options) *Builder {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.PinnedOriginal == "" {
		cfg.PinnedOriginal = DefaultPinnedOriginal
	}

	b := &Builder{
		opts:      cfg,
		validator: schema.NewValidator(cfg.Schemas),
		norm:      cfg.Normalizer,
	}
	if b.norm == nil {
		b.norm, b.err = tags.NewNormalizer(tags.DefaultCacheSize)
	}
	return b
}

// Load reads the data directories named by cfg and builds the model
func Load(cfg *config.Config) (*Model, error) {
	schemas, err := schema.Load(cfg.SchemaDir)
	if err != nil {
		return nil, err
	}

	originals, err := storage.LoadCategory(cfg.OriginalsDir())
	if err != nil {
		return nil, fmt.Errorf("failed to load originals: %w", err)
	}
	clones, err := storage.LoadCategory(cfg.GamesDir())
	if err != nil {
		return nil, fmt.Errorf("failed to load clones: %w", err)
	}

	return NewBuilder(Options{
		Schemas:        schemas,
		FreshnessDays:  cfg.FreshnessDays,
		PinnedOriginal: cfg.PinnedOriginal,
	}).Build(originals, clones)
}

// Build validates the raw records and assembles the model. Schema problems
// of both categories are reported together as one *issues.Error; integrity
// problems follow as a second pass. No model is returned on failure.
func (b *Builder) Build(originalDocs, cloneDocs []storage.Document) (*Model, error) {
	if b.err != nil {
		return nil, b.err
	}

	logger.Info("%d games in total", len(originalDocs))
	logger.Info("%d clones in total", len(cloneDocs))

	found := b.validator.Validate(schema.KindOriginal, originalDocs)
	found.Append(b.validator.Validate(schema.KindClone, cloneDocs)...)
	if err := found.Err(issues.StageSchema); err != nil {
		return nil, err
	}

	originals, err := decodeOriginals(originalDocs)
	if err != nil {
		return nil, err
	}
	clones, err := decodeClones(cloneDocs)
	if err != nil {
		return nil, err
	}

	sortOriginals(originals, b.opts.PinnedOriginal)
	if len(originals) > 0 && originals[0].Name.Primary != b.opts.PinnedOriginal {
		logger.Warn("pinned original %q not found", b.opts.PinnedOriginal)
	}

	graph, found := linker.Link(originals, clones)
	if err := found.Err(issues.StageIntegrity); err != nil {
		return nil, err
	}

	return b.assemble(graph)
}

func (b *Builder) assemble(graph *linker.Graph) (*Model, error) {
	enricher := enrich.New(b.norm, enrich.WithClock(b.opts.Now), enrich.WithWindow(b.opts.FreshnessDays))
	facets := facet.NewSet()

	m := &Model{
		Games:       make([]*Game, 0, len(graph.Groups)),
		Set:         facets,
		GeneratedAt: b.opts.Now(),
	}

	for _, group := range graph.Groups {
		key := group.Original.Name.Primary
		meta := enricher.Meta(group.Original)

		facets.Genres.Add(key, meta.Genres)
		facets.Subgenres.Add(key, meta.Subgenres)
		facets.Themes.Add(key, meta.Themes)

		game := &Game{Original: group.Original.Copy(), Meta: meta}
		for _, c := range group.Clones {
			facets.Languages.Add(c.Name.Primary, c.Langs)

			enriched, err := enricher.Clone(c, meta)
			if err != nil {
				return nil, fmt.Errorf("failed to enrich clone: %w", err)
			}
			logger.Debug("%s: %d tags, new=%t, updated=%t", enriched.Name.Primary, len(enriched.Tags), enriched.New, enriched.IsUpdated)
			game.Clones = append(game.Clones, enriched)
		}
		m.Games = append(m.Games, game)
	}

	m.NewGames, m.recent = recentlyUpdated(m.Games)
	return m, nil
}

// recentlyUpdated flattens the updated clones of every game, most recent
// first, keeping only the first entry for each clone name.
func recentlyUpdated(games []*Game) ([]RecentClone, map[string]int) {
	var all []RecentClone
	for _, g := range games {
		for _, c := range g.Clones {
			if c.IsUpdated {
				all = append(all, RecentClone{Names: g.Names(), Meta: g.Meta, Clone: c})
			}
		}
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Clone.UpdatedDate.After(all[j].Clone.UpdatedDate)
	})

	out := make([]RecentClone, 0, len(all))
	index := make(map[string]int, len(all))
	for _, r := range all {
		name := r.Clone.Name.Primary
		if _, dup := index[name]; dup {
			continue
		}
		index[name] = len(out)
		out = append(out, r)
	}
	return out, index
}

func decodeOriginals(docs []storage.Document) ([]catalog.Original, error) {
	out := make([]catalog.Original, len(docs))
	for i, doc := range docs {
		if err := doc.Decode(&out[i]); err != nil {
			return nil, err
		}
		out[i].Source = source(doc)
	}
	return out, nil
}

func decodeClones(docs []storage.Document) ([]catalog.Clone, error) {
	out := make([]catalog.Clone, len(docs))
	for i, doc := range docs {
		if err := doc.Decode(&out[i]); err != nil {
			return nil, err
		}
		out[i].Source = source(doc)
	}
	return out, nil
}

func source(doc storage.Document) catalog.Source {
	return catalog.Source{File: doc.File, Index: doc.Index, Line: doc.Line()}
}

// sortOriginals orders originals naturally and case-insensitively, with the
// pinned name first and a leading "The " ignored.
func sortOriginals(originals []catalog.Original, pinned string) {
	keys := make(map[string]string, len(originals))
	for _, o := range originals {
		keys[o.Name.Primary] = sortKey(o.Name.Primary)
	}

	sort.SliceStable(originals, func(i, j int) bool {
		a, b := originals[i].Name.Primary, originals[j].Name.Primary
		if (a == pinned) != (b == pinned) {
			return a == pinned
		}
		ka, kb := keys[a], keys[b]
		if ka == kb {
			return false
		}
		return natural.Less(ka, kb)
	})
}

func sortKey(name string) string {
	name = strings.TrimPrefix(name, "The ")
	return strings.ToLower(name)
}

// Package enrich computes the derived presentation fields of clone records.
package enrich

import (
	"fmt"
	"time"

	"github.com/osgameclones/osgc/internal/catalog"
	"github.com/osgameclones/osgc/internal/tags"
)

// DefaultWindowDays is the freshness window for new and updated flags
const DefaultWindowDays = 30

// EnrichedClone is a copy of a validated clone with its derived fields
type EnrichedClone struct {
	catalog.Clone

	AddedDate   time.Time `json:"-"`
	UpdatedDate time.Time `json:"-"`
	New         bool      `json:"new"`
	IsUpdated   bool      `json:"is_updated"`
	Tags        []string  `json:"tags"`

	// RepoInfo holds the icon or badge derived from the repo URL; the
	// URL itself stays in the embedded Clone under "repo"
	RepoInfo   *RepoInfo `json:"repo_info,omitempty"`
	NamesASCII []string  `json:"names_ascii"`
}

// Enricher derives dates, freshness flags, tags and repository hints
type Enricher struct {
	norm   *tags.Normalizer
	now    func() time.Time
	window int
}

// Option configures an Enricher
type Option func(*Enricher)

// WithClock sets the clock freshness is measured against
func WithClock(now func() time.Time) Option {
	return func(e *Enricher) {
		if now != nil {
			e.now = now
		}
	}
}

// WithWindow sets the freshness window in days
func WithWindow(days int) Option {
	return func(e *Enricher) {
		if days > 0 {
			e.window = days
		}
	}
}

// New creates an enricher using norm for tags
func New(norm *tags.Normalizer, opts ...Option) *Enricher {
	e := &Enricher{
		norm:   norm,
		now:    time.Now,
		window: DefaultWindowDays,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Today returns the build date at midnight UTC
func (e *Enricher) Today() time.Time {
	y, m, d := e.now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Meta computes the meta block shared by an original and its clones
func (e *Enricher) Meta(o catalog.Original) *catalog.GroupMeta {
	cp := o.Copy()
	return &catalog.GroupMeta{
		Meta:       cp.Meta,
		NamesASCII: e.asciiNames(cp.AllNames()),
		External:   cp.External,
	}
}

// Clone enriches a copy of c; the input record is never modified. A
// malformed date is an error since validation should have rejected it.
func (e *Enricher) Clone(c catalog.Clone, meta *catalog.GroupMeta) (*EnrichedClone, error) {
	out := &EnrichedClone{Clone: c.Copy()}
	name := c.Name.Primary

	var err error
	if out.AddedDate, err = catalog.ParseDate(c.Added); err != nil {
		return nil, fmt.Errorf("%s: added: %w", name, err)
	}
	if out.UpdatedDate, err = catalog.ParseDate(c.Updated); err != nil {
		return nil, fmt.Errorf("%s: updated: %w", name, err)
	}

	today := e.Today()
	out.New = out.AddedDate.Equal(out.UpdatedDate) && e.within(today, out.AddedDate)
	out.IsUpdated = e.within(today, out.UpdatedDate)

	entryTags, err := e.norm.Normalize(name, c.TagFields(), tags.EntryKeys)
	if err != nil {
		return nil, err
	}
	out.Tags = entryTags
	if meta != nil {
		metaTags, err := e.norm.Normalize(name, meta.TagFields(), tags.MetaKeys)
		if err != nil {
			return nil, err
		}
		out.Tags = appendUnique(out.Tags, metaTags)
	}

	out.RepoInfo = ParseRepo(c.Repo)
	out.NamesASCII = e.asciiNames(c.Name.All())

	return out, nil
}

// within reports whether date falls less than the window before today.
// Dates after today count as within.
func (e *Enricher) within(today, date time.Time) bool {
	if date.Equal(catalog.MinDate) {
		return false
	}
	return today.Sub(date) < time.Duration(e.window)*24*time.Hour
}

func (e *Enricher) asciiNames(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = e.norm.ASCII(n)
	}
	return out
}

func appendUnique(dst, src []string) []string {
	seen := make(map[string]bool, len(dst))
	for _, v := range dst {
		seen[v] = true
	}
	for _, v := range src {
		if !seen[v] {
			seen[v] = true
			dst = append(dst, v)
		}
	}
	return dst
}

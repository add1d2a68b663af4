// Package facet aggregates classification values shared across records.
package facet

import (
	"sort"

	"golang.org/x/text/cases"
)

// Dimension names a tracked facet
type Dimension string

const (
	Genres    Dimension = "genres"
	Subgenres Dimension = "subgenres"
	Themes    Dimension = "themes"
	Languages Dimension = "langs"
)

// Dimensions lists every tracked dimension in output order
var Dimensions = []Dimension{Genres, Subgenres, Themes, Languages}

// Entry is one value of a dimension with the records that use it
type Entry struct {
	Value      string   `json:"value"`
	Count      int      `json:"tag_count"`
	Identities []string `json:"keys"`
}

type entry struct {
	Entry
	seen map[string]bool
}

// Table counts the values of one dimension. Entries stay sorted by value,
// case-insensitively, after every insertion so reads in the middle of a
// pass see the same order as the final result.
type Table struct {
	Name    Dimension
	entries []*entry
	byValue map[string]*entry
	fold    cases.Caser
}

// NewTable creates an empty table for a dimension
func NewTable(name Dimension) *Table {
	return &Table{
		Name:    name,
		byValue: make(map[string]*entry),
		fold:    cases.Fold(),
	}
}

// Add counts each value once per record identity; calling it again for the
// same identity and value has no effect.
func (t *Table) Add(identity string, values []string) {
	for _, v := range values {
		e, ok := t.byValue[v]
		if !ok {
			e = &entry{Entry: Entry{Value: v}, seen: make(map[string]bool)}
			t.insert(e)
		}
		if e.seen[identity] {
			continue
		}
		e.seen[identity] = true
		e.Count++
		e.Identities = append(e.Identities, identity)
	}
}

func (t *Table) insert(e *entry) {
	key := t.fold.String(e.Value)
	i := sort.Search(len(t.entries), func(i int) bool {
		return !t.less(t.entries[i].Value, t.fold.String(t.entries[i].Value), e.Value, key)
	})
	t.entries = append(t.entries, nil)
	copy(t.entries[i+1:], t.entries[i:])
	t.entries[i] = e
	t.byValue[e.Value] = e
}

// less orders by folded value, then by raw value so the order is total
func (t *Table) less(a, aKey, b, bKey string) bool {
	if aKey != bKey {
		return aKey < bKey
	}
	return a < b
}

// Len returns the number of distinct values
func (t *Table) Len() int {
	return len(t.entries)
}

// Entries returns a snapshot of the table in sorted order
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	for i, e := range t.entries {
		out[i] = e.snapshot()
	}
	return out
}

// Get returns the entry for a value
func (t *Table) Get(value string) (Entry, bool) {
	e, ok := t.byValue[value]
	if !ok {
		return Entry{}, false
	}
	return e.snapshot(), true
}

func (e *entry) snapshot() Entry {
	out := e.Entry
	out.Identities = append([]string(nil), e.Identities...)
	return out
}

// Set holds one table per tracked dimension
type Set struct {
	Genres    *Table
	Subgenres *Table
	Themes    *Table
	Languages *Table
}

// NewSet creates empty tables for every dimension
func NewSet() *Set {
	return &Set{
		Genres:    NewTable(Genres),
		Subgenres: NewTable(Subgenres),
		Themes:    NewTable(Themes),
		Languages: NewTable(Languages),
	}
}

// Table returns the table of a dimension, or nil for an unknown one
func (s *Set) Table(d Dimension) *Table {
	switch d {
	case Genres:
		return s.Genres
	case Subgenres:
		return s.Subgenres
	case Themes:
		return s.Themes
	case Languages:
		return s.Languages
	}
	return nil
}

// Tables returns the tables in output order
func (s *Set) Tables() []*Table {
	out := make([]*Table, 0, len(Dimensions))
	for _, d := range Dimensions {
		out = append(out, s.Table(d))
	}
	return out
}

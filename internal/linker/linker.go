// Package linker checks referential integrity between originals and clones
// and groups every clone under the originals it remakes.
package linker

import (
	"fmt"

	"github.com/osgameclones/osgc/internal/catalog"
	"github.com/osgameclones/osgc/internal/issues"
)

// StatusNA is the status reserved for tools
const StatusNA = "N/A"

// TypeTool is the clone type of editors, engines and other utilities
const TypeTool = "tool"

// Group is an original with the clones that reference its primary name
type Group struct {
	Original catalog.Original
	Clones   []catalog.Clone
}

// Graph is the validated originals to clones association
type Graph struct {
	Groups []Group
	index  map[string]int
}

// Original looks up an original by primary name
func (g *Graph) Original(name string) (catalog.Original, bool) {
	i, ok := g.index[name]
	if !ok {
		return catalog.Original{}, false
	}
	return g.Groups[i].Original, true
}

// Link indexes the originals and checks every clone against them. Duplicate
// original names are reported first; when there are any, clones are not
// checked. Otherwise every clone problem is collected before returning. The
// graph is nil whenever issues are returned.
func Link(originals []catalog.Original, clones []catalog.Clone) (*Graph, issues.List) {
	index, found := indexOriginals(originals)
	if !found.Empty() {
		return nil, found
	}

	for _, c := range clones {
		found.Append(checkClone(c, index)...)
	}
	if !found.Empty() {
		return nil, found
	}

	g := &Graph{Groups: make([]Group, len(originals)), index: index}
	for i, o := range originals {
		g.Groups[i] = Group{Original: o}
	}
	// A clone joins a group only through the original's primary name.
	for _, c := range clones {
		attached := make(map[int]bool, len(c.Originals))
		for _, ref := range c.Originals {
			i := index[ref]
			if attached[i] {
				continue
			}
			attached[i] = true
			g.Groups[i].Clones = append(g.Groups[i].Clones, c)
		}
	}

	return g, nil
}

func indexOriginals(originals []catalog.Original) (map[string]int, issues.List) {
	var found issues.List
	index := make(map[string]int, len(originals))
	for i, o := range originals {
		name := o.Name.Primary
		if _, dup := index[name]; dup {
			found.Append(issueAt(o.Source, name, "Duplicate original game '%s'", name))
			continue
		}
		index[name] = i
	}
	return index, found
}

func checkClone(c catalog.Clone, index map[string]int) []issues.Issue {
	var found []issues.Issue
	name := c.Name.Primary
	fail := func(format string, args ...interface{}) {
		found = append(found, issueAt(c.Source, name, format, args...))
	}

	if len(c.Originals) == 0 {
		fail("Unable to find any original game reference")
	}
	for _, ref := range c.Originals {
		if _, ok := index[ref]; !ok {
			fail("Original game '%s' not found", ref)
		}
	}

	added, addedErr := catalog.ParseDate(c.Added)
	if addedErr != nil {
		fail("Invalid added date: %v", addedErr)
	}
	updated, updatedErr := catalog.ParseDate(c.Updated)
	if updatedErr != nil {
		fail("Invalid updated date: %v", updatedErr)
	}
	if addedErr == nil && updatedErr == nil && c.Added != "" && c.Updated != "" && added.After(updated) {
		fail("Added date is after updated date")
	}

	if (c.Type == TypeTool) != (c.Status == StatusNA) {
		fail("Has invalid status - tools must be %s", StatusNA)
	}

	return found
}

func issueAt(src catalog.Source, name, format string, args ...interface{}) issues.Issue {
	return issues.Issue{
		Index:   src.Index,
		File:    src.File,
		Line:    src.Line,
		Name:    name,
		Message: fmt.Sprintf(format, args...),
	}
}

package site

import "sort"

// maxFrameworkLangs is how many languages are listed per framework
const maxFrameworkLangs = 5

// Count is a named tally
type Count struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// FrameworkUsage is a framework with the languages its clones are written in
type FrameworkUsage struct {
	Count
	Langs []Count `json:"langs"`
}

// Stats summarises the clones of a model
type Stats struct {
	Games      int              `json:"games"`
	Clones     int              `json:"clones"`
	ByType     []Count          `json:"by_type"`
	ByStatus   []Count          `json:"by_status"`
	Frameworks []FrameworkUsage `json:"frameworks"`
	Facets     []Count          `json:"facets"`
}

// Stats counts each clone once and keeps the top most used frameworks;
// top <= 0 keeps all of them.
func (m *Model) Stats(top int) *Stats {
	clones := m.UniqueClones()

	byType := newTally()
	byStatus := newTally()
	frameworks := newTally()
	frameworkLangs := make(map[string]*tally)

	for _, c := range clones {
		byType.add(c.Type)
		byStatus.add(c.Status)
		for _, f := range c.Frameworks {
			frameworks.add(f)
			if frameworkLangs[f] == nil {
				frameworkLangs[f] = newTally()
			}
			for _, l := range c.Langs {
				frameworkLangs[f].add(l)
			}
		}
	}

	s := &Stats{
		Games:    len(m.Games),
		Clones:   len(clones),
		ByType:   byType.sorted(0),
		ByStatus: byStatus.sorted(0),
	}
	for _, f := range frameworks.sorted(top) {
		s.Frameworks = append(s.Frameworks, FrameworkUsage{
			Count: f,
			Langs: frameworkLangs[f.Name].sorted(maxFrameworkLangs),
		})
	}
	for _, t := range m.Facets() {
		s.Facets = append(s.Facets, Count{Name: string(t.Name), Count: t.Len()})
	}
	return s
}

type tally struct {
	counts map[string]int
}

func newTally() *tally {
	return &tally{counts: make(map[string]int)}
}

func (t *tally) add(name string) {
	if name != "" {
		t.counts[name]++
	}
}

// sorted returns the most common names first, ties by name
func (t *tally) sorted(limit int) []Count {
	out := make([]Count, 0, len(t.counts))
	for name, n := range t.counts {
		out = append(out, Count{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Package catalog defines the records of the game clones dataset: the
// original (commercial) games and the open-source clones that remake them.
package catalog

import (
	"encoding/json"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// DateLayout is the ISO date format used by the added/updated fields
const DateLayout = "2006-01-02"

// MinDate stands in for a missing date so comparisons never need a nil check
var MinDate = time.Time{}

// ParseDate parses an ISO date; an empty string yields MinDate
func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return MinDate, nil
	}
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return MinDate, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", value)
	}
	return t, nil
}

// Names is a record name given either as a plain string or as a
// [primary, secondary] pair where the secondary is a short/alternate name.
type Names struct {
	Primary   string
	Secondary string
}

// All returns the declared names, primary first
func (n Names) All() []string {
	if n.Secondary == "" {
		return []string{n.Primary}
	}
	return []string{n.Primary, n.Secondary}
}

// IsPair reports whether the name was declared as a two-element pair
func (n Names) IsPair() bool {
	return n.Secondary != ""
}

func (n Names) String() string {
	return n.Primary
}

// UnmarshalYAML accepts "name" or [name, alternate]
func (n *Names) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		n.Primary = node.Value
		n.Secondary = ""
		return nil
	case yaml.SequenceNode:
		if len(node.Content) != 2 {
			return fmt.Errorf("line %d: name should be a string or a list of two strings", node.Line)
		}
		for _, item := range node.Content {
			if item.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: name should be a string or a list of two strings", node.Line)
			}
		}
		n.Primary = node.Content[0].Value
		n.Secondary = node.Content[1].Value
		return nil
	default:
		return fmt.Errorf("line %d: name should be a string or a list of two strings", node.Line)
	}
}

func (n Names) MarshalJSON() ([]byte, error) {
	if n.IsPair() {
		return json.Marshal([]string{n.Primary, n.Secondary})
	}
	return json.Marshal(n.Primary)
}

// StringList is a field that may be written as a single string or a list of
// strings; it is always a list once decoded.
type StringList []string

// UnmarshalYAML normalises a scalar into a one-element list
func (l *StringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			*l = nil
			return nil
		}
		*l = StringList{node.Value}
		return nil
	case yaml.SequenceNode:
		out := make(StringList, 0, len(node.Content))
		for _, item := range node.Content {
			if item.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: expected a list of strings", item.Line)
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("line %d: expected a string or a list of strings", node.Line)
	}
}

func (l StringList) clone() StringList {
	if l == nil {
		return nil
	}
	out := make(StringList, len(l))
	copy(out, l)
	return out
}

// Source is the position a record was read from
type Source struct {
	File  string
	Index int
	Line  int
}

// External holds the reference links of an original game
type External struct {
	Wikipedia string `yaml:"wikipedia,omitempty" json:"wikipedia,omitempty"`
	Website   string `yaml:"website,omitempty" json:"website,omitempty"`
}

// Meta holds the classification block of an original game
type Meta struct {
	Genres    StringList `yaml:"genres,omitempty" json:"genres,omitempty"`
	Subgenres StringList `yaml:"subgenres,omitempty" json:"subgenres,omitempty"`
	Themes    StringList `yaml:"themes,omitempty" json:"themes,omitempty"`
	Platforms StringList `yaml:"platforms,omitempty" json:"platforms,omitempty"`
}

// Original is a commercial or reference game being cloned
type Original struct {
	Name     Names      `yaml:"name" json:"name"`
	Names    StringList `yaml:"names,omitempty" json:"names,omitempty"`
	External External   `yaml:"external,omitempty" json:"external,omitempty"`
	Meta     Meta       `yaml:"meta,omitempty" json:"meta,omitempty"`

	Source Source `yaml:"-" json:"-"`
}

// AllNames returns every declared name: the name (or pair) then the alternates
func (o Original) AllNames() []string {
	return append(o.Name.All(), o.Names...)
}

// Copy returns a deep copy of the original
func (o Original) Copy() Original {
	out := o
	out.Names = o.Names.clone()
	out.Meta = Meta{
		Genres:    o.Meta.Genres.clone(),
		Subgenres: o.Meta.Subgenres.clone(),
		Themes:    o.Meta.Themes.clone(),
		Platforms: o.Meta.Platforms.clone(),
	}
	return out
}

// Clone is an open-source game implementing, remaking or inspired by originals
type Clone struct {
	Name        Names                 `yaml:"name" json:"name"`
	Originals   StringList            `yaml:"originals" json:"originals"`
	// Repo is the repository URL as written in the record
	Repo        string                `yaml:"repo,omitempty" json:"repo,omitempty"`
	URL         string                `yaml:"url,omitempty" json:"url,omitempty"`
	Feed        string                `yaml:"feed,omitempty" json:"feed,omitempty"`
	Type        string                `yaml:"type" json:"type"`
	Status      string                `yaml:"status,omitempty" json:"status,omitempty"`
	Development string                `yaml:"development,omitempty" json:"development,omitempty"`
	Langs       StringList            `yaml:"langs,omitempty" json:"langs,omitempty"`
	Frameworks  StringList            `yaml:"frameworks,omitempty" json:"frameworks,omitempty"`
	Licenses    StringList            `yaml:"licenses,omitempty" json:"licenses,omitempty"`
	Content     StringList            `yaml:"content,omitempty" json:"content,omitempty"`
	Multiplayer StringList            `yaml:"multiplayer,omitempty" json:"multiplayer,omitempty"`
	Images      StringList            `yaml:"images,omitempty" json:"images,omitempty"`
	Video       map[string]StringList `yaml:"video,omitempty" json:"video,omitempty"`
	Info        string                `yaml:"info,omitempty" json:"info,omitempty"`
	Added       string                `yaml:"added,omitempty" json:"added,omitempty"`
	Updated     string                `yaml:"updated,omitempty" json:"updated,omitempty"`

	Source Source `yaml:"-" json:"-"`
}

// Copy returns a deep copy so enrichment never touches the validated input
func (c Clone) Copy() Clone {
	out := c
	out.Originals = c.Originals.clone()
	out.Langs = c.Langs.clone()
	out.Frameworks = c.Frameworks.clone()
	out.Licenses = c.Licenses.clone()
	out.Content = c.Content.clone()
	out.Multiplayer = c.Multiplayer.clone()
	out.Images = c.Images.clone()
	if c.Video != nil {
		out.Video = make(map[string]StringList, len(c.Video))
		for k, v := range c.Video {
			out.Video[k] = v.clone()
		}
	}
	return out
}

// TagFields exposes the taggable fields that are present on the clone
func (c Clone) TagFields() map[string]interface{} {
	fields := make(map[string]interface{})
	setString(fields, "status", c.Status)
	setString(fields, "development", c.Development)
	setString(fields, "type", c.Type)
	setList(fields, "langs", c.Langs)
	setList(fields, "frameworks", c.Frameworks)
	setList(fields, "licenses", c.Licenses)
	setList(fields, "content", c.Content)
	setList(fields, "multiplayer", c.Multiplayer)
	return fields
}

// TagFields exposes the taggable classification fields that are present
func (m Meta) TagFields() map[string]interface{} {
	fields := make(map[string]interface{})
	setList(fields, "genres", m.Genres)
	setList(fields, "subgenres", m.Subgenres)
	setList(fields, "themes", m.Themes)
	setList(fields, "platforms", m.Platforms)
	return fields
}

func setString(fields map[string]interface{}, key, value string) {
	if value != "" {
		fields[key] = value
	}
}

func setList(fields map[string]interface{}, key string, value StringList) {
	if value != nil {
		fields[key] = []string(value)
	}
}

// GroupMeta is the computed meta block shared by an original and its clones
type GroupMeta struct {
	Meta
	NamesASCII []string `json:"names_ascii"`
	External   External `json:"external"`
}

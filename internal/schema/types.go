// internal/schema/types.go
package schema

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"gopkg.in/yaml.v3"
)

// Kind identifies which record schema applies to a category of files
type Kind string

const (
	KindOriginal Kind = "original"
	KindClone    Kind = "clone"
)

// Field types understood by the validator
const (
	TypeStr  = "str"  // plain string
	TypeName = "name" // string or [primary, secondary]
	TypeList = "list" // string or list of strings
	TypeDate = "date" // YYYY-MM-DD
	TypeURL  = "url"  // absolute URL with scheme and host
	TypeMap  = "map"  // nested mapping
	TypeBool = "bool"
)

// schemaFiles maps each kind to its file name in a schema directory
var schemaFiles = map[Kind]string{
	KindOriginal: "originals.yaml",
	KindClone:    "games.yaml",
}

//go:embed schemas/*.yaml
var embedded embed.FS

// Field declares the rules for one key of a record
type Field struct {
	Type     string            `yaml:"type"`
	Required bool              `yaml:"required,omitempty"`
	Enum     []string          `yaml:"enum,omitempty"`
	Pattern  string            `yaml:"pattern,omitempty"`
	MinItems int               `yaml:"min_items,omitempty"`
	Strict   bool              `yaml:"strict,omitempty"` // map only: reject undeclared keys
	Fields   map[string]*Field `yaml:"fields,omitempty"` // map only

	pattern *regexp.Regexp
	enum    map[string]bool
}

// Schema declares the structure of one record kind
type Schema struct {
	Kind   Kind              `yaml:"kind"`
	Strict bool              `yaml:"strict"`
	Fields map[string]*Field `yaml:"fields"`
}

// Set holds the schema of every record kind
type Set struct {
	schemas map[Kind]*Schema
}

// Get returns the schema for a kind
func (s *Set) Get(kind Kind) (*Schema, bool) {
	sc, ok := s.schemas[kind]
	return sc, ok
}

// Default returns the schemas embedded in the binary
func Default() *Set {
	set, err := loadFrom(func(name string) ([]byte, error) {
		return embedded.ReadFile("schemas/" + name)
	})
	if err != nil {
		panic(fmt.Sprintf("embedded schemas are invalid: %v", err))
	}
	return set
}

// Load reads originals.yaml and games.yaml from dir; an empty dir selects the
// embedded defaults.
func Load(dir string) (*Set, error) {
	if dir == "" {
		return Default(), nil
	}
	return loadFrom(func(name string) ([]byte, error) {
		return os.ReadFile(filepath.Join(dir, name))
	})
}

func loadFrom(read func(name string) ([]byte, error)) (*Set, error) {
	set := &Set{schemas: make(map[Kind]*Schema)}
	for kind, name := range schemaFiles {
		data, err := read(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read schema %s: %w", name, err)
		}
		sc, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("invalid schema %s: %w", name, err)
		}
		if sc.Kind != kind {
			return nil, fmt.Errorf("schema %s declares kind %q, expected %q", name, sc.Kind, kind)
		}
		set.schemas[kind] = sc
	}
	return set, nil
}

// Parse decodes and compiles a schema definition
func Parse(data []byte) (*Schema, error) {
	var sc Schema
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("failed to parse schema: %w", err)
	}
	if err := sc.compile(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// compile checks the schema definition and prepares patterns and enums
func (s *Schema) compile() error {
	if s.Kind == "" {
		return fmt.Errorf("schema kind cannot be empty")
	}
	if len(s.Fields) == 0 {
		return fmt.Errorf("schema %s declares no fields", s.Kind)
	}
	return compileFields(s.Fields, "")
}

func compileFields(fields map[string]*Field, prefix string) error {
	for _, name := range sortedKeys(fields) {
		if err := fields[name].compile(prefix + name); err != nil {
			return err
		}
	}
	return nil
}

func (f *Field) compile(path string) error {
	if f == nil {
		return fmt.Errorf("field %s has no definition", path)
	}

	switch f.Type {
	case TypeStr, TypeName, TypeList, TypeDate, TypeURL, TypeBool:
		if len(f.Fields) > 0 {
			return fmt.Errorf("field %s: only map fields may declare nested fields", path)
		}
	case TypeMap:
		if err := compileFields(f.Fields, path+"."); err != nil {
			return err
		}
	default:
		return fmt.Errorf("field %s: unsupported type: %s", path, f.Type)
	}

	if f.Pattern != "" {
		compiled, err := regexp.Compile(f.Pattern)
		if err != nil {
			return fmt.Errorf("field %s: invalid regex pattern: %w", path, err)
		}
		f.pattern = compiled
	}

	if len(f.Enum) > 0 {
		f.enum = make(map[string]bool, len(f.Enum))
		for _, v := range f.Enum {
			f.enum[v] = true
		}
	}

	if f.MinItems < 0 {
		return fmt.Errorf("field %s: min_items cannot be negative", path)
	}

	return nil
}

func sortedKeys(fields map[string]*Field) []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

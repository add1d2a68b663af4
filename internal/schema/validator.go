package schema

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/osgameclones/osgc/internal/issues"
	"github.com/osgameclones/osgc/internal/storage"
)

// Validator checks raw records against the declared schemas
type Validator struct {
	schemas *Set
}

// NewValidator creates a new validator instance
func NewValidator(schemas *Set) *Validator {
	if schemas == nil {
		schemas = Default()
	}
	return &Validator{schemas: schemas}
}

// Validate checks every record and returns all violations in input order.
// It never stops at the first failing record.
func (v *Validator) Validate(kind Kind, docs []storage.Document) issues.List {
	var found issues.List

	sc, ok := v.schemas.Get(kind)
	if !ok {
		found.Add(string(kind), "no schema declared for record kind %q", kind)
		return found
	}

	for _, doc := range docs {
		for _, violation := range sc.check(doc.Node) {
			found.Append(issues.Issue{
				Index:   doc.Index,
				File:    doc.File,
				Line:    violation.line,
				Name:    doc.DisplayName(),
				Message: violation.message,
			})
		}
	}

	return found
}

type violation struct {
	line    int
	message string
}

type checker struct {
	violations []violation
}

func (c *checker) fail(node *yaml.Node, format string, args ...interface{}) {
	line := 0
	if node != nil {
		line = node.Line
	}
	c.violations = append(c.violations, violation{line: line, message: fmt.Sprintf(format, args...)})
}

func (s *Schema) check(record *yaml.Node) []violation {
	c := &checker{}
	if record == nil || record.Kind != yaml.MappingNode {
		c.fail(record, "record should be a mapping")
		return c.violations
	}
	c.mapping("", record, s.Fields, s.Strict)
	return c.violations
}

// mapping checks the keys of a mapping node in document order, then reports
// missing required keys in name order.
func (c *checker) mapping(prefix string, node *yaml.Node, fields map[string]*Field, strict bool) {
	seen := make(map[string]bool)
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valueNode := node.Content[i], node.Content[i+1]
		key := keyNode.Value
		path := prefix + key

		if seen[key] {
			c.fail(keyNode, "key '%s' is declared more than once", path)
			continue
		}
		seen[key] = true

		field, declared := fields[key]
		if !declared {
			if strict {
				c.fail(keyNode, "key '%s' is not allowed", path)
			}
			continue
		}
		c.value(path, field, valueNode)
	}

	for _, name := range sortedKeys(fields) {
		if fields[name].Required && !seen[name] {
			c.fail(node, "required key '%s' is missing", prefix+name)
		}
	}
}

func (c *checker) value(path string, f *Field, node *yaml.Node) {
	if isNull(node) {
		if f.Required {
			c.fail(node, "key '%s' cannot be empty", path)
		}
		return
	}

	switch f.Type {
	case TypeStr:
		if c.str(path, node) {
			c.constraints(path, f, node)
		}
	case TypeURL:
		if c.str(path, node) {
			c.url(path, node)
			c.constraints(path, f, node)
		}
	case TypeName:
		c.name(path, node)
	case TypeList:
		c.list(path, f, node)
	case TypeDate:
		c.date(path, node)
	case TypeBool:
		if node.Kind != yaml.ScalarNode || node.Tag != "!!bool" {
			c.fail(node, "key '%s' should be a boolean", path)
		}
	case TypeMap:
		if node.Kind != yaml.MappingNode {
			c.fail(node, "key '%s' should be a mapping", path)
			return
		}
		c.mapping(path+".", node, f.Fields, f.Strict)
	}
}

func (c *checker) str(path string, node *yaml.Node) bool {
	if node.Kind != yaml.ScalarNode || node.Tag != "!!str" {
		c.fail(node, "key '%s' should be a string, got %s", path, describe(node))
		return false
	}
	return true
}

func (c *checker) constraints(path string, f *Field, node *yaml.Node) {
	if f.enum != nil && !f.enum[node.Value] {
		c.fail(node, "key '%s': '%s' is not one of [%s]", path, node.Value, strings.Join(f.Enum, ", "))
	}
	if f.pattern != nil && !f.pattern.MatchString(node.Value) {
		c.fail(node, "key '%s': '%s' does not match pattern '%s'", path, node.Value, f.Pattern)
	}
}

func (c *checker) url(path string, node *yaml.Node) {
	u, err := url.Parse(node.Value)
	if err != nil || u.Scheme == "" || u.Host == "" {
		c.fail(node, "key '%s': '%s' is not a valid URL", path, node.Value)
	}
}

func (c *checker) name(path string, node *yaml.Node) {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!str" && node.Value != "" {
			return
		}
	case yaml.SequenceNode:
		if len(node.Content) == 2 &&
			isString(node.Content[0]) && isString(node.Content[1]) {
			return
		}
	}
	c.fail(node, "key '%s' should be a string or a list of two strings", path)
}

func (c *checker) list(path string, f *Field, node *yaml.Node) {
	var items []*yaml.Node
	switch node.Kind {
	case yaml.ScalarNode:
		items = []*yaml.Node{node}
	case yaml.SequenceNode:
		items = node.Content
	default:
		c.fail(node, "key '%s' should be a string or a list of strings", path)
		return
	}

	if len(items) < f.MinItems {
		c.fail(node, "key '%s' should have at least %d item(s)", path, f.MinItems)
	}

	for _, item := range items {
		if !isString(item) {
			c.fail(item, "key '%s' should only contain strings, got %s", path, describe(item))
			continue
		}
		c.constraints(path, f, item)
	}
}

func (c *checker) date(path string, node *yaml.Node) {
	if node.Kind != yaml.ScalarNode || (node.Tag != "!!str" && node.Tag != "!!timestamp") {
		c.fail(node, "key '%s' should be a date (YYYY-MM-DD), got %s", path, describe(node))
		return
	}
	if _, err := time.Parse("2006-01-02", node.Value); err != nil {
		c.fail(node, "key '%s': '%s' is not a valid date (YYYY-MM-DD)", path, node.Value)
	}
}

func isNull(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.Tag == "!!null"
}

func isString(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.Tag == "!!str"
}

func describe(node *yaml.Node) string {
	switch node.Kind {
	case yaml.MappingNode:
		return "a mapping"
	case yaml.SequenceNode:
		return "a list"
	case yaml.AliasNode:
		return "an alias"
	}
	return strings.TrimPrefix(node.Tag, "!!")
}

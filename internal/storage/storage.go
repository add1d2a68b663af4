// Package storage handles all file system operations for osgc: reading the
// per-category YAML data files and writing generated artifacts.
package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	OriginalsDir = "originals"
	GamesDir     = "games"
	yamlExt      = ".yaml"
)

// Document is one record of a category file, kept as a raw YAML node so it
// can be validated before being decoded into a typed record.
type Document struct {
	File  string     // Base name of the file the record was read from
	Index int        // Position in the overall load order of the category
	Node  *yaml.Node // The record's mapping node
}

// Line returns the line the record starts on
func (d Document) Line() int {
	if d.Node == nil {
		return 0
	}
	return d.Node.Line
}

// Decode decodes the record into v
func (d Document) Decode(v interface{}) error {
	if err := d.Node.Decode(v); err != nil {
		return fmt.Errorf("%s:%d: failed to decode %s: %w", d.File, d.Line(), d.DisplayName(), err)
	}
	return nil
}

// Field returns the value node of a top-level key, or nil
func (d Document) Field(key string) *yaml.Node {
	return MappingValue(d.Node, key)
}

// DisplayName returns the record's primary name for error messages; it copes
// with both the plain string and the [primary, secondary] shapes.
func (d Document) DisplayName() string {
	name := d.Field("name")
	switch {
	case name == nil:
	case name.Kind == yaml.ScalarNode:
		return name.Value
	case name.Kind == yaml.SequenceNode && len(name.Content) > 0 && name.Content[0].Kind == yaml.ScalarNode:
		return name.Content[0].Value
	}
	return fmt.Sprintf("<record %d>", d.Index)
}

// MappingValue looks up key in a mapping node
func MappingValue(node *yaml.Node, key string) *yaml.Node {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}

// ListCategoryFiles returns the YAML files of a category directory sorted by name
func ListCategoryFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == yamlExt {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)

	return files, nil
}

// LoadCategory reads every YAML file of a category directory and returns
// their records in file-name order, then in-file order.
func LoadCategory(dir string) ([]Document, error) {
	files, err := ListCategoryFiles(dir)
	if err != nil {
		return nil, err
	}

	var docs []Document
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}

		fileDocs, err := ParseRecords(filepath.Base(path), data)
		if err != nil {
			return nil, err
		}
		for _, doc := range fileDocs {
			doc.Index = len(docs)
			docs = append(docs, doc)
		}
	}

	return docs, nil
}

// ParseRecords splits a file whose top level is a list of records
func ParseRecords(file string, data []byte) ([]Document, error) {
	var root yaml.Node
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse %s: %w", file, err)
	}

	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, nil
	}
	list := root.Content[0]
	if list.Kind == yaml.ScalarNode && list.Tag == "!!null" {
		return nil, nil
	}
	if list.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("%s:%d: top level should be a list of records", file, list.Line)
	}

	docs := make([]Document, 0, len(list.Content))
	for i, item := range list.Content {
		docs = append(docs, Document{File: file, Index: i, Node: item})
	}
	return docs, nil
}

// WriteJSON writes v as indented JSON, creating parent directories
func WriteJSON(path string, v interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filepath.Base(path), err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}

// CleanDir removes and recreates an output directory. It refuses to remove
// the filesystem root or an empty path.
func CleanDir(dir string) error {
	clean := filepath.Clean(dir)
	if clean == "" || clean == "." || clean == string(filepath.Separator) || strings.HasSuffix(clean, ":\\") {
		return fmt.Errorf("refusing to clean directory %q", dir)
	}
	if err := os.RemoveAll(clean); err != nil {
		return fmt.Errorf("failed to remove %s: %w", clean, err)
	}
	if err := os.MkdirAll(clean, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", clean, err)
	}
	return nil
}

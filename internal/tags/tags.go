// Package tags turns classification fields into searchable tag tokens.
package tags

import (
	"fmt"
	"strings"

	"github.com/gosimple/unidecode"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/osgameclones/osgc/internal/catalog"
)

// DefaultCacheSize bounds the transliteration cache
const DefaultCacheSize = 4096

// Entry tag keys, in the order their tags are emitted
var EntryKeys = []string{
	"status",
	"development",
	"langs",
	"frameworks",
	"content",
	"licenses",
	"multiplayer",
	"type",
}

// Meta tag keys, emitted after the entry tags
var MetaKeys = []string{"genres", "subgenres", "themes"}

// Parse turns a value into a tag token: spaces become hyphens, then lowercase
func Parse(s string) string {
	return strings.ToLower(strings.ReplaceAll(s, " ", "-"))
}

// Normalizer builds deduplicated tag lists; transliterations are cached per value
type Normalizer struct {
	ascii *lru.Cache[string, string]
}

// NewNormalizer creates a normalizer with a transliteration cache of the given size
func NewNormalizer(cacheSize int) (*Normalizer, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[string, string](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create transliteration cache: %w", err)
	}
	return &Normalizer{ascii: cache}, nil
}

// ASCII returns the ASCII transliteration of s
func (n *Normalizer) ASCII(s string) string {
	if v, ok := n.ascii.Get(s); ok {
		return v
	}
	v := unidecode.Unidecode(s)
	n.ascii.Add(s, v)
	return v
}

// ParseASCII returns the tag token of the ASCII transliteration of s
func (n *Normalizer) ParseASCII(s string) string {
	return Parse(n.ASCII(s))
}

// Normalize builds the tags of a record from the given keys of fields.
// Each present field yields its plain tags followed by their ASCII variants;
// the result keeps first-seen order without duplicates. A field that is
// neither a string nor a list of strings is an error naming the record.
func (n *Normalizer) Normalize(record string, fields map[string]interface{}, keys []string) ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	add := func(tag string) {
		if !seen[tag] {
			seen[tag] = true
			out = append(out, tag)
		}
	}

	for _, key := range keys {
		raw, ok := fields[key]
		if !ok {
			continue
		}

		values, err := stringValues(raw)
		if err != nil {
			return nil, fmt.Errorf("%s's key %q is not valid (%s)", record, key, err)
		}

		for _, v := range values {
			add(Parse(v))
		}
		for _, v := range values {
			add(n.ParseASCII(v))
		}
	}

	return out, nil
}

func stringValues(raw interface{}) ([]string, error) {
	switch v := raw.(type) {
	case string:
		return []string{v}, nil
	case []string:
		return v, nil
	case catalog.StringList:
		return v, nil
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("list item %T", item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%T", raw)
	}
}

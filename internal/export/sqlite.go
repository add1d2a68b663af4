package export

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/osgameclones/osgc/internal/enrich"
	"github.com/osgameclones/osgc/internal/site"
)

// Schema is the layout of the catalog database
const Schema = `
CREATE TABLE builds (
	id           TEXT PRIMARY KEY,
	generated_at TEXT NOT NULL,
	last_updated TEXT
);

CREATE TABLE originals (
	name      TEXT PRIMARY KEY,
	slug      TEXT NOT NULL,
	names     TEXT NOT NULL,
	wikilink  TEXT,
	meta      TEXT NOT NULL
);

CREATE TABLE clones (
	name        TEXT PRIMARY KEY,
	type        TEXT NOT NULL,
	status      TEXT,
	development TEXT,
	repo        TEXT,
	url         TEXT,
	added       TEXT,
	updated     TEXT,
	is_new      INTEGER NOT NULL,
	is_updated  INTEGER NOT NULL,
	data        TEXT NOT NULL
);

CREATE TABLE clone_originals (
	clone    TEXT NOT NULL REFERENCES clones(name),
	original TEXT NOT NULL REFERENCES originals(name),
	PRIMARY KEY (clone, original)
);

CREATE TABLE tags (
	clone TEXT NOT NULL REFERENCES clones(name),
	tag   TEXT NOT NULL,
	pos   INTEGER NOT NULL,
	PRIMARY KEY (clone, tag)
);

CREATE TABLE facets (
	dimension  TEXT NOT NULL,
	value      TEXT NOT NULL,
	count      INTEGER NOT NULL,
	identities TEXT NOT NULL,
	PRIMARY KEY (dimension, value)
);

CREATE INDEX idx_tags_tag ON tags(tag);
`

// WriteSQLite writes the model to a fresh SQLite database at path in a
// single transaction; an existing file is replaced.
func WriteSQLite(path string, m *site.Model, manifest *Manifest) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove old catalog: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec(Schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	w := &catalogWriter{tx: tx}
	w.build(manifest)
	for _, g := range m.Games {
		w.original(g)
	}
	for _, c := range m.UniqueClones() {
		w.clone(c)
	}
	for _, g := range m.Games {
		for _, c := range g.Clones {
			w.exec("INSERT OR IGNORE INTO clone_originals (clone, original) VALUES (?, ?)",
				c.Name.Primary, g.Original.Name.Primary)
		}
	}
	for _, t := range m.Facets() {
		for _, e := range t.Entries() {
			w.exec("INSERT INTO facets (dimension, value, count, identities) VALUES (?, ?, ?, ?)",
				string(t.Name), e.Value, e.Count, w.json(e.Identities))
		}
	}
	if w.err != nil {
		return w.err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit catalog: %w", err)
	}
	return nil
}

// catalogWriter keeps the first error and skips every statement after it
type catalogWriter struct {
	tx  *sql.Tx
	err error
}

func (w *catalogWriter) exec(query string, args ...interface{}) {
	if w.err != nil {
		return
	}
	if _, err := w.tx.Exec(query, args...); err != nil {
		w.err = fmt.Errorf("failed to insert into %s: %w", tableName(query), err)
	}
}

// tableName returns the word following INTO in an insert statement
func tableName(query string) string {
	fields := strings.Fields(query)
	for i, f := range fields {
		if f == "INTO" && i+1 < len(fields) {
			return fields[i+1]
		}
	}
	return "catalog"
}

func (w *catalogWriter) json(v interface{}) string {
	data, err := json.Marshal(v)
	if err != nil && w.err == nil {
		w.err = fmt.Errorf("failed to marshal catalog value: %w", err)
	}
	return string(data)
}

func (w *catalogWriter) build(manifest *Manifest) {
	w.exec("INSERT INTO builds (id, generated_at, last_updated) VALUES (?, ?, ?)",
		manifest.BuildID, manifest.GeneratedAt.Format("2006-01-02T15:04:05Z07:00"), nullable(manifest.LastUpdated))
}

func (w *catalogWriter) original(g *site.Game) {
	w.exec("INSERT INTO originals (name, slug, names, wikilink, meta) VALUES (?, ?, ?, ?, ?)",
		g.Original.Name.Primary, g.Slug(), w.json(g.Names()), nullable(g.WikiLink()), w.json(g.Meta))
}

func (w *catalogWriter) clone(c *enrich.EnrichedClone) {
	w.exec(`INSERT INTO clones (name, type, status, development, repo, url, added, updated, is_new, is_updated, data)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.Name.Primary, c.Type, nullable(c.Status), nullable(c.Development), nullable(c.Repo), nullable(c.URL),
		nullable(c.Added), nullable(c.Updated), c.New, c.IsUpdated, w.json(c))
	for i, tag := range c.Tags {
		w.exec("INSERT INTO tags (clone, tag, pos) VALUES (?, ?, ?)", c.Name.Primary, tag, i)
	}
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

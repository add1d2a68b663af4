package export

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osgameclones/osgc/internal/site"
	"github.com/osgameclones/osgc/internal/storage"
)

var buildTime = time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)

const originalsYAML = `
- name: [Grand Theft Auto, GTA]
  external:
    wikipedia: Grand Theft Auto (video game)
  meta:
    genres: [Action]
- name: Transport Tycoon
  meta:
    genres: Simulation
    themes: [Business]
`

const clonesYAML = `
- name: OpenGTA
  originals: Grand Theft Auto
  type: remake
  status: playable
  langs: [C++]
  repo: https://github.com/foo/opengta
  updated: 2024-06-25
- name: OpenTTD
  originals: [Transport Tycoon, Grand Theft Auto]
  type: remake
  status: playable
  langs: [C++]
  added: 2010-01-01
  updated: 2024-01-01
`

func buildModel(t *testing.T) *site.Model {
	t.Helper()
	originals, err := storage.ParseRecords("originals.yaml", []byte(originalsYAML))
	require.NoError(t, err)
	clones, err := storage.ParseRecords("games.yaml", []byte(clonesYAML))
	require.NoError(t, err)

	m, err := site.NewBuilder(site.Options{Now: func() time.Time { return buildTime }}).Build(originals, clones)
	require.NoError(t, err)
	return m
}

func readJSON(t *testing.T, path string, v interface{}) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, v))
}

func TestWriteData(t *testing.T) {
	dest := t.TempDir()
	m := buildModel(t)

	manifest, err := WriteData(dest, m)
	require.NoError(t, err)

	_, err = uuid.Parse(manifest.BuildID)
	assert.NoError(t, err)
	assert.Equal(t, 2, manifest.Games)
	assert.Equal(t, 2, manifest.Clones)
	assert.Equal(t, 1, manifest.RecentlyUpdated)
	assert.Equal(t, "2024-06-25", manifest.LastUpdated)

	var game map[string]interface{}
	readJSON(t, filepath.Join(dest, "grand-theft-auto", "data.json"), &game)
	assert.Equal(t, []interface{}{"Grand Theft Auto", "GTA"}, game["name"])

	var clone map[string]interface{}
	readJSON(t, filepath.Join(dest, "_clones", "openttd.json"), &clone)
	assert.Equal(t, "OpenTTD", clone["name"])
	assert.Equal(t, false, clone["is_updated"])
	assert.Contains(t, clone["tags"], "c++")

	readJSON(t, filepath.Join(dest, "_clones", "opengta.json"), &clone)
	assert.Equal(t, "https://github.com/foo/opengta", clone["repo"])
	assert.NotNil(t, clone["repo_info"])

	var facets map[string][]map[string]interface{}
	readJSON(t, filepath.Join(dest, "facets.json"), &facets)
	require.Len(t, facets["genres"], 2)
	assert.Equal(t, "Action", facets["genres"][0]["value"])
	require.Len(t, facets["langs"], 1)
	assert.Equal(t, float64(2), facets["langs"][0]["tag_count"])

	var index Manifest
	readJSON(t, filepath.Join(dest, "index.json"), &index)
	assert.Equal(t, manifest.BuildID, index.BuildID)
	require.Len(t, index.Entries, 2)
	assert.Equal(t, "grand-theft-auto", index.Entries[0].Slug)
	assert.Equal(t, 2, index.Entries[0].Clones)
	assert.Equal(t, "transport-tycoon", index.Entries[1].Slug)
}

func TestNewManifestIDsDiffer(t *testing.T) {
	m := buildModel(t)
	assert.NotEqual(t, NewManifest(m).BuildID, NewManifest(m).BuildID)
}

func TestWriteSQLite(t *testing.T) {
	m := buildModel(t)
	manifest := NewManifest(m)
	path := filepath.Join(t.TempDir(), "catalog.db")

	require.NoError(t, WriteSQLite(path, m, manifest))
	// A second run replaces the catalog instead of failing on existing rows.
	require.NoError(t, WriteSQLite(path, m, manifest))

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	count := func(query string, args ...interface{}) int {
		var n int
		require.NoError(t, db.QueryRow(query, args...).Scan(&n))
		return n
	}

	assert.Equal(t, 1, count("SELECT COUNT(*) FROM builds WHERE id = ?", manifest.BuildID))
	assert.Equal(t, 2, count("SELECT COUNT(*) FROM originals"))
	assert.Equal(t, 2, count("SELECT COUNT(*) FROM clones"))
	assert.Equal(t, 3, count("SELECT COUNT(*) FROM clone_originals"))
	assert.Equal(t, 1, count("SELECT COUNT(*) FROM clones WHERE is_updated = 1"))

	var repo sql.NullString
	require.NoError(t, db.QueryRow("SELECT repo FROM clones WHERE name = ?", "OpenGTA").Scan(&repo))
	assert.Equal(t, "https://github.com/foo/opengta", repo.String)
	require.NoError(t, db.QueryRow("SELECT repo FROM clones WHERE name = ?", "OpenTTD").Scan(&repo))
	assert.False(t, repo.Valid)
	assert.Equal(t, 2, count("SELECT COUNT(*) FROM tags WHERE tag = ?", "c++"))
	assert.Equal(t, 2, count("SELECT count FROM facets WHERE dimension = ? AND value = ?", "langs", "C++"))

	var wikilink string
	require.NoError(t, db.QueryRow("SELECT wikilink FROM originals WHERE name = ?", "Grand Theft Auto").Scan(&wikilink))
	assert.Equal(t, "https://en.wikipedia.org/wiki/Grand_Theft_Auto_(video_game)", wikilink)
}

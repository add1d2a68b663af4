package site

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osgameclones/osgc/internal/config"
	"github.com/osgameclones/osgc/internal/issues"
	"github.com/osgameclones/osgc/internal/storage"
)

var buildTime = time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)

const originalsYAML = `
- name: Zork
  meta:
    genres: [Adventure]
    themes: Fantasy
- name: The Ant
  meta:
    genres: [Strategy]
- name: SCUMM
  external:
    website: https://example.com/scumm
- name: Game 10
- name: Game 2
- name: [Grand Theft Auto, GTA]
  external:
    wikipedia: Grand Theft Auto (video game)
  meta:
    genres: [Action, adventure]
`

const clonesYAML = `
- name: ZorkGo
  originals: Zork
  type: remake
  status: playable
  langs: [Go]
  repo: https://github.com/foo/zork
  added: 2024-06-20
  updated: 2024-06-20
- name: AntGo
  originals: [The Ant, Zork]
  type: clone
  status: semi-playable
  langs: Go
  added: 2023-01-01
  updated: 2024-06-25
- name: OpenGTA
  originals: Grand Theft Auto
  type: remake
  status: playable
  langs: [C++]
  updated: 2024-06-27
- name: OpenGTA
  originals: Grand Theft Auto
  type: remake
  status: playable
  updated: 2024-06-10
- name: Old
  originals: Game 2
  type: similar
  status: playable
  updated: 2020-01-01
`

func docs(t *testing.T, file, content string) []storage.Document {
	t.Helper()
	out, err := storage.ParseRecords(file, []byte(content))
	require.NoError(t, err)
	return out
}

func build(t *testing.T, originals, clones string) (*Model, error) {
	t.Helper()
	b := NewBuilder(Options{Now: func() time.Time { return buildTime }})
	return b.Build(docs(t, "originals.yaml", originals), docs(t, "games.yaml", clones))
}

func gameNames(m *Model) []string {
	var out []string
	for _, g := range m.Games {
		out = append(out, g.Original.Name.Primary)
	}
	return out
}

func TestBuildOrdersGames(t *testing.T) {
	m, err := build(t, originalsYAML, clonesYAML)
	require.NoError(t, err)

	assert.Equal(t, []string{"SCUMM", "The Ant", "Game 2", "Game 10", "Grand Theft Auto", "Zork"}, gameNames(m))
}

func TestBuildGroupsAndEnriches(t *testing.T) {
	m, err := build(t, originalsYAML, clonesYAML)
	require.NoError(t, err)

	zork := m.Games[5]
	require.Len(t, zork.Clones, 2)
	assert.Equal(t, "ZorkGo", zork.Clones[0].Name.Primary)
	assert.True(t, zork.Clones[0].New)
	assert.True(t, zork.Clones[0].IsUpdated)
	assert.NotNil(t, zork.Clones[0].RepoInfo.Badge)
	assert.Equal(t, []string{"playable", "go", "remake", "adventure", "fantasy"}, zork.Clones[0].Tags)

	assert.Equal(t, "AntGo", zork.Clones[1].Name.Primary)
	assert.False(t, zork.Clones[1].New)
	assert.True(t, zork.Clones[1].IsUpdated)

	assert.Equal(t, 6, m.CloneCount())
	assert.Len(t, m.UniqueClones(), 4)
}

func TestBuildRecentlyUpdatedIndex(t *testing.T) {
	m, err := build(t, originalsYAML, clonesYAML)
	require.NoError(t, err)

	var names []string
	for _, r := range m.NewGames {
		names = append(names, r.Clone.Name.Primary)
	}
	// OpenGTA appears twice in the data; only its latest update is kept.
	// AntGo is linked to two originals and is listed once.
	assert.Equal(t, []string{"OpenGTA", "AntGo", "ZorkGo"}, names)

	gta, ok := m.NewGame("OpenGTA")
	require.True(t, ok)
	assert.Equal(t, "2024-06-27", gta.Clone.Updated)
	assert.Equal(t, []string{"Grand Theft Auto", "GTA"}, gta.Names)

	_, ok = m.NewGame("Old")
	assert.False(t, ok)

	assert.Equal(t, time.Date(2024, 6, 27, 0, 0, 0, 0, time.UTC), m.LastUpdated())
}

func TestBuildFacets(t *testing.T) {
	m, err := build(t, originalsYAML, clonesYAML)
	require.NoError(t, err)

	goLang, ok := m.Languages.Get("Go")
	require.True(t, ok)
	assert.Equal(t, 2, goLang.Count, "AntGo is grouped twice but counted once")

	var genres []string
	for _, e := range m.Genres.Entries() {
		genres = append(genres, e.Value)
	}
	assert.Equal(t, []string{"Action", "Adventure", "adventure", "Strategy"}, genres)

	themes, ok := m.Themes.Get("Fantasy")
	require.True(t, ok)
	assert.Equal(t, []string{"Zork"}, themes.Identities)
	require.Len(t, m.Facets(), 4)
	assert.Same(t, m.Genres, m.Facets()[0])
	assert.Same(t, m.Languages, m.Facets()[3])
}

func TestGameHelpers(t *testing.T) {
	m, err := build(t, originalsYAML, clonesYAML)
	require.NoError(t, err)

	gta := m.Games[4]
	assert.Equal(t, []string{"Grand Theft Auto", "GTA"}, gta.Names())
	assert.Equal(t, "grand-theft-auto", gta.Slug())
	assert.Equal(t, "https://en.wikipedia.org/wiki/Grand_Theft_Auto_(video_game)", gta.WikiLink())
	assert.Equal(t, []string{"Grand Theft Auto", "GTA"}, gta.Meta.NamesASCII)

	scumm := m.Games[0]
	assert.Equal(t, "https://example.com/scumm", scumm.WikiLink())
}

func TestBuildSchemaErrors(t *testing.T) {
	clones := `
- name: Broken Tool
  originals: Zork
  type: tool
  status: finished
- name: NoOriginals
  type: remake
  status: playable
`
	m, err := build(t, originalsYAML, clones)
	assert.Nil(t, m)

	var issueErr *issues.Error
	require.True(t, errors.As(err, &issueErr))
	assert.Equal(t, issues.StageSchema, issueErr.Stage)
	require.Len(t, issueErr.Issues, 2)
	assert.Equal(t, "Broken Tool", issueErr.Issues[0].Name)
	assert.Equal(t, "NoOriginals", issueErr.Issues[1].Name)
}

func TestBuildIntegrityErrors(t *testing.T) {
	clones := `
- name: Orphan
  originals: [Missing Game]
  type: remake
  status: playable
- name: Editor
  originals: Zork
  type: tool
  status: playable
`
	_, err := build(t, originalsYAML, clones)

	var issueErr *issues.Error
	require.True(t, errors.As(err, &issueErr))
	assert.Equal(t, issues.StageIntegrity, issueErr.Stage)
	require.Len(t, issueErr.Issues, 2)
	assert.Equal(t, "Orphan", issueErr.Issues[0].Name)
	assert.Contains(t, issueErr.Issues[0].Message, "Missing Game")
	assert.Equal(t, "games.yaml", issueErr.Issues[0].File)
	assert.Equal(t, "Has invalid status - tools must be N/A", issueErr.Issues[1].Message)
}

func TestBuildDuplicateOriginal(t *testing.T) {
	originals := originalsYAML + "- name: Zork\n"
	_, err := build(t, originals, clonesYAML)

	var issueErr *issues.Error
	require.True(t, errors.As(err, &issueErr))
	assert.Equal(t, issues.StageIntegrity, issueErr.Stage)
	require.Len(t, issueErr.Issues, 1)
	assert.Equal(t, "Duplicate original game 'Zork'", issueErr.Issues[0].Message)
}

func TestBuildCustomPinned(t *testing.T) {
	b := NewBuilder(Options{Now: func() time.Time { return buildTime }, PinnedOriginal: "Zork"})
	m, err := b.Build(docs(t, "o.yaml", "- name: Alpha\n- name: Zork\n- name: SCUMM\n"), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Zork", "Alpha", "SCUMM"}, gameNames(m))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "originals"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "games"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "originals", "z.yaml"), []byte(originalsYAML), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "games", "a.yaml"), []byte(clonesYAML), 0o644))

	cfg := config.DefaultConfig()
	cfg.DataDir = dir
	cfg.OutputDir = filepath.Join(dir, "_build")
	require.NoError(t, cfg.Validate())

	m, err := Load(cfg)
	require.NoError(t, err)
	assert.Len(t, m.Games, 6)

	_, err = Load(&config.Config{DataDir: filepath.Join(dir, "missing"), FreshnessDays: 30})
	assert.Error(t, err)
}

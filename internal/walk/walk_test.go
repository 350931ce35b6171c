// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package walk

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("# doc\n"), 0o644))
}

func TestWalk(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "generated_docs")

	writeFile(t, filepath.Join(in, "Setup.md"))
	writeFile(t, filepath.Join(in, "README.md"))
	writeFile(t, filepath.Join(in, "notes.txt"))
	writeFile(t, filepath.Join(in, ".#Setup.md"))
	writeFile(t, filepath.Join(in, "shared", "Shared.md"))
	require.NoError(t, os.Symlink(filepath.Join(in, "shared", "Shared.md"), filepath.Join(in, "Linked.md")))
	require.NoError(t, os.Symlink(filepath.Join(in, "gone.md"), filepath.Join(in, "Dangling.md")))
	writeFile(t, filepath.Join(in, "how_tos", "B.md"))
	writeFile(t, filepath.Join(in, "how_tos", "A.md"))
	writeFile(t, filepath.Join(in, "how_tos", "TemplatePage.md"))
	writeFile(t, filepath.Join(in, "how_tos", "nested", "Deep.md"))
	require.NoError(t, os.MkdirAll(filepath.Join(in, "explanations"), 0o755))

	opts := Options{
		InputDir:  in,
		OutputDir: out,
		Subdirs:   []string{"", "how_tos", "explanations", "missing"},
		Extension: ".md",
		Skip:      []string{"README", "TemplatePage"},
	}

	var visited []string
	var log bytes.Buffer
	stats, err := Walk(opts, &log, func(doc Document) error {
		visited = append(visited, doc.Name())
		assert.Equal(t, filepath.Join(in, doc.Subdir), doc.InputDir)
		assert.Equal(t, filepath.Join(out, doc.Subdir), doc.OutputDir)
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Linked", "Setup", "how_tos/A", "how_tos/B"}, visited)
	assert.Equal(t, Stats{Visited: 4, Excluded: 2, MissingDirs: 1, EmptyDirs: 1}, stats)

	assert.DirExists(t, out)
	assert.DirExists(t, filepath.Join(out, "how_tos"))
	assert.NoDirExists(t, filepath.Join(out, "explanations"))
	assert.NoDirExists(t, filepath.Join(out, "missing"))
	assert.NoDirExists(t, filepath.Join(out, "how_tos", "nested"))

	assert.Contains(t, log.String(), ">>>> how_tos\n")
	assert.Contains(t, log.String(), "missing does not exist. Skipping")
}

func TestWalk_VisitErrorStops(t *testing.T) {
	in := t.TempDir()
	writeFile(t, filepath.Join(in, "a", "One.md"))
	writeFile(t, filepath.Join(in, "b", "Two.md"))

	boom := errors.New("converter failed")
	var visited []string
	stats, err := Walk(Options{
		InputDir:  in,
		OutputDir: t.TempDir(),
		Subdirs:   []string{"a", "b"},
		Extension: ".md",
	}, &bytes.Buffer{}, func(doc Document) error {
		visited = append(visited, doc.Name())
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"a/One"}, visited)
	assert.Equal(t, 0, stats.Visited)
}

func TestWalk_FileInPlaceOfDirectory(t *testing.T) {
	in := t.TempDir()
	writeFile(t, filepath.Join(in, "how_tos"))

	var log bytes.Buffer
	stats, err := Walk(Options{
		InputDir:  in,
		OutputDir: t.TempDir(),
		Subdirs:   []string{"how_tos"},
		Extension: ".md",
	}, &log, func(Document) error {
		t.Fatal("visit should not be called")
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, stats.MissingDirs)
}

func TestDocumentPaths(t *testing.T) {
	doc := Document{Subdir: "how_tos", BaseName: "Foo", InputDir: "doc/how_tos", OutputDir: "out/how_tos"}

	assert.Equal(t, filepath.Join("doc", "how_tos", "Foo.md"), doc.InputPath(".md"))
	assert.Equal(t, filepath.Join("out", "how_tos", "Foo.rst"), doc.OutputPath(".rst"))
	assert.Equal(t, "how_tos/Foo", doc.Name())
	assert.Equal(t, "Foo", Document{BaseName: "Foo"}.Name())
}

package fs_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/excursion/internal/testutils"
	"github.com/aretw0/excursion/pkg/adapters/fs"
	"github.com/aretw0/excursion/pkg/ports"
)

func TestRepository_Contract(t *testing.T) {
	root := testutils.SetupContentDir(t, testutils.ContractFixture())

	repo, err := fs.Open(root)
	require.NoError(t, err)

	ports.RunLocationRepositoryContract(t, repo)
}

func TestRepository_AssetRules(t *testing.T) {
	root := testutils.SetupContentDir(t, map[string]string{
		"Museum/b.txt":       "second",
		"Museum/a.txt":       "first",
		"Museum/Z.JPG":       "jpg",
		"Museum/photo.webp":  "webp",
		"Museum/zz.flac":     "flac",
		"Museum/track.OGG":   "ogg",
		"Museum/notes.md":    "ignored",
		"Museum/sub/x.jpg":   "nested files are ignored",
		".hidden/readme.txt": "hidden directories are skipped",
	})

	repo, err := fs.Open(root)
	require.NoError(t, err)

	ids, err := repo.ListAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"Museum"}, ids)

	text, ok := repo.GetText("Museum")
	require.True(t, ok)
	assert.Equal(t, "first", text)

	images := repo.GetImages("Museum")
	require.Len(t, images, 2)
	assert.Equal(t, "Z.JPG", filepath.Base(images[0]))
	assert.Equal(t, "photo.webp", filepath.Base(images[1]))

	audio, ok := repo.GetAudio("Museum")
	require.True(t, ok)
	assert.Equal(t, "track.OGG", filepath.Base(audio))
}

func TestRepository_CustomPatterns(t *testing.T) {
	root := testutils.SetupContentDir(t, map[string]string{
		"Park/about.md":  "markdown text",
		"Park/cover.jpg": "jpg",
	})

	repo, err := fs.Open(root, fs.WithPatterns(fs.Patterns{Text: []string{"*.md"}}))
	require.NoError(t, err)

	text, ok := repo.GetText("Park")
	require.True(t, ok)
	assert.Equal(t, "markdown text", text)
	assert.Len(t, repo.GetImages("Park"), 1, "image defaults are kept")
}

func TestOpen_Errors(t *testing.T) {
	_, err := fs.Open(filepath.Join(t.TempDir(), "missing"))
	assert.ErrorContains(t, err, "failed to read data directory")

	_, err = fs.Open(t.TempDir(), fs.WithPatterns(fs.Patterns{Audio: []string{"[a-"}}))
	assert.ErrorContains(t, err, "invalid audio pattern")
}

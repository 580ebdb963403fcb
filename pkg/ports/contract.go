package ports

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunLocationRepositoryContract runs a suite of tests to verify that a LocationRepository
// implementation adheres to the interface contract.
//
// The repository must be seeded with the contract fixture:
//
//	Alpha: text "Welcome to Alpha", images "1.jpg" and "2.png", audio "guide.mp3"
//	Beta:  image "only.jpg", no text
//	Gamma: text "Gamma is the last stop", no media
func RunLocationRepositoryContract(t *testing.T, repo LocationRepository) {
	t.Run("ListAll is sorted", func(t *testing.T) {
		ids, err := repo.ListAll()
		require.NoError(t, err)
		assert.Equal(t, []string{"Alpha", "Beta", "Gamma"}, ids)
	})

	t.Run("Text", func(t *testing.T) {
		text, ok := repo.GetText("Alpha")
		require.True(t, ok)
		assert.Contains(t, text, "Welcome to Alpha")

		_, ok = repo.GetText("Beta")
		assert.False(t, ok, "Beta has no text")
	})

	t.Run("Images are ordered", func(t *testing.T) {
		images := repo.GetImages("Alpha")
		require.Len(t, images, 2)
		assert.Equal(t, "1.jpg", filepath.Base(images[0]))
		assert.Equal(t, "2.png", filepath.Base(images[1]))

		assert.Empty(t, repo.GetImages("Gamma"))
	})

	t.Run("Audio", func(t *testing.T) {
		audio, ok := repo.GetAudio("Alpha")
		require.True(t, ok)
		assert.Equal(t, "guide.mp3", filepath.Base(audio))

		_, ok = repo.GetAudio("Gamma")
		assert.False(t, ok)
	})

	t.Run("Unknown location", func(t *testing.T) {
		_, ok := repo.GetText("Nowhere")
		assert.False(t, ok)
		assert.Empty(t, repo.GetImages("Nowhere"))
		_, ok = repo.GetAudio("Nowhere")
		assert.False(t, ok)
	})
}

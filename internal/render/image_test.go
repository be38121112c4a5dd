package render

import (
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderImageSizeGrowsWithContent(t *testing.T) {
	short, err := RenderImage([]string{"a"}, ImageOptions{})
	require.NoError(t, err)

	long, err := RenderImage([]string{"a", "├── some_longer_entry_name.go"}, ImageOptions{})
	require.NoError(t, err)

	assert.Greater(t, long.Bounds().Dx(), short.Bounds().Dx())
	assert.Greater(t, long.Bounds().Dy(), short.Bounds().Dy())
}

func TestRenderImageEmptyInput(t *testing.T) {
	_, err := RenderImage(nil, ImageOptions{})
	assert.Error(t, err)
}

func TestRenderImageHeightIsLinearInLineCount(t *testing.T) {
	one, err := RenderImage([]string{"x"}, ImageOptions{})
	require.NoError(t, err)
	three, err := RenderImage([]string{"x", "y", "z"}, ImageOptions{})
	require.NoError(t, err)

	marginY := 5
	lineHeight := one.Bounds().Dy() - 2*marginY
	assert.Equal(t, 3*lineHeight+2*marginY, three.Bounds().Dy())
}

func TestSaveJPEGExplicitQuality(t *testing.T) {
	img, err := RenderImage([]string{"├── api"}, ImageOptions{})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "tree.jpg")
	require.NoError(t, SaveJPEG(img, path, 50))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	decoded, err := jpeg.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), decoded.Bounds())
}

func TestSaveJPEGWritesDecodableFile(t *testing.T) {
	img, err := RenderImage([]string{"go_internist", "└── main.go"}, ImageOptions{})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "tree_output.jpg")
	require.NoError(t, SaveJPEG(img, path, 0))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	decoded, err := jpeg.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), decoded.Bounds())
}

package imageio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"form-register/internal/raster"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	buf := raster.New(8, 6)
	for y := 0; y < 6; y++ {
		for x := 0; x < 8; x++ {
			buf.SetRGBA(x, y, uint8(x*30), uint8(y*40), 128, 255)
		}
	}

	path := filepath.Join(t.TempDir(), "page.png")
	require.NoError(t, SavePNG(buf, path))

	got, err := LoadBuffer(path)
	require.NoError(t, err)
	require.Equal(t, 8, got.Width)
	require.Equal(t, 6, got.Height)

	r, g, b, a := got.RGBA(3, 2)
	require.Equal(t, uint8(90), r)
	require.Equal(t, uint8(80), g)
	require.Equal(t, uint8(128), b)
	require.Equal(t, uint8(255), a)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.png"))
	require.Error(t, err)
}

func TestLoadNotAnImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bogus.png")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestPreviewDownscales(t *testing.T) {
	buf := raster.New(400, 200)
	img := Preview(buf, 100)

	b := img.Bounds()
	require.Equal(t, 100, b.Dx())
	require.Equal(t, 50, b.Dy())
}

func TestPreviewKeepsSmallImages(t *testing.T) {
	buf := raster.New(50, 40)
	img := Preview(buf, 100)

	b := img.Bounds()
	require.Equal(t, 50, b.Dx())
	require.Equal(t, 40, b.Dy())
}

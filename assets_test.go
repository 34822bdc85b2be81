package pubgen

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := range w {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestBuild_CopiesAssets(t *testing.T) {
	files := fixtureFiles()
	files["static/css/site.css"] = "body{}"
	files["static/img/wide.png"] = string(pngBytes(t, 100, 50))
	files["static/img/small.png"] = string(pngBytes(t, 10, 10))
	s := newTestSite(t, files, func(c *SiteConfig) {
		c.StaticDir = filepath.Join(filepath.Dir(c.PagesDir), "static")
		c.MaxImageWidth = 40
	})

	res, err := s.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, res.Assets)

	assert.Equal(t, "body{}", readOutput(t, s, "css/site.css"))

	wide, err := os.Open(filepath.Join(s.Config.OutputDir, "img", "wide.png"))
	require.NoError(t, err)
	defer wide.Close()
	cfg, format, err := image.DecodeConfig(wide)
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 40, cfg.Width)
	assert.Equal(t, 20, cfg.Height)

	assert.Equal(t, files["static/img/small.png"], readOutput(t, s, "img/small.png"))
}

func TestResizeImage(t *testing.T) {
	data := pngBytes(t, 100, 50)

	_, ok, err := resizeImage(data, ".png", 200)
	require.NoError(t, err)
	assert.False(t, ok, "narrow image should be left alone")

	_, ok, err = resizeImage([]byte("not an image"), ".txt", 10)
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = resizeImage([]byte("not an image"), ".jpg", 10)
	require.Error(t, err)

	out, ok, err := resizeImage(data, ".PNG", 50)
	require.NoError(t, err)
	require.True(t, ok)
	cfg, _, err := image.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Width)
	assert.Equal(t, 25, cfg.Height)
}

package httpjpg

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, dir, name string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, x%h, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "img"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "img", name), buf.Bytes(), 0o644))
}

func TestImageOptimizerResizes(t *testing.T) {
	a := newTestApp(t, newFakeCMS())
	writePNG(t, a.Config.StaticDir, "a.png", 200, 100)
	b := newBrowser(t, a)

	rec := b.get("/_img?src=/public/img/a.png&w=40")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/jpeg", rec.Header().Get("Content-Type"))
	assert.Equal(t, "40x20", rec.Header().Get("X-Image-Size"))
	assert.Contains(t, rec.Header().Get("Cache-Control"), "max-age=604800")
}

func TestImageOptimizerNeverUpscales(t *testing.T) {
	a := newTestApp(t, newFakeCMS())
	writePNG(t, a.Config.StaticDir, "small.png", 30, 30)
	rec := newBrowser(t, a).get("/_img?src=/public/img/small.png&w=600&q=90")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "30x30", rec.Header().Get("X-Image-Size"))
}

func TestImageOptimizerRejectsBadInput(t *testing.T) {
	a := newTestApp(t, newFakeCMS())
	writePNG(t, a.Config.StaticDir, "a.png", 20, 20)
	require.NoError(t, os.WriteFile(filepath.Join(a.Config.StaticDir, "img", "broken.png"), []byte("not a png"), 0o644))
	b := newBrowser(t, a)

	tests := []struct {
		target string
		code   int
	}{
		{"/_img?src=https://a.storyblok.com/f/1/x.jpg&w=10", http.StatusBadRequest},
		{"/_img?src=/public/../config.yaml&w=10", http.StatusBadRequest},
		{"/_img?src=/public/img/a.svg&w=10", http.StatusBadRequest},
		{"/_img?src=/public/img/a.png", http.StatusBadRequest},
		{"/_img?src=/public/img/a.png&w=0", http.StatusBadRequest},
		{"/_img?src=/public/img/a.png&w=10&q=101", http.StatusBadRequest},
		{"/_img?src=/public/img/missing.png&w=10", http.StatusNotFound},
		{"/_img?src=/public/img/broken.png&w=10", http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.code, b.get(tt.target).Code, tt.target)
	}
}

func TestEmbeddedAssetsFallback(t *testing.T) {
	a := newTestApp(t, newFakeCMS())
	b := newBrowser(t, a)

	rec := b.get("/favicon.svg")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<svg")

	rec = b.get("/public/styles.css")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), ".draft-banner")

	assert.Contains(t, rec.Header().Get("Content-Type"), "text/css")

	require.NoError(t, os.WriteFile(filepath.Join(a.Config.StaticDir, "favicon.svg"), []byte("<svg id=\"own\"/>"), 0o644))
	assert.Contains(t, b.get("/favicon.svg").Body.String(), `id="own"`)
}

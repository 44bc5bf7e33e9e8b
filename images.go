package httpjpg

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/httpjpg/httpjpg/imageservice"
)

const maxSourceImageSize = 20 << 20 // 20MB

// resizeImage decodes src, scales it down to width (never up) and encodes
// it as JPEG at quality.
func resizeImage(src io.Reader, width, quality int) ([]byte, image.Point, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return nil, image.Point{}, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if width > 0 && w > width {
		newH := h * width / w
		if newH < 1 {
			newH = 1
		}
		dst := image.NewRGBA(image.Rect(0, 0, width, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
		w, h = width, newH
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, image.Point{}, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), image.Pt(w, h), nil
}

// staticImagePath maps a /public/... URL to a file inside the static dir.
// ok is false for anything that is not a local static asset.
func (a *App) staticImagePath(src string) (string, bool) {
	if src == "" || strings.Contains(src, "://") || strings.HasPrefix(src, "//") {
		return "", false
	}
	clean := path.Clean("/" + src)
	rel, ok := strings.CutPrefix(clean, "/public/")
	if !ok || rel == "" {
		return "", false
	}
	switch strings.ToLower(path.Ext(rel)) {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
	default:
		return "", false
	}
	return filepath.Join(a.Config.StaticDir, filepath.FromSlash(rel)), true
}

func queryInt(c echo.Context, key string, def int) (int, error) {
	v := c.QueryParam(key)
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}

// handleImage is the local optimizer for static assets:
// /_img?src=/public/a.jpg&w=640&q=75.
func (a *App) handleImage(c echo.Context) error {
	file, ok := a.staticImagePath(c.QueryParam("src"))
	if !ok {
		return c.String(http.StatusBadRequest, "src must be a local image under /public/")
	}
	width, err := queryInt(c, "w", 0)
	if err != nil || width < 1 {
		return c.String(http.StatusBadRequest, "w must be a positive integer")
	}
	if width > a.Config.ImageMaxWidth {
		width = a.Config.ImageMaxWidth
	}
	quality, err := queryInt(c, "q", imageservice.DefaultQuality)
	if err != nil || quality < 1 || quality > 100 {
		return c.String(http.StatusBadRequest, "q must be between 1 and 100")
	}

	f, err := os.Open(file)
	if err != nil {
		if os.IsNotExist(err) {
			return echo.ErrNotFound
		}
		return err
	}
	defer f.Close()

	data, size, err := resizeImage(io.LimitReader(f, maxSourceImageSize), width, quality)
	if err != nil {
		a.Log.Warn("image optimize failed", zap.String("file", file), zap.Error(err))
		return c.String(http.StatusUnprocessableEntity, "Invalid image")
	}
	c.Response().Header().Set("X-Image-Size", fmt.Sprintf("%dx%d", size.X, size.Y))
	return c.Blob(http.StatusOK, "image/jpeg", data)
}

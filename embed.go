package httpjpg

import (
	"embed"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"

	"github.com/labstack/echo/v4"
)

// EmbeddedAssets contains the assets every site needs even with an empty
// static dir: favicon.svg and styles.css.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS

// embeddedAsset serves name from the static dir when it exists there and
// from EmbeddedAssets otherwise.
func (a *App) embeddedAsset(name string) echo.HandlerFunc {
	sub, _ := fs.Sub(EmbeddedAssets, "embedded")
	return func(c echo.Context) error {
		local := filepath.Join(a.Config.StaticDir, name)
		if _, err := os.Stat(local); err == nil {
			return c.File(local)
		}
		http.ServeFileFS(c.Response(), c.Request(), sub, name)
		return nil
	}
}

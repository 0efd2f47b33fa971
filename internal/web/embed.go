// Package web embeds the browser dashboard served by the tutor backend.
package web

import (
	"embed"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/labstack/echo/v4"
)

//go:embed dist/*
var staticFiles embed.FS

// GetFileSystem returns the embedded filesystem with the dist folder as root.
func GetFileSystem() (fs.FS, error) {
	return fs.Sub(staticFiles, "dist")
}

// RegisterStaticRoutes serves the dashboard page and its assets. API routes
// must be registered first so they take precedence over the wildcard.
func RegisterStaticRoutes(e *echo.Echo) error {
	staticFS, err := GetFileSystem()
	if err != nil {
		return err
	}
	fileServer := http.FileServer(http.FS(staticFS))

	e.GET("/*", func(c echo.Context) error {
		name := strings.TrimPrefix(path.Clean(c.Request().URL.Path), "/")
		if name == "" || name == "." {
			name = "index.html"
		}

		info, err := fs.Stat(staticFS, name)
		if err != nil || info.IsDir() {
			return echo.NewHTTPError(http.StatusNotFound, "not found")
		}
		if name == "index.html" {
			content, err := fs.ReadFile(staticFS, name)
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "failed to read index.html")
			}
			c.Response().Header().Set(echo.HeaderCacheControl, "no-cache")
			return c.HTMLBlob(http.StatusOK, content)
		}

		fileServer.ServeHTTP(c.Response(), c.Request())
		return nil
	})
	return nil
}

package http

import (
	"net/http"
	"os"
	"path"
	"path/filepath"

	"github.com/gin-gonic/gin"
)

const indexFile = "index.html"

// serveFrontend serves files from the static directory and falls back to
// index.html so the single-page app can route on the client.
func (h *Handler) serveFrontend(c *gin.Context) {
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}

	rel := path.Clean("/" + c.Request.URL.Path)
	if rel != "/" && h.serveFile(c, filepath.Join(h.staticDir, filepath.FromSlash(rel))) {
		return
	}
	if !h.serveFile(c, filepath.Join(h.staticDir, indexFile)) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	}
}

// serveFile writes name with http.ServeContent, which unlike http.ServeFile
// never redirects paths ending in /index.html. It reports false when name is
// not a readable regular file.
func (h *Handler) serveFile(c *gin.Context, name string) bool {
	f, err := os.Open(name)
	if err != nil {
		return false
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		return false
	}

	http.ServeContent(c.Writer, c.Request, info.Name(), info.ModTime(), f)
	return true
}

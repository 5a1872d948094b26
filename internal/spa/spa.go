// Package spa serves a prebuilt single-page application bundle.
//
// Requests that resolve to a regular file under the asset root get that
// file. Everything else gets the entry document with 200 so the client can
// route the path itself.
package spa

import (
	"net/http"
	"os"
	"path"
	"path/filepath"

	"github.com/gin-gonic/gin"
)

// Handler returns the catch-all handler for root with entry as the entry
// document (for example "index.html"). A missing root or entry document
// yields 500.
func Handler(root, entry string) gin.HandlerFunc {
	entryPath := filepath.Join(root, entry)

	return func(c *gin.Context) {
		if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead {
			if name := assetPath(root, c.Request.URL.Path); name != "" && name != entryPath {
				if serveFile(c, name) {
					return
				}
			}
		}

		c.Header("Cache-Control", "no-cache")
		if !serveFile(c, entryPath) {
			c.AbortWithStatus(http.StatusInternalServerError)
		}
	}
}

// assetPath maps a URL path onto a file path under root. Cleaning the
// rooted path first keeps ".." from escaping root.
func assetPath(root, urlPath string) string {
	clean := path.Clean("/" + urlPath)
	if clean == "/" {
		return ""
	}
	return filepath.Join(root, filepath.FromSlash(clean))
}

// serveFile writes name if it is a regular file and reports whether it did.
func serveFile(c *gin.Context, name string) bool {
	f, err := os.Open(name)
	if err != nil {
		return false
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil || !fi.Mode().IsRegular() {
		return false
	}

	http.ServeContent(c.Writer, c.Request, fi.Name(), fi.ModTime(), f)
	return true
}

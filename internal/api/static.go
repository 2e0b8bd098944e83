package api

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// mimeTypes is the closed content-type table for the static shim. Anything
// not listed here is served as an opaque byte stream.
var mimeTypes = map[string]string{
	".html": "text/html; charset=utf-8",
	".css":  "text/css; charset=utf-8",
	".js":   "text/javascript; charset=utf-8",
	".json": "application/json",
	".txt":  "text/plain; charset=utf-8",
	".png":  "image/png",
	".svg":  "image/svg+xml",
	".ico":  "image/x-icon",
}

// serveStatic is a pure byte-passthrough keyed by resource path: 404 when
// the file does not exist, 500 on any other failure. No business logic
// crosses this boundary.
func (s *Server) serveStatic(w http.ResponseWriter, r *http.Request) {
	p := path.Clean(r.URL.Path)
	if p == "/" || p == "." {
		p = "/index.html"
	}
	if strings.Contains(p, "..") {
		http.NotFound(w, r)
		return
	}

	full := filepath.Join(s.cfg.Server.StaticDir, filepath.FromSlash(strings.TrimPrefix(p, "/")))
	b, err := os.ReadFile(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, "internal server error", 500)
		return
	}

	ct, ok := mimeTypes[strings.ToLower(path.Ext(p))]
	if !ok {
		ct = "application/octet-stream"
	}
	w.Header().Set("Content-Type", ct)
	_, _ = w.Write(b)
}

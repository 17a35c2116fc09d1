package server

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
)

// mountStatic serves uploaded images and, when configured, the built
// frontend with SPA fallback to index.html.
func (s *Server) mountStatic(r chi.Router) {
	uploads := http.StripPrefix("/uploads/",
		http.FileServer(http.Dir(s.cfg.UploadDir)))
	r.Handle("/uploads/*", uploads)

	dist := s.cfg.FrontendDist
	if dist == "" {
		return
	}
	if _, err := os.Stat(dist); err != nil {
		s.log.Warn("frontend dist not found, not serving frontend")
		return
	}

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		path := filepath.Join(dist, filepath.FromSlash(req.URL.Path))
		rel, err := filepath.Rel(dist, path)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			http.NotFound(w, req)
			return
		}
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			http.ServeFile(w, req, path)
			return
		}
		// SPA routing: unknown paths load the app shell.
		http.ServeFile(w, req, filepath.Join(dist, "index.html"))
	})
}

// Package site serves the single-page portal shell.
package site

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Error constants
var (
	ErrServe = errors.New("site serve failed")
)

const indexFile = "index.html"

type settings struct {
	dir string
}

// Option configures Register.
type Option func(*settings)

// WithDir serves files from dir on disk instead of the embedded shell.
// An empty dir keeps the embedded copy.
func WithDir(dir string) Option {
	return func(s *settings) {
		s.dir = dir
	}
}

// Register attaches the SPA shell to r. Unknown paths outside /api fall back
// to index.html so client-side routes survive a reload.
func Register(_ context.Context, r chi.Router, opts ...Option) {
	if r == nil {
		panic("router is nil")
	}
	var cfg settings
	for _, opt := range opts {
		opt(&cfg)
	}
	r.Handle("/*", Handler(FS(cfg.dir)))
}

// Handler serves files from fsys with index.html fallback.
func Handler(fsys fs.FS) http.Handler {
	files := http.FileServerFS(fsys)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		name := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
		if name == "" {
			name = indexFile
		}
		if st, err := fs.Stat(fsys, name); err != nil || st.IsDir() {
			http.ServeFileFS(w, r, fsys, indexFile)
			return
		}
		files.ServeHTTP(w, r)
	})
}

// FS returns the embedded shell, or dir when it names an existing directory.
func FS(dir string) fs.FS {
	if dir != "" {
		if st, err := os.Stat(dir); err == nil && st.IsDir() {
			return os.DirFS(dir)
		}
	}
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		return staticFS
	}
	return sub
}

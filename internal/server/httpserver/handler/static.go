package handler

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
)

// handleIndex handles GET / with the index page from the static directory.
func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	index := filepath.Join(h.staticDir, "index.html")
	if fi, err := os.Stat(index); err != nil || fi.IsDir() {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, index)
}

func (h *Handler) staticFiles() http.Handler {
	return http.FileServer(noListingFS{http.Dir(h.staticDir)})
}

// noListingFS hides directories that have no index.html, so the file
// server answers 404 instead of rendering a listing.
type noListingFS struct {
	fs http.FileSystem
}

func (n noListingFS) Open(name string) (http.File, error) {
	f, err := n.fs.Open(name)
	if err != nil {
		return nil, err
	}

	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if !fi.IsDir() {
		return f, nil
	}

	index, err := n.fs.Open(path.Join(name, "index.html"))
	if err != nil {
		f.Close()
		return nil, os.ErrNotExist
	}
	index.Close()
	return f, nil
}

package http

import (
	"errors"
	"io"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// SPAHandler serves a built frontend and answers unknown paths with index.html
// so that client side routes survive a reload.
type SPAHandler struct {
	files fs.FS
	index []byte
}

// NewSPAHandler creates a handler for a frontend build such as os.DirFS("dist")
func NewSPAHandler(files fs.FS) (*SPAHandler, error) {
	index, err := fs.ReadFile(files, "index.html")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read index.html of frontend build")
	}

	return &SPAHandler{
		files: files,
		index: index,
	}, nil
}

func (h *SPAHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		writeJSON(w, r, http.StatusNotFound, errorResponse{Error: "endpoint not found"})
		return
	}

	name := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
	if name == "" {
		h.serveIndex(w, r)
		return
	}

	file, err := h.files.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrInvalid) {
			h.serveIndex(w, r)
			return
		}
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if stat.IsDir() {
		h.serveIndex(w, r)
		return
	}

	if contentType := staticContentType(name); contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	if _, err := io.Copy(w, file); err != nil {
		ctxlog.From(r.Context()).Warn("Failed to serve static file", "path", name, "error", err)
	}
}

func (h *SPAHandler) serveIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(h.index); err != nil {
		ctxlog.From(r.Context()).Warn("Failed to serve index.html", "error", err)
	}
}

var staticTypes = map[string]string{
	".html":  "text/html; charset=utf-8",
	".css":   "text/css; charset=utf-8",
	".js":    "application/javascript; charset=utf-8",
	".json":  "application/json; charset=utf-8",
	".png":   "image/png",
	".jpg":   "image/jpeg",
	".jpeg":  "image/jpeg",
	".svg":   "image/svg+xml",
	".ico":   "image/x-icon",
	".woff2": "font/woff2",
}

func staticContentType(name string) string {
	return staticTypes[path.Ext(name)]
}

package httpapi

import (
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// serveStatic отдаёт файл из статического корня. Разрешённый путь обязан
// остаться внутри корня: выход наружу — 404, как и отсутствие файла.
func (s *Server) serveStatic(w http.ResponseWriter, r *http.Request) {
	// r.URL.Path уже percent-декодирован транспортом
	p := path.Clean("/" + r.URL.Path)
	if p == "/" {
		p = "/index.html"
	}

	root, err := filepath.Abs(s.deps.StaticRoot)
	if err != nil {
		writePlain(w, http.StatusNotFound, "Not found")
		return
	}
	resolved, err := filepath.Abs(filepath.Join(root, filepath.FromSlash(p)))
	if err != nil || !contained(root, resolved) {
		writePlain(w, http.StatusNotFound, "Not found")
		return
	}

	content, err := os.ReadFile(resolved)
	if os.IsNotExist(err) {
		writePlain(w, http.StatusNotFound, "Not found")
		return
	}
	if err != nil {
		writePlain(w, http.StatusInternalServerError, "Failed to read file")
		return
	}

	ctype := mime.TypeByExtension(filepath.Ext(resolved))
	if ctype == "" {
		ctype = "application/octet-stream"
	}
	w.Header().Set("Content-Type", ctype)
	_, _ = w.Write(content)
}

func contained(root, p string) bool {
	return p == root || strings.HasPrefix(p, root+string(filepath.Separator))
}

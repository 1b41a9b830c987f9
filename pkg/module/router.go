package module

import (
	"net/http"
	"strings"
)

// Router dispatches by the first path segment to a mounted module, falling
// back to a plain ServeMux for everything else (health endpoints, etc).
type Router struct {
	mounted map[string]*Module
	native  *http.ServeMux
}

func NewRouter() *Router {
	return &Router{
		mounted: make(map[string]*Module),
		native:  http.NewServeMux(),
	}
}

// Mount attaches a module at its prefix.
func (r *Router) Mount(m *Module) {
	r.mounted[m.prefix] = m
}

// HandleNative registers a handler on the fallback mux.
func (r *Router) HandleNative(pattern string, handler http.HandlerFunc) {
	r.native.HandleFunc(pattern, handler)
}

// ServeHTTP trims a trailing slash, then routes to the module mounted at
// the leading path segment, or to the fallback mux when none matches.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	path := req.URL.Path
	if len(path) > 1 && strings.HasSuffix(path, "/") {
		path = strings.TrimSuffix(path, "/")
		req.URL.Path = path
	}

	if m, ok := r.mounted[firstSegment(path)]; ok {
		m.Serve(w, req)
		return
	}

	r.native.ServeHTTP(w, req)
}

func firstSegment(path string) string {
	parts := strings.SplitN(path, "/", 3)
	if len(parts) >= 2 {
		return "/" + parts[1]
	}
	return path
}

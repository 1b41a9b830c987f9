// Package module mounts self-contained HTTP surfaces under single-level
// path prefixes. Each module owns a router and a middleware stack; the
// Router dispatches by first path segment and strips the prefix before
// delegating, so modules route against their own relative paths.
package module

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/JaimeStill/reqguard/pkg/middleware"
)

// Module pairs a path prefix with a router and middleware stack.
type Module struct {
	prefix     string
	router     http.Handler
	middleware middleware.System
}

// New creates a Module mounted at prefix. The prefix must be a single
// path segment with a leading slash, such as "/api"; anything else panics,
// since a bad prefix is a wiring bug caught at startup.
func New(prefix string, router http.Handler) *Module {
	if err := validatePrefix(prefix); err != nil {
		panic(err)
	}
	return &Module{
		prefix:     prefix,
		router:     router,
		middleware: middleware.New(),
	}
}

// Prefix returns the mount point.
func (m *Module) Prefix() string {
	return m.prefix
}

// Use appends middleware to the module's stack.
func (m *Module) Use(mw middleware.Middleware) {
	m.middleware.Use(mw)
}

// Handler returns the router wrapped in the module's middleware.
func (m *Module) Handler() http.Handler {
	return m.middleware.Apply(m.router)
}

// Serve dispatches req to the inner router with the module prefix removed
// from the path. The request is cloned so the rewrite never leaks to other
// handlers.
func (m *Module) Serve(w http.ResponseWriter, req *http.Request) {
	inner := new(http.Request)
	*inner = *req
	inner.URL = new(url.URL)
	*inner.URL = *req.URL
	inner.URL.Path = stripPrefix(req.URL.Path, m.prefix)
	inner.URL.RawPath = ""

	m.Handler().ServeHTTP(w, inner)
}

func stripPrefix(path, prefix string) string {
	stripped := path[len(prefix):]
	if stripped == "" {
		return "/"
	}
	return stripped
}

func validatePrefix(prefix string) error {
	switch {
	case prefix == "":
		return fmt.Errorf("module prefix cannot be empty")
	case !strings.HasPrefix(prefix, "/"):
		return fmt.Errorf("module prefix must start with /: %s", prefix)
	case strings.Count(prefix, "/") != 1:
		return fmt.Errorf("module prefix must be single-level sub-path: %s", prefix)
	}
	return nil
}

// Package middleware provides the HTTP middleware stack shared by every
// mounted module, plus the CORS and request-logging middleware the API uses.
package middleware

import "net/http"

// Middleware wraps an http.Handler with cross-cutting behavior.
type Middleware func(http.Handler) http.Handler

// System collects middleware and applies it to a terminal handler.
type System interface {
	Use(Middleware)
	Apply(http.Handler) http.Handler
}

// New creates an empty middleware stack.
func New() System {
	return &stack{}
}

type stack struct {
	wrappers []Middleware
}

func (s *stack) Use(m Middleware) {
	s.wrappers = append(s.wrappers, m)
}

// Apply wraps handler so the first middleware registered runs outermost.
func (s *stack) Apply(handler http.Handler) http.Handler {
	for i := len(s.wrappers) - 1; i >= 0; i-- {
		handler = s.wrappers[i](handler)
	}
	return handler
}

// Package routes declares HTTP endpoints as data. Domains return route
// groups; the server registers them onto a mux in one pass.
package routes

import "net/http"

// Route is one method-and-pattern endpoint.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
}

// Package plot is the host-less development mode: an HTTP server that
// stands in for the dashboard platform, feeding a View and pushing every
// rendered SVG to connected browsers over a websocket.
package plot

import (
	"fmt"
	"net/http"
)

// HTTPServer is the transport the chart server registers its routes on.
// Keeping it as an interface lets tests exercise the handlers without
// binding a port.
type HTTPServer interface {
	RegisterHandler(path string, handler http.HandlerFunc)
	RegisterFileServer(path string, fs http.FileSystem)
	Start(port int) error
}

// StandardHTTPServer implements HTTPServer with a private ServeMux.
type StandardHTTPServer struct {
	mux *http.ServeMux
}

func NewStandardHTTPServer() *StandardHTTPServer {
	return &StandardHTTPServer{mux: http.NewServeMux()}
}

// RegisterHandler registers a handler for a specific route
func (s *StandardHTTPServer) RegisterHandler(path string, handler http.HandlerFunc) {
	s.mux.HandleFunc(path, handler)
}

// RegisterFileServer registers a handler to serve static files
func (s *StandardHTTPServer) RegisterFileServer(path string, fs http.FileSystem) {
	s.mux.Handle(path, http.FileServer(fs))
}

// Start starts the HTTP server on the specified port
func (s *StandardHTTPServer) Start(port int) error {
	return http.ListenAndServe(fmt.Sprintf(":%d", port), s.mux)
}

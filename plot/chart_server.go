package plot

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/raykavin/candlescope"
	"github.com/raykavin/candlescope/core"
)

// Static assets embedded in the binary
var (
	//go:embed assets
	staticFiles embed.FS
)

// Server serves the chart page and implements core.Surface: every redraw
// lands here and is broadcast to connected clients.
type Server struct {
	sync.Mutex
	port          int
	debug         bool
	log           core.Logger
	view          *candlescope.View
	latest        []byte
	scriptContent string
	indexHTML     *template.Template
	wsManager     *WebSocketManager
}

// Option configures a Server instance
type Option func(*Server)

// WithPort sets the HTTP server port
func WithPort(port int) Option {
	return func(s *Server) {
		s.port = port
	}
}

// WithDebug disables JS minification for easier inspection
func WithDebug() Option {
	return func(s *Server) {
		s.debug = true
	}
}

// NewServer creates the dev server: parses the page template and
// transpiles the client script with esbuild.
func NewServer(log core.Logger, options ...Option) (*Server, error) {
	server := &Server{
		port: 8080,
		log:  log,
	}

	for _, option := range options {
		option(server)
	}

	var err error
	server.indexHTML, err = template.ParseFS(staticFiles, "assets/index.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse page template: %w", err)
	}

	pageJS, err := staticFiles.ReadFile("assets/js/main.js")
	if err != nil {
		return nil, fmt.Errorf("failed to read main.js: %w", err)
	}

	transpiled := api.Transform(string(pageJS), api.TransformOptions{
		Loader:            api.LoaderJS,
		Target:            api.ES2015,
		MinifySyntax:      !server.debug,
		MinifyIdentifiers: !server.debug,
		MinifyWhitespace:  !server.debug,
	})
	if len(transpiled.Errors) > 0 {
		return nil, fmt.Errorf("page script failed with: %v", transpiled.Errors)
	}
	server.scriptContent = string(transpiled.Code)

	server.wsManager = NewWebSocketManager(log, server)

	return server, nil
}

// AttachView wires the View this server feeds events into. The View must
// have been created with this server as its surface.
func (s *Server) AttachView(view *candlescope.View) {
	s.Lock()
	defer s.Unlock()
	s.view = view
}

// GetPort returns the configured port
func (s *Server) GetPort() int {
	return s.port
}

// Replace implements core.Surface: stores the latest render and pushes it
// to every connected client.
func (s *Server) Replace(svg []byte) error {
	s.Lock()
	s.latest = append(s.latest[:0], svg...)
	s.Unlock()

	s.wsManager.BroadcastChart(svg)
	return nil
}

// Latest returns the last rendered SVG, or nil before the first render.
func (s *Server) Latest() []byte {
	s.Lock()
	defer s.Unlock()

	if s.latest == nil {
		return nil
	}
	out := make([]byte, len(s.latest))
	copy(out, s.latest)
	return out
}

// RegisterHandlers registers all routes on the HTTP server
func (s *Server) RegisterHandlers(server HTTPServer) {
	server.RegisterFileServer("/assets/", http.FS(staticFiles))

	server.RegisterHandler("/health", s.handleHealth)
	server.RegisterHandler("/chart.svg", s.handleChartSVG)
	server.RegisterHandler("/main.js", s.handleScript)
	server.RegisterHandler("/resize", s.handleResize)
	server.RegisterHandler("/style", s.handleStyle)
	server.RegisterHandler("/ws", s.wsManager.HandleWebSocket)
	server.RegisterHandler("/", s.handleIndex)
}

// Start registers the handlers and blocks serving HTTP.
func (s *Server) Start(httpServer HTTPServer) error {
	s.RegisterHandlers(httpServer)

	fmt.Printf("Chart available at http://localhost:%d\n", s.port)
	return httpServer.Start(s.port)
}

// handleHealth reports unhealthy when no event arrived in over 10 minutes.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.Lock()
	view := s.view
	s.Unlock()

	if view == nil || time.Since(view.LastUpdate()) > 10*time.Minute {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html")
	if err := s.indexHTML.Execute(w, nil); err != nil {
		s.log.WithError(err).Error("template execution failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (s *Server) handleScript(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/javascript")
	if _, err := w.Write([]byte(s.scriptContent)); err != nil {
		s.log.WithError(err).Error("failed writing page script")
	}
}

func (s *Server) handleChartSVG(w http.ResponseWriter, _ *http.Request) {
	svg := s.Latest()
	if svg == nil {
		http.Error(w, "no chart rendered yet", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	if _, err := w.Write(svg); err != nil {
		s.log.WithError(err).Error("failed writing chart")
	}
}

// handleResize forwards a browser resize notification to the View.
func (s *Server) handleResize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var dims struct {
		Width  int `json:"width"`
		Height int `json:"height"`
	}
	if err := json.NewDecoder(r.Body).Decode(&dims); err != nil {
		http.Error(w, "invalid resize payload", http.StatusBadRequest)
		return
	}

	s.Lock()
	view := s.view
	s.Unlock()
	if view != nil {
		view.OnResize(dims.Width, dims.Height)
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleStyle forwards a raw style notification to the View, which accepts
// both host shapes.
func (s *Server) handleStyle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "invalid style payload", http.StatusBadRequest)
		return
	}

	s.Lock()
	view := s.view
	s.Unlock()
	if view != nil {
		view.OnStyle(raw)
	}

	w.WriteHeader(http.StatusNoContent)
}

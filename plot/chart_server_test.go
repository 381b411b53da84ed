package plot

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/raykavin/candlescope"
	"github.com/raykavin/candlescope/core"
	"github.com/raykavin/candlescope/dataset"
	logadapter "github.com/raykavin/candlescope/logger/zerolog"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() core.Logger {
	nop := zerolog.Nop()
	return logadapter.NewAdapter(&nop)
}

// fakeHTTPServer records registrations without binding a port.
type fakeHTTPServer struct {
	handlers    map[string]http.HandlerFunc
	fileServers []string
}

func newFakeHTTPServer() *fakeHTTPServer {
	return &fakeHTTPServer{handlers: map[string]http.HandlerFunc{}}
}

func (f *fakeHTTPServer) RegisterHandler(path string, handler http.HandlerFunc) {
	f.handlers[path] = handler
}

func (f *fakeHTTPServer) RegisterFileServer(path string, _ http.FileSystem) {
	f.fileServers = append(f.fileServers, path)
}

func (f *fakeHTTPServer) Start(int) error { return nil }

func TestNewServer_TranspilesScript(t *testing.T) {
	server, err := NewServer(testLogger())
	require.NoError(t, err)

	assert.Equal(t, 8080, server.GetPort())
	assert.NotEmpty(t, server.scriptContent)
}

func TestNewServer_Options(t *testing.T) {
	server, err := NewServer(testLogger(), WithPort(9000), WithDebug())
	require.NoError(t, err)

	assert.Equal(t, 9000, server.GetPort())
	assert.True(t, server.debug)
}

func TestServer_RegisterHandlers(t *testing.T) {
	server, err := NewServer(testLogger())
	require.NoError(t, err)

	fake := newFakeHTTPServer()
	server.RegisterHandlers(fake)

	for _, route := range []string{"/health", "/chart.svg", "/main.js", "/resize", "/style", "/ws", "/"} {
		assert.Contains(t, fake.handlers, route)
	}
	assert.Contains(t, fake.fileServers, "/assets/")
}

func TestServer_ReplaceAndLatest(t *testing.T) {
	server, err := NewServer(testLogger())
	require.NoError(t, err)

	assert.Nil(t, server.Latest())

	require.NoError(t, server.Replace([]byte("<svg>1</svg>")))
	require.NoError(t, server.Replace([]byte("<svg>2</svg>")))

	latest := server.Latest()
	assert.Equal(t, []byte("<svg>2</svg>"), latest)

	// Latest returns a copy, not a view into internal state
	latest[5] = 'X'
	assert.Equal(t, []byte("<svg>2</svg>"), server.Latest())
}

func TestServer_ChartEndpoint(t *testing.T) {
	server, err := NewServer(testLogger())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	server.handleChartSVG(rec, httptest.NewRequest(http.MethodGet, "/chart.svg", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	require.NoError(t, server.Replace([]byte("<svg></svg>")))

	rec = httptest.NewRecorder()
	server.handleChartSVG(rec, httptest.NewRequest(http.MethodGet, "/chart.svg", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.Equal(t, "<svg></svg>", rec.Body.String())
}

func TestServer_ResizeForwardsToView(t *testing.T) {
	server, err := NewServer(testLogger())
	require.NoError(t, err)

	view := candlescope.New(testLogger(), candlescope.WithSurface(server))
	server.AttachView(view)

	view.OnData(dataset.Sample())
	before := server.Latest()
	require.NotNil(t, before)

	body := bytes.NewBufferString(`{"width":700,"height":380}`)
	rec := httptest.NewRecorder()
	server.handleResize(rec, httptest.NewRequest(http.MethodPost, "/resize", body))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.NotEqual(t, before, server.Latest())
}

func TestServer_ResizeRejectsBadInput(t *testing.T) {
	server, err := NewServer(testLogger())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	server.handleResize(rec, httptest.NewRequest(http.MethodGet, "/resize", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = httptest.NewRecorder()
	server.handleResize(rec, httptest.NewRequest(http.MethodPost, "/resize", bytes.NewBufferString("{")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_StyleForwardsToView(t *testing.T) {
	server, err := NewServer(testLogger())
	require.NoError(t, err)

	view := candlescope.New(testLogger(), candlescope.WithSurface(server))
	server.AttachView(view)
	view.OnData(dataset.Sample())

	body := bytes.NewBufferString(`{"theme":"dark"}`)
	rec := httptest.NewRecorder()
	server.handleStyle(rec, httptest.NewRequest(http.MethodPost, "/style", body))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "dark", view.Theme().Name)
}

func TestServer_HealthReflectsViewActivity(t *testing.T) {
	server, err := NewServer(testLogger())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	server.handleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code, "no view attached")

	view := candlescope.New(testLogger(), candlescope.WithSurface(server))
	server.AttachView(view)

	rec = httptest.NewRecorder()
	server.handleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code, "no event processed yet")

	view.OnData(dataset.Sample())

	rec = httptest.NewRecorder()
	server.handleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_IndexServesPage(t *testing.T) {
	server, err := NewServer(testLogger())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	server.handleIndex(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<html")

	rec = httptest.NewRecorder()
	server.handleIndex(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

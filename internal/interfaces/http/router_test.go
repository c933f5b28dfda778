package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appmol "github.com/turtacn/MolViz/internal/application/molecule"
	domainMol "github.com/turtacn/MolViz/internal/domain/molecule"
	"github.com/turtacn/MolViz/internal/domain/session"
	"github.com/turtacn/MolViz/internal/infrastructure/chem/conformer"
	"github.com/turtacn/MolViz/internal/infrastructure/chem/depict"
	"github.com/turtacn/MolViz/internal/infrastructure/chem/descriptor"
	"github.com/turtacn/MolViz/internal/infrastructure/chem/smiles"
	"github.com/turtacn/MolViz/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MolViz/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/MolViz/internal/interfaces/http/handlers"
	"github.com/turtacn/MolViz/internal/interfaces/http/middleware"
	mtypes "github.com/turtacn/MolViz/pkg/types/molecule"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubToxicity struct{}

func (stubToxicity) Predict(context.Context, string) mtypes.ToxicityResult {
	return mtypes.ToxicityResult{LD50: mtypes.NotAvailable, ToxicityClass: mtypes.NotAvailable, Prediction: mtypes.NotAvailable}
}

type stubExistence struct{}

func (stubExistence) Exists(context.Context, string) mtypes.ExistenceResult {
	return mtypes.ExistenceResult{Found: true, CIDs: []int64{996}, Message: "found"}
}

func newTestRouter(t *testing.T, limiter middleware.RateLimiter) (*gin.Engine, prometheus.MetricsCollector) {
	t.Helper()
	logger := logging.NewNopLogger()
	toolkit := domainMol.Toolkit{
		Parser:      smiles.NewParser(),
		Conformers:  conformer.NewGenerator(conformer.WithSeed(7)),
		Descriptors: descriptor.NewEngine(),
		Renderer:    depict.NewRenderer(depict.WithSeed(7)),
	}
	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{Namespace: "router"}, logger)
	require.NoError(t, err)
	metrics := prometheus.NewAppMetrics(collector)

	store := session.NewMemoryStore(time.Hour)
	svc := appmol.NewService(toolkit, store, stubToxicity{}, stubExistence{}, logger, appmol.WithMetrics(metrics))
	page, err := handlers.NewPageHandler(svc, logger, handlers.PageConfig{})
	require.NoError(t, err)

	r := NewRouter(RouterConfig{
		PageHandler:      page,
		MoleculeHandler:  handlers.NewMoleculeHandler(svc),
		HealthHandler:    handlers.NewHealthHandler("test", handlers.NewHealthCheck("session_store", func(context.Context) error { return nil })),
		Session:          middleware.SessionConfig{CookieName: "molviz_session"},
		CORS:             middleware.CORSConfig{AllowedOrigins: []string{"*"}},
		Logging:          middleware.DefaultLoggingConfig(),
		RateLimiter:      limiter,
		MaxBodySize:      1 << 16,
		Logger:           logger,
		Metrics:          metrics,
		MetricsCollector: collector,
	})
	return r, collector
}

// client replays the session cookie like a browser.
type client struct {
	r      http.Handler
	cookie *http.Cookie
}

func (c *client) do(req *http.Request) *httptest.ResponseRecorder {
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	w := httptest.NewRecorder()
	c.r.ServeHTTP(w, req)
	for _, ck := range w.Result().Cookies() {
		if ck.Name == "molviz_session" {
			c.cookie = ck
		}
	}
	return w
}

func postForm(path, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestRouter_Probes(t *testing.T) {
	r, _ := newTestRouter(t, nil)
	for _, path := range []string{"/healthz", "/readyz", "/metrics"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.Empty(t, w.Result().Cookies(), "probes do not get a session: %s", path)
	}
}

func TestRouter_UnknownPath(t *testing.T) {
	r, _ := newTestRouter(t, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_PageFlow(t *testing.T) {
	r, collector := newTestRouter(t, nil)
	c := &client{r: r}

	// empty session: nothing to download or draw
	w := c.do(httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, c.cookie)
	assert.Equal(t, http.StatusNotFound, c.do(httptest.NewRequest(http.MethodGet, "/molecule.xyz", nil)).Code)
	assert.Equal(t, http.StatusNotFound, c.do(httptest.NewRequest(http.MethodGet, "/structure.png", nil)).Code)

	// invalid input keeps the session empty
	w = c.do(postForm("/visualize", "smiles=not+a+molecule"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid SMILES string. Please try again.")
	assert.Equal(t, http.StatusNotFound, c.do(httptest.NewRequest(http.MethodGet, "/molecule.xyz", nil)).Code)

	w = c.do(postForm("/visualize", "smiles=Oc1ccccc1&style=stick"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Molecular Properties")
	assert.Contains(t, w.Body.String(), `{"stick":{}}`)

	w = c.do(httptest.NewRequest(http.MethodGet, "/molecule.xyz", nil))
	require.Equal(t, http.StatusOK, w.Code)
	xyz := w.Body.String()
	assert.True(t, strings.HasPrefix(xyz, "13\nGenerated by MolViz\n"))
	assert.False(t, strings.HasSuffix(xyz, "\n"))

	w = c.do(httptest.NewRequest(http.MethodGet, "/structure.png", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))

	// a style switch re-renders without touching the coordinates
	w = c.do(httptest.NewRequest(http.MethodGet, "/?style=spacefill", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `{"sphere":{}}`)
	assert.Equal(t, xyz, c.do(httptest.NewRequest(http.MethodGet, "/molecule.xyz", nil)).Body.String())

	// a later invalid submit leaves the stored molecule in place
	c.do(postForm("/visualize", "smiles=C1CC"))
	assert.Equal(t, xyz, c.do(httptest.NewRequest(http.MethodGet, "/molecule.xyz", nil)).Body.String())

	scrape := httptest.NewRecorder()
	collector.Handler().ServeHTTP(scrape, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, scrape.Body.String(), `router_visualize_total{result="ok"} 1`)
	assert.Contains(t, scrape.Body.String(), `router_visualize_total{result="invalid"} 2`)
	assert.Contains(t, scrape.Body.String(), `path="/molecule.xyz"`)
}

func TestRouter_APIShareSessionWithPage(t *testing.T) {
	r, _ := newTestRouter(t, nil)
	c := &client{r: r}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/molecules/visualize", strings.NewReader(`{"smiles":"CCO"}`))
	req.Header.Set("Content-Type", "application/json")
	w := c.do(req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"formula":"C2H6O"`)

	w = c.do(httptest.NewRequest(http.MethodGet, "/molecule.xyz", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), "9\n"))
}

func TestRouter_CORSOnAPIOnly(t *testing.T) {
	r, _ := newTestRouter(t, nil)
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/molecules/properties", nil)
	req.Header.Set("Origin", "https://elsewhere.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_RateLimitsVisualize(t *testing.T) {
	limiter := middleware.NewTokenBucketLimiter(0.001, 1, 0)
	r, _ := newTestRouter(t, limiter)
	c := &client{r: r}
	c.do(httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, c.do(postForm("/visualize", "smiles=C")).Code)
	assert.Equal(t, http.StatusTooManyRequests, c.do(postForm("/visualize", "smiles=C")).Code)
	// rendering is never limited
	assert.Equal(t, http.StatusOK, c.do(httptest.NewRequest(http.MethodGet, "/", nil)).Code)
}

func TestRouter_BodyLimit(t *testing.T) {
	r, _ := newTestRouter(t, nil)
	body := `{"smiles":"` + strings.Repeat("C", 1<<17) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/molecules/properties", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

//Personal.AI order the ending

package gateway

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProxy(t *testing.T, backendURL string, timeout time.Duration) *Proxy {
	t.Helper()
	table, err := NewTable(Route{Prefix: "/v1/orders", Backend: "orders", Target: mustURL(t, backendURL)})
	require.NoError(t, err)
	return NewProxy(table, timeout, zerolog.Nop())
}

func serve(p *Proxy, req *http.Request) (*httptest.ResponseRecorder, error) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return rec, p.Handle(c)
}

func TestProxy_ForwardsRequestVerbatim(t *testing.T) {
	var (
		gotMethod, gotPath, gotQuery, gotBody string
		gotHeaders                            http.Header
	)
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotHeaders = r.Header.Clone()
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"success":true,"data":{"id":"o1"}}`))
	}))
	defer backend.Close()

	req := httptest.NewRequest(http.MethodPost, "/v1/orders?debug=1", strings.NewReader(`{"items":[]}`))
	req.Header.Set("Authorization", "Bearer abc")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Custom", "keep-me")

	rec, err := serve(newProxy(t, backend.URL, time.Second), req)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/v1/orders", gotPath)
	assert.Equal(t, "debug=1", gotQuery)
	assert.Equal(t, `{"items":[]}`, gotBody)
	assert.Equal(t, "Bearer abc", gotHeaders.Get("Authorization"))
	assert.Equal(t, "keep-me", gotHeaders.Get("X-Custom"))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"success":true,"data":{"id":"o1"}}`, rec.Body.String())
}

func TestProxy_RewritesPrefix(t *testing.T) {
	var gotPath, gotQuery string
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer backend.Close()

	table, err := NewTable(Route{Prefix: "/v1/manager/auth", Backend: "manager", Target: mustURL(t, backend.URL), Rewrite: "/auth"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/v1/manager/auth/login?x=1", strings.NewReader(`{}`))
	rec, err := serve(NewProxy(table, time.Second, zerolog.Nop()), req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "/auth/login", gotPath)
	assert.Equal(t, "x=1", gotQuery)
}

func TestProxy_RelaysBackendErrorStatus(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"success":false,"error":"not authenticated"}`))
	}))
	defer backend.Close()

	rec, err := serve(newProxy(t, backend.URL, time.Second), httptest.NewRequest(http.MethodGet, "/v1/orders", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"not authenticated"}`, rec.Body.String())
}

func TestProxy_BackendDown(t *testing.T) {
	backend := httptest.NewServer(http.NotFoundHandler())
	url := backend.URL
	backend.Close()

	_, err := serve(newProxy(t, url, time.Second), httptest.NewRequest(http.MethodGet, "/v1/orders", nil))
	assert.ErrorIs(t, err, ErrServiceUnavailable)
}

func TestProxy_NonJSONBody(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("<html>oops</html>"))
	}))
	defer backend.Close()

	_, err := serve(newProxy(t, backend.URL, time.Second), httptest.NewRequest(http.MethodGet, "/v1/orders", nil))
	assert.ErrorIs(t, err, ErrServiceUnavailable)
}

func TestProxy_Timeout(t *testing.T) {
	release := make(chan struct{})
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer backend.Close()
	defer close(release)

	start := time.Now()
	_, err := serve(newProxy(t, backend.URL, 50*time.Millisecond), httptest.NewRequest(http.MethodGet, "/v1/orders", nil))
	assert.ErrorIs(t, err, ErrServiceUnavailable)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestProxy_UnmatchedRoute(t *testing.T) {
	_, err := serve(newProxy(t, "http://127.0.0.1:1", time.Second), httptest.NewRequest(http.MethodGet, "/v1/ordersX", nil))
	assert.ErrorIs(t, err, ErrRouteNotFound)
}

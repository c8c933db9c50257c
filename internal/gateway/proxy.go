package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/opsdesk/platform/internal/api/metrics"
)

const (
	DefaultTimeout   = 10 * time.Second
	maxResponseBytes = 10 << 20
)

var (
	// ErrServiceUnavailable is returned for any upstream failure; the cause is
	// only logged.
	ErrServiceUnavailable = errors.New("upstream service unavailable")
	ErrRouteNotFound      = errors.New("route not found")
)

// Proxy forwards requests at most once, without auth, caching or retries.
type Proxy struct {
	table   *Table
	client  *http.Client
	timeout time.Duration
	log     zerolog.Logger
}

func NewProxy(table *Table, timeout time.Duration, log zerolog.Logger) *Proxy {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Proxy{
		table: table,
		client: &http.Client{
			// Redirects are relayed, not followed.
			CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse },
		},
		timeout: timeout,
		log:     log,
	}
}

// Handle is the catch-all echo handler. The backend call is bound to the
// inbound request context plus the proxy timeout.
func (p *Proxy) Handle(c echo.Context) error {
	in := c.Request()
	route, ok := p.table.Match(in.URL.Path)
	if !ok {
		return ErrRouteNotFound
	}

	ctx, cancel := context.WithTimeout(in.Context(), p.timeout)
	defer cancel()

	start := time.Now()
	status, body, err := p.forward(ctx, route, in)
	metrics.GatewayUpstreamDuration.WithLabelValues(route.Backend).Observe(time.Since(start).Seconds())

	if err != nil {
		reason := "unreachable"
		if errors.Is(err, errInvalidBody) {
			reason = "invalid_body"
		}
		metrics.GatewayUpstreamErrorsTotal.WithLabelValues(route.Backend, reason).Inc()
		metrics.GatewayRequestsTotal.WithLabelValues(route.Backend, strconv.Itoa(http.StatusInternalServerError)).Inc()

		p.log.Error().
			Err(err).
			Str("backend", route.Backend).
			Str("method", in.Method).
			Str("path", in.URL.Path).
			Msg("upstream call failed")
		return ErrServiceUnavailable
	}

	metrics.GatewayRequestsTotal.WithLabelValues(route.Backend, strconv.Itoa(status)).Inc()
	return c.Blob(status, echo.MIMEApplicationJSON, body)
}

var errInvalidBody = errors.New("backend response is not JSON")

func (p *Proxy) forward(ctx context.Context, route Route, in *http.Request) (int, []byte, error) {
	target := *route.Target
	target.Path = strings.TrimRight(target.Path, "/") + route.UpstreamPath(in.URL.Path)
	target.RawPath = ""
	target.RawQuery = in.URL.RawQuery

	out, err := http.NewRequestWithContext(ctx, in.Method, target.String(), in.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	out.ContentLength = in.ContentLength
	out.Header = in.Header.Clone()
	if in.ContentLength == 0 {
		out.Body = http.NoBody
	}

	resp, err := p.client.Do(out)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return 0, nil, fmt.Errorf("read body: %w", err)
	}
	if len(body) > maxResponseBytes || !json.Valid(body) {
		return 0, nil, fmt.Errorf("%w (status %d)", errInvalidBody, resp.StatusCode)
	}
	return resp.StatusCode, body, nil
}

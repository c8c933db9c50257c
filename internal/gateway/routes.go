// Package gateway forwards public API calls to the owning backend service.
package gateway

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Route binds a path prefix to a backend. When Rewrite is set, the matched
// prefix is replaced by it on the way upstream; otherwise the path is sent
// unchanged.
type Route struct {
	Prefix  string
	Backend string
	Target  *url.URL
	Rewrite string
}

// UpstreamPath maps an inbound path matched by r to the backend path.
func (r Route) UpstreamPath(path string) string {
	if r.Rewrite == "" {
		return path
	}
	out := r.Rewrite + strings.TrimPrefix(path, r.Prefix)
	if out == "" {
		return "/"
	}
	return out
}

// Table is an immutable prefix routing table. Longer prefixes win.
type Table struct {
	routes []Route
}

// NewTable validates and orders the routes.
func NewTable(routes ...Route) (*Table, error) {
	out := make([]Route, 0, len(routes))
	seen := make(map[string]struct{}, len(routes))
	for _, r := range routes {
		if !strings.HasPrefix(r.Prefix, "/") {
			return nil, fmt.Errorf("gateway: prefix %q must start with /", r.Prefix)
		}
		r.Prefix = strings.TrimRight(r.Prefix, "/")
		if r.Prefix == "" {
			return nil, fmt.Errorf("gateway: root prefix is not routable")
		}
		if r.Target == nil || r.Target.Scheme == "" || r.Target.Host == "" {
			return nil, fmt.Errorf("gateway: route %s needs an absolute target url", r.Prefix)
		}
		if r.Rewrite != "" {
			if !strings.HasPrefix(r.Rewrite, "/") {
				return nil, fmt.Errorf("gateway: rewrite %q for %s must start with /", r.Rewrite, r.Prefix)
			}
			r.Rewrite = strings.TrimRight(r.Rewrite, "/")
		}
		if _, dup := seen[r.Prefix]; dup {
			return nil, fmt.Errorf("gateway: duplicate prefix %s", r.Prefix)
		}
		seen[r.Prefix] = struct{}{}
		out = append(out, r)
	}

	sort.SliceStable(out, func(i, j int) bool { return len(out[i].Prefix) > len(out[j].Prefix) })
	return &Table{routes: out}, nil
}

// Match returns the route whose prefix covers path on a segment boundary.
func (t *Table) Match(path string) (Route, bool) {
	for _, r := range t.routes {
		if path == r.Prefix || strings.HasPrefix(path, r.Prefix+"/") {
			return r, true
		}
	}
	return Route{}, false
}

// Backends maps the public prefixes to the users, orders and manager
// services. The manager keeps its own accounts at /auth and /users, exposed
// publicly under /v1/manager.
func Backends(usersURL, ordersURL, managerURL string) (*Table, error) {
	targets := map[string]string{"users": usersURL, "orders": ordersURL, "manager": managerURL}
	parsed := make(map[string]*url.URL, len(targets))
	for name, raw := range targets {
		u, err := url.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("gateway: %s url: %w", name, err)
		}
		parsed[name] = u
	}

	return NewTable(
		Route{Prefix: "/v1/auth", Backend: "users", Target: parsed["users"]},
		Route{Prefix: "/v1/users", Backend: "users", Target: parsed["users"]},
		Route{Prefix: "/v1/orders", Backend: "orders", Target: parsed["orders"]},
		Route{Prefix: "/v1/projects", Backend: "manager", Target: parsed["manager"]},
		Route{Prefix: "/v1/tasks", Backend: "manager", Target: parsed["manager"]},
		Route{Prefix: "/v1/manager/auth", Backend: "manager", Target: parsed["manager"], Rewrite: "/auth"},
		Route{Prefix: "/v1/manager/users", Backend: "manager", Target: parsed["manager"], Rewrite: "/users"},
	)
}

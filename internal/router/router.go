// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package router

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/mux"
)

// Class decides which chrome a route shows.
type Class int

const (
	ClassPublic Class = iota
	ClassApp
	ClassImmersive
)

// String returns the class name.
func (c Class) String() string {
	switch c {
	case ClassPublic:
		return "public"
	case ClassApp:
		return "app"
	case ClassImmersive:
		return "immersive"
	default:
		return "unknown"
	}
}

// ShowsNav reports whether the navigation bar is drawn.
func (c Class) ShowsNav() bool { return c != ClassPublic }

// ShowsFooter reports whether the footer is drawn.
func (c Class) ShowsFooter() bool { return c != ClassImmersive }

// Name identifies a view.
type Name string

const (
	Landing     Name = "landing"
	Login       Name = "login"
	Signup      Name = "signup"
	Feed        Name = "feed"
	Profile     Name = "profile"
	Password    Name = "password"
	Connections Name = "connections"
	Requests    Name = "requests"
	Chat        Name = "chat"
	Premium     Name = "premium"
	Theme       Name = "theme"
)

// Well-known paths.
const (
	PathLanding = "/"
	PathLogin   = "/login"
	PathFeed    = "/feed"
)

// Route describes one view's path.
type Route struct {
	Name    Name
	Pattern string
	Class   Class
	// Auth is set for views that need a logged-in user.
	Auth bool
	// GuestOnly views send logged-in users to the feed.
	GuestOnly bool
}

// Routes lists every view in navigation order.
var Routes = []Route{
	{Name: Landing, Pattern: "/", Class: ClassPublic},
	{Name: Login, Pattern: "/login", Class: ClassPublic, GuestOnly: true},
	{Name: Signup, Pattern: "/signup", Class: ClassPublic, GuestOnly: true},
	{Name: Feed, Pattern: "/feed", Class: ClassApp, Auth: true},
	{Name: Profile, Pattern: "/profile", Class: ClassApp, Auth: true},
	{Name: Password, Pattern: "/profile/password", Class: ClassApp, Auth: true},
	{Name: Connections, Pattern: "/connections", Class: ClassApp, Auth: true},
	{Name: Requests, Pattern: "/requests", Class: ClassApp, Auth: true},
	{Name: Chat, Pattern: "/chat/{targetUserId}", Class: ClassImmersive, Auth: true},
	{Name: Premium, Pattern: "/premium", Class: ClassApp, Auth: true},
	{Name: Theme, Pattern: "/theme", Class: ClassApp},
}

// Match is a resolved path.
type Match struct {
	Route  Route
	Path   string
	Params map[string]string
	// RedirectedFrom holds the requested path when Navigate redirected.
	RedirectedFrom string
}

// Param returns a path parameter, or "".
func (m Match) Param(name string) string {
	return m.Params[name]
}

// Router resolves paths. It is immutable after New and safe for concurrent
// use.
type Router struct {
	mux    *mux.Router
	byName map[Name]Route
}

// New builds the router over Routes.
func New() *Router {
	r := &Router{mux: mux.NewRouter(), byName: make(map[Name]Route, len(Routes))}
	for _, route := range Routes {
		r.mux.Path(route.Pattern).Name(string(route.Name))
		r.byName[route.Name] = route
	}
	return r
}

// Clean normalizes a path: query and fragment dropped, leading slash
// added, trailing slash removed.
func Clean(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = strings.TrimSpace(path)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = "/"
		}
	}
	return path
}

// Resolve maps path to its route. Unknown paths resolve to the landing
// view.
func (r *Router) Resolve(path string) Match {
	path = Clean(path)
	req := &http.Request{Method: http.MethodGet, URL: &url.URL{Path: path}}
	var rm mux.RouteMatch
	if r.mux.Match(req, &rm) && rm.Route != nil {
		if route, ok := r.byName[Name(rm.Route.GetName())]; ok {
			return Match{Route: route, Path: path, Params: unescapeVars(rm.Vars)}
		}
	}
	return Match{Route: r.byName[Landing], Path: PathLanding}
}

// unescapeVars undoes the escaping ChatPath applies. A value that is not
// valid escaping is kept as typed.
func unescapeVars(vars map[string]string) map[string]string {
	for k, v := range vars {
		if u, err := url.PathUnescape(v); err == nil {
			vars[k] = u
		}
	}
	return vars
}

// Navigate resolves path for a user who is (or is not) logged in, applying
// the session redirects.
func (r *Router) Navigate(path string, loggedIn bool) Match {
	m := r.Resolve(path)
	switch {
	case m.Route.Auth && !loggedIn:
		out := r.Resolve(PathLogin)
		out.RedirectedFrom = m.Path
		return out
	case m.Route.GuestOnly && loggedIn:
		out := r.Resolve(PathFeed)
		out.RedirectedFrom = m.Path
		return out
	}
	return m
}

// Unauthorized is where a lost session lands.
func (r *Router) Unauthorized() Match {
	return r.Resolve(PathLanding)
}

// path builds the path for a named route.
func (r *Router) path(n Name, pairs ...string) (string, error) {
	route := r.mux.Get(string(n))
	if route == nil {
		return "", fmt.Errorf("router: no route named %q", n)
	}
	u, err := route.URLPath(pairs...)
	if err != nil {
		return "", err
	}
	return u.Path, nil
}

var defaultRouter = New()

// ChatPath is the path of the conversation with userID. The id is
// path-escaped; Resolve unescapes it again.
func ChatPath(userID string) string {
	p, err := defaultRouter.path(Chat, "targetUserId", url.PathEscape(userID))
	if err != nil {
		return PathLanding
	}
	return p
}

package ui

import (
	"strings"
	"sync"

	"github.com/ytget/social-client/internal/views"
)

// RouteKind is a screen of the app
type RouteKind int

const (
	RouteHome RouteKind = iota
	RoutePost
	RouteProfile
	RouteNotFound
)

// Route is a parsed navigation path
type Route struct {
	Kind  RouteKind
	Param string
	Tab   views.ProfileKind
	Path  string
}

// ParseRoute maps a path to a screen:
//
//	/                               home
//	/post/<id>                      single post
//	/profile/<name>[/followers|/following]
func ParseRoute(path string) Route {
	clean := "/" + strings.Trim(path, "/")
	parts := strings.Split(strings.Trim(clean, "/"), "/")

	switch {
	case clean == "/":
		return Route{Kind: RouteHome, Path: clean}
	case parts[0] == "post" && len(parts) == 2 && parts[1] != "":
		return Route{Kind: RoutePost, Param: parts[1], Path: clean}
	case parts[0] == "profile" && len(parts) == 2 && parts[1] != "":
		return Route{Kind: RouteProfile, Param: parts[1], Tab: views.ProfilePosts, Path: clean}
	case parts[0] == "profile" && len(parts) == 3 && parts[1] != "":
		switch parts[2] {
		case "followers":
			return Route{Kind: RouteProfile, Param: parts[1], Tab: views.ProfileFollowers, Path: clean}
		case "following":
			return Route{Kind: RouteProfile, Param: parts[1], Tab: views.ProfileFollowing, Path: clean}
		}
	}
	return Route{Kind: RouteNotFound, Path: clean}
}

// Router keeps the navigation history and announces route changes
type Router struct {
	mu       sync.Mutex
	history  []Route
	onChange func(Route)
}

// NewRouter creates a router starting at home
func NewRouter(onChange func(Route)) *Router {
	return &Router{
		history:  []Route{ParseRoute("/")},
		onChange: onChange,
	}
}

// SetOnChange replaces the route change callback
func (r *Router) SetOnChange(fn func(Route)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onChange = fn
}

// Navigate moves to path
func (r *Router) Navigate(path string) {
	route := ParseRoute(path)

	r.mu.Lock()
	r.history = append(r.history, route)
	fn := r.onChange
	r.mu.Unlock()

	if fn != nil {
		fn(route)
	}
}

// Back returns to the previous route, if there is one
func (r *Router) Back() bool {
	r.mu.Lock()
	if len(r.history) < 2 {
		r.mu.Unlock()
		return false
	}
	r.history = r.history[:len(r.history)-1]
	route := r.history[len(r.history)-1]
	fn := r.onChange
	r.mu.Unlock()

	if fn != nil {
		fn(route)
	}
	return true
}

// Current returns the active route
func (r *Router) Current() Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.history[len(r.history)-1]
}

var _ views.Navigator = (*Router)(nil)

package navigation

import (
	"sync"

	"github.com/rs/zerolog"
)

// Router owns the current location. It handles navigation events emitted by
// the client layers and applies the guard when a route is visited.
type Router struct {
	mu        sync.RWMutex
	guard     *Guard
	logger    zerolog.Logger
	current   Route
	path      string
	lastEvent *Event
}

var _ Navigator = (*Router)(nil)

func NewRouter(guard *Guard, logger zerolog.Logger) *Router {
	return &Router{
		guard:   guard,
		logger:  logger,
		current: RouteLogin,
		path:    string(RouteLogin),
	}
}

// Navigate handles an event from the client layers.
func (r *Router) Navigate(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.logger.Debug().Str("to", string(ev.To)).Str("reason", ev.Reason).Msg("navigate")
	r.current = ev.To
	r.path = string(ev.To)
	r.lastEvent = &ev
}

// Visit resolves path, applies the guard and moves to the route or to the
// guard's redirect.
func (r *Router) Visit(path string) Decision {
	route := Resolve(path)
	decision := r.guard.Check(route)

	r.mu.Lock()
	defer r.mu.Unlock()

	if decision.Allowed {
		r.current = route
		r.path = path
		if route == RouteDashboard && !RouteDashboard.Match(path) {
			r.path = string(RouteDashboard)
		}
		return decision
	}

	r.logger.Debug().Str("path", path).Str("redirect", string(decision.Redirect)).Msg("route guarded")
	r.current = decision.Redirect
	r.path = string(decision.Redirect)
	r.lastEvent = &Event{To: decision.Redirect, Reason: ReasonLoginRequired}
	return decision
}

func (r *Router) Current() Route {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

func (r *Router) CurrentPath() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.path
}

// LastEvent returns the most recent event, either received through Navigate
// or produced by a guarded Visit.
func (r *Router) LastEvent() (Event, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.lastEvent == nil {
		return Event{}, false
	}
	return *r.lastEvent, true
}

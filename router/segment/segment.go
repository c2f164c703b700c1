package segment

import (
	"fmt"

	"github.com/hearth-web/hearth/http"
	"github.com/hearth-web/hearth/http/method"
	"github.com/hearth-web/hearth/router"
)

type (
	Handler    func(*http.Request) http.Response
	Middleware func(next Handler, request *http.Request) http.Response
)

var _ router.Router = new(Router)

type routeKey struct {
	route  string
	method method.Method
}

// Router dispatches requests by their first path segment and method. The rest of
// the segments are passed to the handler as request params.
//
// Routes must be registered before OnStart is called. After that the routes table is
// frozen and registering panics.
type Router struct {
	routes      map[routeKey]Handler
	notFound    Handler
	middlewares []Middleware
	frozen      bool
}

// New returns a router with no routes. Every request results in 404 Not Found until
// routes are registered.
func New() *Router {
	return &Router{
		routes:   make(map[routeKey]Handler),
		notFound: NotFound,
	}
}

// Default returns a router with Root, Echo and UserAgent handlers registered on "/",
// "/echo" and "/user-agent" respectively.
func Default() *Router {
	r := New()
	r.Root(Root)
	r.Get("echo", Echo)
	r.Get("user-agent", UserAgent)

	return r
}

// Route registers the handler for the route key, i.e. the first path segment. An
// already registered handler is overridden.
func (r *Router) Route(m method.Method, route string, handler Handler) *Router {
	r.mustNotBeFrozen()

	if handler == nil {
		panic(fmt.Sprintf("segment: nil handler for %s /%s", m, route))
	}

	r.routes[routeKey{route: route, method: m}] = handler
	return r
}

// Get is a shortcut for Route(method.GET, route, handler).
func (r *Router) Get(route string, handler Handler) *Router {
	return r.Route(method.GET, route, handler)
}

// Root registers the handler for "/".
func (r *Router) Root(handler Handler) *Router {
	return r.Get(http.RootRoute, handler)
}

// NotFound replaces the handler called when no route matches.
func (r *Router) NotFound(handler Handler) *Router {
	r.mustNotBeFrozen()
	r.notFound = handler
	return r
}

// Use adds middlewares. They're applied to every handler, including the not found
// one, at OnStart. The first registered middleware is the outermost one.
func (r *Router) Use(middlewares ...Middleware) *Router {
	r.mustNotBeFrozen()
	r.middlewares = append(r.middlewares, middlewares...)
	return r
}

// OnStart applies middlewares and freezes the router.
func (r *Router) OnStart() error {
	if r.frozen {
		return nil
	}

	for key, handler := range r.routes {
		r.routes[key] = compose(handler, r.middlewares)
	}

	r.notFound = compose(r.notFound, r.middlewares)
	r.frozen = true

	return nil
}

// OnRequest looks the handler up by the request's route and method.
func (r *Router) OnRequest(request *http.Request) http.Response {
	handler, found := r.routes[routeKey{route: request.Route, method: request.Method}]
	if !found {
		return r.notFound(request)
	}

	return handler(request)
}

// OnError responds with the code corresponding to the error. The request may be nil,
// as errors often happen before the request could be constructed.
func (r *Router) OnError(_ *http.Request, err error) http.Response {
	return http.NewResponse().Error(err)
}

func (r *Router) mustNotBeFrozen() {
	if r.frozen {
		panic("segment: router is frozen, routes must be registered before the server starts")
	}
}

// compose wraps the handler into middlewares, so that middlewares[0] is called first.
func compose(handler Handler, middlewares []Middleware) Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		mw, next := middlewares[i], handler
		handler = func(request *http.Request) http.Response {
			return mw(next, request)
		}
	}

	return handler
}

package router

import (
	"github.com/gin-gonic/gin"
)

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router manages HTTP route registration. Registrars fall in two groups:
// the portal surface and the 1C exchange surface, which carries the shared
// secret middleware.
type Router struct {
	engine     *gin.Engine
	apiVersion string
	portal     []RouteRegistrar
	exchange   []RouteRegistrar
	guard      []gin.HandlerFunc
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithAPIVersion sets the API version prefix (e.g., "v1", "v2")
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// WithExchangeGuard sets the middleware protecting the exchange surface
func WithExchangeGuard(guard ...gin.HandlerFunc) RouterOption {
	return func(r *Router) {
		r.guard = guard
	}
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{
		engine:     engine,
		apiVersion: "v1",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a portal-facing registrar
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.portal = append(r.portal, registrar)
	return r
}

// RegisterExchange adds a registrar behind the exchange guard
func (r *Router) RegisterExchange(registrar RouteRegistrar) *Router {
	r.exchange = append(r.exchange, registrar)
	return r
}

// Setup registers all routes with the engine
func (r *Router) Setup() {
	api := r.engine.Group("/api/" + r.apiVersion)
	for _, registrar := range r.portal {
		registrar.RegisterRoutes(api)
	}

	guarded := api.Group("/sync")
	if len(r.guard) > 0 {
		guarded.Use(r.guard...)
	}
	for _, registrar := range r.exchange {
		registrar.RegisterRoutes(guarded)
	}
}

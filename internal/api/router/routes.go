package router

import (
	"github.com/gofiber/fiber/v3"
)

// ============================================================================
// FIBER V3: HOW TO ATTACH MIDDLEWARE TO A ROUTE
// ============================================================================
//
// Middleware passed inline with the handler is not run for routes inside a group:
//
//    router.Get("/path", authMiddleware, handler)   // middleware skipped
//
// Register through RegisterRouteWithMiddleware instead, which attaches each middleware
// with .Use() on a dedicated group:
//
//    RegisterRouteWithMiddleware(router, "/videos", "GET", "/:videoId", []fiber.Handler{authMiddleware}, handler)
//
// ============================================================================

// Router manages the API routes.
type Router struct {
	app *fiber.App
}

// RoutePrefix holds the base API prefixes.
type RoutePrefix struct {
	Base string // /api
	V1   string // /api/v1
}

// NewRoutePrefix returns the default prefixes.
func NewRoutePrefix() RoutePrefix {
	base := "/api"
	return RoutePrefix{
		Base: base,
		V1:   base + "/v1",
	}
}

// NewRouter returns a Router for app.
func NewRouter(app *fiber.App) *Router {
	return &Router{
		app: app,
	}
}

// App returns the underlying fiber app.
func (r *Router) App() *fiber.App {
	return r.app
}

// RegisterRouteWithMiddleware registers handler under prefix+path and runs middlewares
// before it through .Use() on a group scoped to prefix.
//
//	authMiddleware := middleware.AuthMiddleware()
//	RegisterRouteWithMiddleware(v1, "/tweets", "POST", "", []fiber.Handler{authMiddleware}, h.HandleCreate)
func RegisterRouteWithMiddleware(router fiber.Router, prefix string, method string, path string, middlewares []fiber.Handler, handler fiber.Handler) {
	routeGroup := router.Group(prefix)
	for _, mw := range middlewares {
		routeGroup.Use(mw)
	}

	switch method {
	case fiber.MethodGet:
		routeGroup.Get(path, handler)
	case fiber.MethodPost:
		routeGroup.Post(path, handler)
	case fiber.MethodPut:
		routeGroup.Put(path, handler)
	case fiber.MethodPatch:
		routeGroup.Patch(path, handler)
	case fiber.MethodDelete:
		routeGroup.Delete(path, handler)
	}
}

// Route is one method/path/handler triple of a group.
type Route struct {
	Method  string
	Path    string
	Handler fiber.Handler
}

// RegisterRoutesWithMiddleware registers routes under one group so middlewares are attached
// once per prefix. A .Use() covers every later route sharing the prefix, so public routes of
// the same prefix must be registered before this call.
func RegisterRoutesWithMiddleware(router fiber.Router, prefix string, middlewares []fiber.Handler, routes []Route) {
	routeGroup := router.Group(prefix)
	for _, mw := range middlewares {
		routeGroup.Use(mw)
	}
	for _, rt := range routes {
		routeGroup.Add([]string{rt.Method}, rt.Path, rt.Handler)
	}
}

// RegisterFunc registers the routes of one domain (exported by each domain router package).
type RegisterFunc func(v1 fiber.Router, r *Router) error

// SetupRoutes mounts /api/v1 and runs every domain's RegisterFunc on it. Domains are passed
// in by the caller so this package imports none of them.
func SetupRoutes(app *fiber.App, regs ...RegisterFunc) error {
	prefix := NewRoutePrefix()
	v1 := app.Group(prefix.V1)
	r := NewRouter(app)
	for _, reg := range regs {
		if err := reg(v1, r); err != nil {
			return err
		}
	}
	return nil
}

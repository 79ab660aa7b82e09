package server

import "github.com/labstack/echo/v4"

func (s *Server) registerRoutes() {
	e := s.echo

	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})
	e.GET("/metrics", s.metrics.handler())

	api := e.Group("/api")

	// Person routes
	api.GET("/persons", s.searchPersonsHandler)
	api.GET("/persons/:id", s.getPersonHandler)
	api.GET("/persons/:id/tree", s.personTreeHandler)
	api.GET("/persons/:id/discover", s.discoverHandler)

	// "My tree" resolves the caller through the identity header
	api.GET("/me/tree", s.myTreeHandler, s.identityMiddleware)

	// Relationship and whole-graph routes
	api.GET("/path", s.pathHandler)
	api.GET("/validate", s.validateHandler)
	api.GET("/analyze", s.analyzeHandler)
}

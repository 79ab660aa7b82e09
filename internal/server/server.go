// Package server exposes the relationship core over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/WarBros01113/Kin-Konnect-sub001/internal/config"
	"github.com/WarBros01113/Kin-Konnect-sub001/internal/db"
	"github.com/WarBros01113/Kin-Konnect-sub001/internal/graph"
)

// Store is the read side of the person store used by the handlers.
type Store interface {
	graph.Fetcher
	GetPerson(id string) (*db.Person, error)
	PersonByOwner(ownerID string) (*db.Person, error)
	SearchPersons(query string) ([]db.Person, error)
}

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i any) error {
	if err := cv.validator.Struct(i); err != nil {
		return err
	}
	return nil
}

// Server owns the echo instance and the handles its handlers need.
type Server struct {
	echo    *echo.Echo
	store   Store
	cfg     *config.Config
	log     *log.Logger
	metrics *metrics
}

func New(store Store, cfg *config.Config, logger *log.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = &CustomValidator{validator: validator.New()}

	s := &Server{
		echo:    e,
		store:   store,
		cfg:     cfg,
		log:     logger,
		metrics: newMetrics(),
	}

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				logger.Warn("request", "method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency, "err", v.Error)
				return nil
			}
			logger.Debug("request", "method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(s.metrics.middleware)

	s.registerRoutes()
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.echo }

// Run serves on the configured address until ctx is done, then shuts down
// with a grace period.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("Starting server", "addr", s.cfg.Server.Addr)
		if err := s.echo.Start(s.cfg.Server.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		s.log.Error("Failed to shutdown server", "err", err)
		return err
	}
	s.log.Info("Server stopped")
	return nil
}

// snapshot builds a fresh graph for one request.
func (s *Server) snapshot() (*graph.Graph, error) {
	g, err := graph.FromStore(s.store)
	if err != nil {
		return nil, err
	}
	s.metrics.graphPersons.Set(float64(g.Len()))
	return g, nil
}

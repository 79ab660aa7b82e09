package server

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/WarBros01113/Kin-Konnect-sub001/internal/db"
	"github.com/WarBros01113/Kin-Konnect-sub001/internal/discovery"
	"github.com/WarBros01113/Kin-Konnect-sub001/internal/graph"
	"github.com/WarBros01113/Kin-Konnect-sub001/internal/kinship"
	"github.com/WarBros01113/Kin-Konnect-sub001/internal/tree"
)

const ownerKey = "owner_id"

// statusFor maps core errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, graph.ErrNotFound), errors.Is(err, sql.ErrNoRows):
		return http.StatusNotFound
	case errors.Is(err, graph.ErrConfiguration):
		return http.StatusBadRequest
	case errors.Is(err, graph.ErrInconsistentGraph):
		return http.StatusConflict
	case errors.Is(err, graph.ErrDanglingReference),
		errors.Is(err, graph.ErrCycle),
		errors.Is(err, graph.ErrDuplicatePerson),
		errors.Is(err, graph.ErrInvalidPerson):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(c echo.Context, err error) error {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.log.Error("Request failed", "route", c.Path(), "err", err)
		return c.JSON(status, map[string]string{"error": "Internal server error"})
	}
	return c.JSON(status, map[string]string{"error": err.Error()})
}

func badParams(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
}

func (s *Server) searchPersonsHandler(c echo.Context) error {
	type searchParams struct {
		Q string `query:"q" validate:"required,min=2"`
	}

	params := new(searchParams)
	if err := c.Bind(params); err != nil {
		return badParams(c)
	}
	if err := c.Validate(params); err != nil {
		return badParams(c)
	}

	res, err := s.store.SearchPersons(params.Q)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (s *Server) getPersonHandler(c echo.Context) error {
	p, err := s.store.GetPerson(c.Param("id"))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// treeParams bounds each direction at 64 generations.
type treeParams struct {
	ID   string `param:"id"`
	Up   int    `query:"up" validate:"gte=0,lte=64"`
	Down int    `query:"down" validate:"gte=0,lte=64"`
}

func (s *Server) personTreeHandler(c echo.Context) error {
	params := &treeParams{
		Up:   s.cfg.Tree.MaxAncestorGenerations,
		Down: s.cfg.Tree.MaxDescendantGenerations,
	}
	if err := c.Bind(params); err != nil {
		return badParams(c)
	}
	if err := c.Validate(params); err != nil {
		return badParams(c)
	}
	return s.project(c, params)
}

func (s *Server) myTreeHandler(c echo.Context) error {
	me, err := s.store.PersonByOwner(c.Get(ownerKey).(string))
	if err != nil {
		return s.fail(c, err)
	}

	params := &treeParams{
		Up:   s.cfg.Tree.MaxAncestorGenerations,
		Down: s.cfg.Tree.MaxDescendantGenerations,
	}
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, params); err != nil {
		return badParams(c)
	}
	if err := c.Validate(params); err != nil {
		return badParams(c)
	}
	params.ID = me.ID
	return s.project(c, params)
}

func (s *Server) project(c echo.Context, params *treeParams) error {
	g, err := s.snapshot()
	if err != nil {
		return s.fail(c, err)
	}
	pr, err := tree.Project(g, params.ID, tree.Options{
		MaxAncestorGenerations:   params.Up,
		MaxDescendantGenerations: params.Down,
		Validation:               graph.ValidatorConfig{CheckSexRoles: s.cfg.Validation.CheckSexRoles},
	})
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, pr)
}

func (s *Server) identityMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		owner := c.Request().Header.Get(s.cfg.Server.IdentityHeader)
		if owner == "" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		}
		c.Set(ownerKey, owner)
		return next(c)
	}
}

func (s *Server) pathHandler(c echo.Context) error {
	type pathParams struct {
		From string `query:"from" validate:"required"`
		To   string `query:"to" validate:"required"`
	}

	params := new(pathParams)
	if err := c.Bind(params); err != nil {
		return badParams(c)
	}
	if err := c.Validate(params); err != nil {
		return badParams(c)
	}

	g, err := s.snapshot()
	if err != nil {
		return s.fail(c, err)
	}
	path, err := kinship.Resolve(g, params.From, params.To)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, path)
}

func (s *Server) discoverHandler(c echo.Context) error {
	type discoverParams struct {
		ID    string `param:"id" validate:"required"`
		Limit int    `query:"limit" validate:"gte=0,lte=500"`
	}

	params := &discoverParams{Limit: 20}
	if err := c.Bind(params); err != nil {
		return badParams(c)
	}
	if err := c.Validate(params); err != nil {
		return badParams(c)
	}

	g, err := s.snapshot()
	if err != nil {
		return s.fail(c, err)
	}
	cfg := s.cfg.Discovery
	cfg.Limit = params.Limit
	matches, err := discovery.FindCandidates(c.Request().Context(), g, params.ID, nil, cfg)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, matches)
}

func (s *Server) validateHandler(c echo.Context) error {
	g, err := s.snapshot()
	if err != nil {
		return s.fail(c, err)
	}
	res := graph.Validate(g, graph.ValidatorConfig{CheckSexRoles: s.cfg.Validation.CheckSexRoles})
	return c.JSON(http.StatusOK, res)
}

func (s *Server) analyzeHandler(c echo.Context) error {
	g, err := s.snapshot()
	if err != nil {
		return s.fail(c, err)
	}
	report := graph.Analyze(g, &graph.AnalyzerConfig{
		ProlificThreshold: s.cfg.Analysis.ProlificThreshold,
		TopN:              s.cfg.Analysis.TopN,
		Validation:        graph.ValidatorConfig{CheckSexRoles: s.cfg.Validation.CheckSexRoles},
	})
	return c.JSON(http.StatusOK, report)
}

var _ Store = (*db.DB)(nil)

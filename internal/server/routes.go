package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/k3mpaxl/home-assistant-rct-power-integration/internal/core/domain"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func (s *Server) RegisterRoutes() http.Handler {
	e := echo.New()
	if s.httpLog {
		e.Use(middleware.Logger())
	}
	e.Use(middleware.Recover())

	e.GET("/healthcheck", s.HealthCheckHandler)
	e.GET("/entities", s.EntitiesHandler)
	e.GET("/registers", s.RegistersHandler)

	return e
}

func (s *Server) HealthCheckHandler(c echo.Context) error {
	res, err := s.rootContext.RequestFuture(s.masterActor, domain.ActorHealthRequest{}, 10*time.Second).Result()
	if err != nil {
		return c.String(http.StatusServiceUnavailable, "health_check: FAIL")
	}
	if response, ok := res.(domain.ActorHealthResponse); ok && response.Healthy {
		return c.String(http.StatusOK, "health_check: OK")
	}
	return c.String(http.StatusServiceUnavailable, "health_check: FAIL")
}

// EntitiesHandler dumps the current snapshot of every entity, resolved
// against whatever the pollers have cached so far.
func (s *Server) EntitiesHandler(c echo.Context) error {
	res, err := s.rootContext.RequestFuture(s.masterActor, domain.GetEntitySnapshotsRequest{}, 10*time.Second).Result()
	if err != nil {
		return c.String(http.StatusServiceUnavailable, err.Error())
	}
	response, ok := res.(domain.GetEntitySnapshotsResponse)
	if !ok || response.HasResponseError() {
		return c.String(http.StatusInternalServerError, "could not collect entity snapshots")
	}
	return c.JSON(http.StatusOK, response.Snapshots)
}

type registerView struct {
	ObjectID string `json:"object_id"`
	Name     string `json:"name"`
	Unit     string `json:"unit,omitempty"`
	Kind     string `json:"kind"`
}

// RegistersHandler dumps the built-in device object table.
func (s *Server) RegistersHandler(c echo.Context) error {
	infos := s.registry.All()
	registers := make([]registerView, 0, len(infos))
	for _, info := range infos {
		registers = append(registers, registerView{
			ObjectID: fmt.Sprintf("0x%08X", info.ObjectID),
			Name:     info.Name,
			Unit:     info.Unit,
			Kind:     info.Kind.String(),
		})
	}
	return c.JSON(http.StatusOK, registers)
}

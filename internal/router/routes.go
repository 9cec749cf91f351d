package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mapmymeal/api/internal/handler"
)

// Handlers aggregates HTTP handlers used by the router.
type Handlers struct {
	Page    *handler.PageHandler
	Plan    *handler.PlanHandler
	Metrics http.Handler
}

// Register wires all HTTP routes. session is applied to every route that
// reads or writes per-visitor state.
func Register(e *echo.Echo, session echo.MiddlewareFunc, handlers Handlers) {
	e.GET("/healthz", func(c echo.Context) error {
		return handler.Success(c, http.StatusOK, "service healthy", map[string]any{"status": "ok"})
	})
	if handlers.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(handlers.Metrics))
	}

	if handlers.Page != nil {
		page := e.Group("", session)
		page.GET("/", handlers.Page.Show)
		page.POST("/", handlers.Page.Submit)
		page.POST("/shuffle", handlers.Page.Shuffle)
		page.POST("/reset", handlers.Page.Reset)
	}

	if handlers.Plan != nil {
		api := e.Group("/api", session)
		api.POST("/plan", handlers.Plan.Submit)
		api.POST("/plan/shuffle", handlers.Plan.Shuffle)
		api.GET("/plan", handlers.Plan.Current)
		api.DELETE("/plan", handlers.Plan.Reset)
	}
}

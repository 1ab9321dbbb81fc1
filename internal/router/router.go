// Package router wires HTTP routes to their handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/Chaitanyateke/MovieBooking/internal/handler"
)

// RegisterRoutes registers the unauthenticated routes. Only the health
// check lives here; every domain endpoint requires a valid token.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

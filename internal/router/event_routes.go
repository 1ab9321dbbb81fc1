package router

import (
	"github.com/labstack/echo/v4"

	"github.com/Chaitanyateke/MovieBooking/internal/handler"
	"github.com/Chaitanyateke/MovieBooking/internal/middleware"
)

// RegisterEvents registers the customer-facing browse and booking routes
// under /v1/events. Every route requires a valid JWT; both customers and
// admins may browse and book. The catalog cache wraps only the movie and
// showtime listings — seat availability must always read the database so a
// committed booking is visible to the very next request.
func RegisterEvents(e *echo.Echo, h *handler.EventHandler, jwtSecret string, cache echo.MiddlewareFunc) {
	g := e.Group(
		"/v1/events",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("CUSTOMER", "ADMIN"),
	)

	g.GET("/movies", h.ListMovies, cache)
	g.GET("/showtimes/:movieId", h.ListShowtimes, cache)
	g.GET("/seats/:showtimeId", h.GetSeats)

	g.POST("/book", h.BookTickets)
	g.GET("/my-bookings", h.ListMyBookings)
	g.DELETE("/bookings/:bookingId", h.CancelBooking)
}

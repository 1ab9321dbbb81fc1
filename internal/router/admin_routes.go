package router

import (
	"github.com/labstack/echo/v4"

	"github.com/Chaitanyateke/MovieBooking/internal/handler"
	"github.com/Chaitanyateke/MovieBooking/internal/middleware"
)

// RegisterAdmin registers the admin console routes under /v1/admin. Every
// route requires a valid JWT carrying the ADMIN role.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler, jwtSecret string) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN"),
	)

	g.POST("/movies", h.CreateMovie)
	g.DELETE("/movies/:movieId", h.DeleteMovie)

	g.GET("/showtimes", h.ListShowtimes)
	g.POST("/showtimes", h.CreateShowtime)
	g.DELETE("/showtimes/:showtimeId", h.DeleteShowtime)

	g.GET("/users", h.ListUsers)
	g.GET("/users/:userId", h.GetUserDetails)
	g.DELETE("/users/:userId", h.DeleteUser)
	g.DELETE("/bookings/:bookingId", h.DeleteBooking)

	g.GET("/payments", h.ListPayments)
	g.GET("/notifications", h.ListNotifications)
	g.PUT("/notifications/read", h.MarkNotificationsRead)
}

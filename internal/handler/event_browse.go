package handler

import (
	"errors"
	"net/http"

	"github.com/Chaitanyateke/MovieBooking/internal/repository"
	"github.com/labstack/echo/v4"
)

// ListMovies handles GET /v1/events/movies. Returns the full catalog.
func (h *EventHandler) ListMovies(c echo.Context) error {
	movies, err := h.MovieRepo.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load movies"})
	}
	if movies == nil {
		movies = []repository.Movie{}
	}
	return c.JSON(http.StatusOK, echo.Map{"movies": movies})
}

// ListShowtimes handles GET /v1/events/showtimes/:movieId. Returns future
// showtimes for the movie ordered soonest first; past showings are never
// offered for booking.
func (h *EventHandler) ListShowtimes(c echo.Context) error {
	movieID, ok := pathID(c, "movieId")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	showtimes, err := h.ShowtimeRepo.ListUpcomingByMovie(c.Request().Context(), movieID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load showtimes"})
	}
	return c.JSON(http.StatusOK, echo.Map{"showtimes": showtimes})
}

// GetSeats handles GET /v1/events/seats/:showtimeId. It resolves the
// showtime to its screen and returns every seat with its booked/available
// status for that showing. The projection reads committed tickets only, so
// a seat shows booked exactly when a finished booking holds it.
func (h *EventHandler) GetSeats(c echo.Context) error {
	showtimeID, ok := pathID(c, "showtimeId")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid showtime id"})
	}
	ctx := c.Request().Context()

	st, err := h.ShowtimeRepo.GetByID(ctx, showtimeID)
	if err != nil {
		if errors.Is(err, repository.ErrShowtimeNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "showtime not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	seats, err := h.SeatRepo.ListAvailability(ctx, st.ID, st.ScreenID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load seats"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"showtime_id": st.ID,
		"seats":       seats,
		"prices": echo.Map{
			repository.TierClassic:         st.PriceClassic,
			repository.TierPrime:           st.PricePrime,
			repository.TierRecliner:        st.PriceRecliner,
			repository.TierPremiumRecliner: st.PricePremium,
		},
	})
}

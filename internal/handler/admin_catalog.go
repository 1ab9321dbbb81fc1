package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Chaitanyateke/MovieBooking/internal/repository"
	"github.com/labstack/echo/v4"
)

// createMovieRequest is the payload for POST /v1/admin/movies.
type createMovieRequest struct {
	Title        string `json:"title" validate:"required,max=255"`
	Description  string `json:"description"`
	DurationMins uint32 `json:"duration_mins" validate:"required,gt=0"`
	Genre        string `json:"genre"`
	ImageURL     string `json:"image_url"`
}

// CreateMovie handles POST /v1/admin/movies.
func (h *AdminHandler) CreateMovie(c echo.Context) error {
	var body createMovieRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := validate.Struct(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title and a positive duration_mins are required"})
	}
	m := &repository.Movie{
		Title:        strings.TrimSpace(body.Title),
		Description:  body.Description,
		DurationMins: body.DurationMins,
		Genre:        body.Genre,
		ImageURL:     body.ImageURL,
	}
	if err := h.MovieRepo.Create(c.Request().Context(), m); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create movie"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"movie": m})
}

// DeleteMovie handles DELETE /v1/admin/movies/:movieId. Removing a movie
// removes its showtimes, their bookings and tickets in one transaction.
func (h *AdminHandler) DeleteMovie(c echo.Context) error {
	movieID, ok := pathID(c, "movieId")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	if err := h.MovieRepo.DeleteCascade(c.Request().Context(), movieID); err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete movie"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "movie deleted"})
}

// createShowtimeRequest is the payload for POST /v1/admin/showtimes. Cinema
// and screen are addressed by natural key and created lazily when unknown.
// Tier prices default when zero.
type createShowtimeRequest struct {
	MovieID       uint64 `json:"movie_id" validate:"required"`
	CinemaName    string `json:"cinema_name" validate:"required,max=255"`
	Location      string `json:"location" validate:"required,max=255"`
	ScreenNumber  uint32 `json:"screen_number" validate:"required,gt=0"`
	StartTime     string `json:"start_time" validate:"required"`
	PriceClassic  uint32 `json:"price_classic"`
	PricePrime    uint32 `json:"price_prime"`
	PriceRecliner uint32 `json:"price_recliner"`
	PricePremium  uint32 `json:"price_premium"`
}

// CreateShowtime handles POST /v1/admin/showtimes. Cinema, screen, seat
// layout and showtime are settled in one transaction: an unknown
// (cinema_name, location) creates the cinema, an unknown screen number
// creates the screen and generates its fixed 100-seat layout, and the
// showtime row is inserted last. Losing a concurrent create race on cinema
// or screen surfaces as a retryable 409.
func (h *AdminHandler) CreateShowtime(c echo.Context) error {
	var body createShowtimeRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := validate.Struct(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "movie_id, cinema_name, location, screen_number and start_time are required"})
	}
	startTime, err := time.Parse(time.RFC3339, body.StartTime)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "start_time must be RFC3339"})
	}
	if h.ShowtimeFutureOnly && !startTime.After(time.Now().UTC()) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "start_time must be in the future"})
	}

	ctx := c.Request().Context()
	if _, err := h.MovieRepo.GetByID(ctx, body.MovieID); err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	tx, err := h.ShowtimeRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	name := strings.TrimSpace(body.CinemaName)
	location := strings.TrimSpace(body.Location)
	cinemaID, err := h.CinemaRepo.FindByNameAndLocationTx(ctx, tx, name, location)
	if errors.Is(err, sql.ErrNoRows) {
		cinemaID, err = h.CinemaRepo.CreateTx(ctx, tx, name, location)
	}
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "cinema was just created by another request, retry"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to resolve cinema"})
	}

	screenID, err := h.ScreenRepo.FindByCinemaAndNumberTx(ctx, tx, cinemaID, body.ScreenNumber)
	if errors.Is(err, sql.ErrNoRows) {
		screenID, err = h.ScreenRepo.CreateTx(ctx, tx, cinemaID, body.ScreenNumber, uint32(len(repository.LayoutRows())))
		if err == nil {
			// Layout belongs to the same transaction: a screen without
			// its seats must never be committed.
			err = h.SeatRepo.GenerateLayoutTx(ctx, tx, screenID)
		}
	}
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "screen was just created by another request, retry"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to resolve screen"})
	}

	st := &repository.Showtime{
		MovieID:       body.MovieID,
		ScreenID:      screenID,
		StartTime:     startTime.UTC(),
		PriceClassic:  body.PriceClassic,
		PricePrime:    body.PricePrime,
		PriceRecliner: body.PriceRecliner,
		PricePremium:  body.PricePremium,
	}
	if st.PriceClassic == 0 {
		st.PriceClassic = repository.DefaultPriceClassic
	}
	if st.PricePrime == 0 {
		st.PricePrime = repository.DefaultPricePrime
	}
	if st.PriceRecliner == 0 {
		st.PriceRecliner = repository.DefaultPriceRecliner
	}
	if st.PricePremium == 0 {
		st.PricePremium = repository.DefaultPricePremium
	}
	if err := h.ShowtimeRepo.CreateTx(ctx, tx, st); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create showtime"})
	}

	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true
	return c.JSON(http.StatusCreated, echo.Map{
		"showtime_id": st.ID,
		"cinema_id":   cinemaID,
		"screen_id":   screenID,
	})
}

// ListShowtimes handles GET /v1/admin/showtimes. All showtimes, newest
// first, regardless of date.
func (h *AdminHandler) ListShowtimes(c echo.Context) error {
	showtimes, err := h.ShowtimeRepo.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load showtimes"})
	}
	return c.JSON(http.StatusOK, echo.Map{"showtimes": showtimes})
}

// DeleteShowtime handles DELETE /v1/admin/showtimes/:showtimeId, cascading
// to the showtime's bookings and tickets.
func (h *AdminHandler) DeleteShowtime(c echo.Context) error {
	showtimeID, ok := pathID(c, "showtimeId")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid showtime id"})
	}
	if err := h.ShowtimeRepo.DeleteCascade(c.Request().Context(), showtimeID); err != nil {
		if errors.Is(err, repository.ErrShowtimeNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "showtime not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete showtime"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "showtime deleted"})
}

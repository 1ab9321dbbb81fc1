package handler

import (
	"errors"
	"net/http"

	"github.com/Chaitanyateke/MovieBooking/internal/repository"
	"github.com/labstack/echo/v4"
)

// ListUsers handles GET /v1/admin/users.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.UserRepo.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load users"})
	}
	return c.JSON(http.StatusOK, echo.Map{"users": users})
}

// GetUserDetails handles GET /v1/admin/users/:userId. Returns the profile
// together with the user's booking history.
func (h *AdminHandler) GetUserDetails(c echo.Context) error {
	userID, ok := pathID(c, "userId")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	ctx := c.Request().Context()
	user, err := h.UserRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load user"})
	}
	bookings, err := h.BookingRepo.ListByUser(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"user":     user,
		"bookings": bookings,
	})
}

// DeleteUser handles DELETE /v1/admin/users/:userId. The user's bookings
// and their tickets go in the same transaction.
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	userID, ok := pathID(c, "userId")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	if err := h.UserRepo.DeleteCascade(c.Request().Context(), userID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete user"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "user deleted"})
}

// DeleteBooking handles DELETE /v1/admin/bookings/:bookingId, removing any
// booking regardless of owner.
func (h *AdminHandler) DeleteBooking(c echo.Context) error {
	bookingID, ok := pathID(c, "bookingId")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	if err := h.BookingRepo.DeleteCascade(c.Request().Context(), bookingID); err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete booking"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "booking deleted"})
}

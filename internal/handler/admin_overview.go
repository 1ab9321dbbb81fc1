package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// notificationHistoryCap bounds the history list; older entries are only
// reachable through the database directly.
const notificationHistoryCap = 50

// ListPayments handles GET /v1/admin/payments. Returns every simulated
// payment newest first plus the summed revenue.
func (h *AdminHandler) ListPayments(c echo.Context) error {
	payments, total, err := h.BookingRepo.ListPayments(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load payments"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"payments":      payments,
		"total_revenue": total,
	})
}

// ListNotifications handles GET /v1/admin/notifications. The latest five
// entries are split out for the console's badge dropdown; history carries
// up to fifty.
func (h *AdminHandler) ListNotifications(c echo.Context) error {
	history, err := h.NotifRepo.ListRecent(c.Request().Context(), notificationHistoryCap)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load notifications"})
	}
	latest := history
	if len(latest) > 5 {
		latest = history[:5]
	}
	return c.JSON(http.StatusOK, echo.Map{
		"latest":  latest,
		"history": history,
	})
}

// MarkNotificationsRead handles PUT /v1/admin/notifications/read.
func (h *AdminHandler) MarkNotificationsRead(c echo.Context) error {
	n, err := h.NotifRepo.MarkAllRead(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update notifications"})
	}
	return c.JSON(http.StatusOK, echo.Map{"updated": n})
}

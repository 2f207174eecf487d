package membership

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	ms "librarian/service/membership"
)

type Controller struct {
	Svc ms.Service
	Log *slog.Logger
}

// POST /v1/memberships/signup
func (h *Controller) Signup(c echo.Context) error {
	uid, _ := c.Get("user_id").(int64)
	v, err := h.Svc.Signup(c.Request().Context(), uid)
	if err != nil {
		h.Log.Error("membership signup", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusCreated, v)
}

// POST /v1/memberships/cancel
func (h *Controller) Cancel(c echo.Context) error {
	uid, _ := c.Get("user_id").(int64)
	v, err := h.Svc.Cancel(c.Request().Context(), uid)
	if err != nil {
		h.Log.Error("membership cancel", "err", err)
		switch ms.Code(err) {
		case ms.ErrNoMembership:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "no membership record"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, v)
}

// POST /v1/memberships/renew
func (h *Controller) Renew(c echo.Context) error {
	uid, _ := c.Get("user_id").(int64)
	v, err := h.Svc.Renew(c.Request().Context(), uid)
	if err != nil {
		h.Log.Error("membership renew", "err", err)
		switch ms.Code(err) {
		case ms.ErrNoMembership:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "no membership record"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, v)
}

// GET /v1/memberships/my
func (h *Controller) My(c echo.Context) error {
	uid, _ := c.Get("user_id").(int64)
	v, err := h.Svc.Get(c.Request().Context(), uid)
	if err != nil {
		h.Log.Error("membership get", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, v)
}

// GET /v1/memberships/my/payments
func (h *Controller) Payments(c echo.Context) error {
	uid, _ := c.Get("user_id").(int64)
	payments, err := h.Svc.Payments(c.Request().Context(), uid)
	if err != nil {
		h.Log.Error("membership payments", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": payments})
}

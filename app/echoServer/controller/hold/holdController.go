package hold

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"librarian/model"
	hs "librarian/service/hold"
)

type Controller struct {
	Svc hs.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /v1/holds
func (h *Controller) Request(c echo.Context) error {
	var req RequestPickupReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}
	uid, _ := c.Get("user_id").(int64)

	out, err := h.Svc.RequestPickup(c.Request().Context(), req.ItemID, uid)
	if err != nil {
		h.Log.Error("hold request", "err", err)
		switch hs.Code(err) {
		case hs.ErrItemNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "item not found"})
		case hs.ErrUnavailable:
			return c.JSON(http.StatusConflict, echo.Map{"message": "item unavailable"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"hold_id":    out.HoldID,
		"expires_at": out.ExpiresAt.Format(time.RFC3339),
	})
}

// POST /v1/holds/:id/pickup
func (h *Controller) Pickup(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	staffID, _ := c.Get("user_id").(int64)

	out, err := h.Svc.Pickup(c.Request().Context(), id, staffID)
	if err != nil {
		h.Log.Error("hold pickup", "err", err)
		switch hs.Code(err) {
		case hs.ErrNotActionable:
			return c.JSON(http.StatusConflict, echo.Map{"message": "hold not actionable"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"borrow_id": out.BorrowID,
		"due_date":  out.DueDate.Format(time.RFC3339),
	})
}

// DELETE /v1/holds/:id
func (h *Controller) Cancel(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	uid, _ := c.Get("user_id").(int64)
	role, _ := c.Get("role").(string)

	if err := h.Svc.Cancel(c.Request().Context(), id, uid, role == model.RoleStaff); err != nil {
		h.Log.Error("hold cancel", "err", err)
		switch hs.Code(err) {
		case hs.ErrNotActionable:
			return c.JSON(http.StatusConflict, echo.Map{"message": "hold not actionable"})
		case hs.ErrNotOwner:
			return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "canceled"})
}

// GET /v1/holds/my
func (h *Controller) My(c echo.Context) error {
	uid, _ := c.Get("user_id").(int64)
	rows, err := h.Svc.MyHolds(c.Request().Context(), uid)
	if err != nil {
		h.Log.Error("hold list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

package waitlist

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"librarian/model"
	ws "librarian/service/waitlist"
)

type Controller struct {
	Svc ws.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /v1/waitlist
func (h *Controller) Place(c echo.Context) error {
	var req PlaceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
	}
	uid, _ := c.Get("user_id").(int64)

	entry, err := h.Svc.Place(c.Request().Context(), req.ItemID, uid)
	if err != nil {
		h.Log.Error("waitlist place", "err", err)
		switch ws.Code(err) {
		case ws.ErrItemNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "item not found"})
		case ws.ErrItemAvailable:
			return c.JSON(http.StatusConflict, echo.Map{"message": "item has copies available, request a hold instead"})
		case ws.ErrAlreadyWaitlisted:
			return c.JSON(http.StatusConflict, echo.Map{"message": "already on the waitlist for this item"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusCreated, entry)
}

// DELETE /v1/waitlist/:id
func (h *Controller) Cancel(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	uid, _ := c.Get("user_id").(int64)
	role, _ := c.Get("role").(string)

	if err := h.Svc.Cancel(c.Request().Context(), id, uid, role == model.RoleStaff); err != nil {
		h.Log.Error("waitlist cancel", "err", err)
		switch ws.Code(err) {
		case ws.ErrEntryNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "waitlist entry not found"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "waitlist entry canceled"})
}

// GET /v1/waitlist/my
func (h *Controller) My(c echo.Context) error {
	uid, _ := c.Get("user_id").(int64)
	entries, err := h.Svc.MyEntries(c.Request().Context(), uid)
	if err != nil {
		h.Log.Error("waitlist list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": entries})
}

// GET /v1/items/:id/waitlist (staff view of an item's queue)
func (h *Controller) ItemQueue(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	entries, err := h.Svc.ItemQueue(c.Request().Context(), id)
	if err != nil {
		h.Log.Error("waitlist item queue", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": entries})
}

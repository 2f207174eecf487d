package loan

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"librarian/model"
	ls "librarian/service/loan"
)

type Controller struct {
	Svc ls.Service
	Log *slog.Logger
}

// POST /v1/loans/:id/return
func (h *Controller) Return(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	staffID, _ := c.Get("user_id").(int64)

	out, err := h.Svc.Return(c.Request().Context(), id, staffID)
	if err != nil {
		h.Log.Error("loan return", "err", err)
		switch ls.Code(err) {
		case ls.ErrActiveLoanNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "active loan not found"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}

	resp := echo.Map{
		"borrow_id":   out.BorrowID,
		"return_date": out.ReturnDate.Format(time.RFC3339),
	}
	if out.Fine != nil {
		resp["fine"] = out.Fine
	}
	return c.JSON(http.StatusOK, resp)
}

// POST /v1/loans/:id/lost
func (h *Controller) MarkLost(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	staffID, _ := c.Get("user_id").(int64)

	out, err := h.Svc.MarkLost(c.Request().Context(), id, staffID)
	if err != nil {
		h.Log.Error("loan lost", "err", err)
		switch ls.Code(err) {
		case ls.ErrActiveLoanNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "active loan not found"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"borrow_id": out.BorrowID,
		"fine":      out.Fine,
	})
}

// GET /v1/loans/my
func (h *Controller) MyLoans(c echo.Context) error {
	uid, _ := c.Get("user_id").(int64)
	rows, err := h.Svc.MyLoans(c.Request().Context(), uid)
	if err != nil {
		h.Log.Error("loan list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/loans/my/history
func (h *Controller) MyHistory(c echo.Context) error {
	uid, _ := c.Get("user_id").(int64)
	rows, err := h.Svc.MyHistory(c.Request().Context(), uid)
	if err != nil {
		h.Log.Error("loan history", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/loans?user_id=&status=&category=
func (h *Controller) List(c echo.Context) error {
	var f ls.Filter
	if v := c.QueryParam("user_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid user_id"})
		}
		f.UserID = &id
	}
	if v := c.QueryParam("status"); v != "" {
		st := model.BorrowStatus(v)
		f.Status = &st
	}
	if v := c.QueryParam("category"); v != "" {
		cat := model.Category(v)
		if !model.IsValidCategory(cat) {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid category"})
		}
		f.Category = &cat
	}

	rows, err := h.Svc.List(c.Request().Context(), f)
	if err != nil {
		h.Log.Error("loan filter list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

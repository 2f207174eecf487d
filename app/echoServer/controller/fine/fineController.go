package fine

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"librarian/model"
	fs "librarian/service/fine"
)

type Controller struct {
	Svc fs.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /v1/fines/:id/pay
func (h *Controller) Pay(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	staffID, _ := c.Get("user_id").(int64)

	if err := h.Svc.Pay(c.Request().Context(), id, staffID); err != nil {
		h.Log.Error("fine pay", "err", err)
		switch fs.Code(err) {
		case fs.ErrAlreadyPaid:
			return c.JSON(http.StatusConflict, echo.Map{"message": "fine not found or already settled"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "fine paid"})
}

// POST /v1/fines/:id/waive
func (h *Controller) Waive(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req WaiveReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
	}
	staffID, _ := c.Get("user_id").(int64)

	if err := h.Svc.Waive(c.Request().Context(), id, req.Reason, staffID); err != nil {
		h.Log.Error("fine waive", "err", err)
		switch fs.Code(err) {
		case fs.ErrMissingReason:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "waive reason is required"})
		case fs.ErrAlreadySettled:
			return c.JSON(http.StatusConflict, echo.Map{"message": "fine not found or already settled"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "fine waived"})
}

// POST /v1/fines
func (h *Controller) Issue(c echo.Context) error {
	var req IssueReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
	}
	staffID, _ := c.Get("user_id").(int64)

	f, err := h.Svc.Issue(c.Request().Context(), req.BorrowID, model.FeeType(req.FeeType), req.Amount, req.Notes, staffID)
	if err != nil {
		h.Log.Error("fine issue", "err", err)
		switch fs.Code(err) {
		case fs.ErrBadAmount:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "amount must be positive"})
		case fs.ErrBorrowNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "borrow not found"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusCreated, f)
}

// GET /v1/fines/my
func (h *Controller) My(c echo.Context) error {
	uid, _ := c.Get("user_id").(int64)
	fines, err := h.Svc.MyFines(c.Request().Context(), uid)
	if err != nil {
		h.Log.Error("fine list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": fines})
}

// GET /v1/fines/standing
func (h *Controller) Standing(c echo.Context) error {
	uid, _ := c.Get("user_id").(int64)
	st, err := h.Svc.Standing(c.Request().Context(), uid)
	if err != nil {
		h.Log.Error("fine standing", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, st)
}

// GET /v1/users/:id/standing (staff lookup)
func (h *Controller) StandingFor(c echo.Context) error {
	uid, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || uid <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	st, err := h.Svc.Standing(c.Request().Context(), uid)
	if err != nil {
		h.Log.Error("fine standing lookup", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, st)
}

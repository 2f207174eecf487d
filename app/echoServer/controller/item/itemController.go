package item

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"librarian/model"
	is "librarian/service/item"
)

type Controller struct {
	Svc is.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /v1/items
func (h *Controller) Create(c echo.Context) error {
	var req CreateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
	}

	it := &model.Item{Category: model.Category(req.Category)}
	switch it.Category {
	case model.CategoryBook:
		it.Book = &model.BookMeta{Title: req.Title, Author: req.Author, ISBN: req.ISBN}
	case model.CategoryMovie:
		it.Movie = &model.MovieMeta{Title: req.Title, Director: req.Director, Year: req.Year}
	case model.CategoryDevice:
		it.Device = &model.DeviceMeta{Title: req.Title, Manufacturer: req.Manufacturer, Serial: req.Serial}
	}

	id, err := h.Svc.Create(c.Request().Context(), it, req.Copies)
	if err != nil {
		h.Log.Error("item create", "err", err)
		switch is.Code(err) {
		case is.ErrBadPayload:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid item payload"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusCreated, echo.Map{"item_id": id})
}

// POST /v1/items/:id/copies
func (h *Controller) AddCopies(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req AddCopiesReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
	}

	if err := h.Svc.AddCopies(c.Request().Context(), id, req.Copies); err != nil {
		h.Log.Error("item add copies", "err", err)
		switch is.Code(err) {
		case is.ErrItemNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "item not found"})
		case is.ErrBadPayload:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "copies must be positive"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "copies added"})
}

// GET /v1/items
func (h *Controller) List(c echo.Context) error {
	rows, err := h.Svc.List(c.Request().Context())
	if err != nil {
		h.Log.Error("item list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/items/:id
func (h *Controller) Detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	it, err := h.Svc.Detail(c.Request().Context(), id)
	if err != nil {
		h.Log.Error("item detail", "err", err)
		switch is.Code(err) {
		case is.ErrItemNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "item not found"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, it)
}

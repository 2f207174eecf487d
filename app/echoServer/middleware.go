// app/echoServer/middleware.go
package echoServer

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"librarian/model"
	"librarian/util/metrics"
)

func RegisterMiddlewares(e *echo.Echo) {

	e.Use(middleware.Recover())

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string { return uuid.NewString() },
	}))

	e.Use(Slog())
}

func Slog() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			lat := time.Since(start).Milliseconds()

			status := c.Response().Status
			rid := c.Response().Header().Get(echo.HeaderXRequestID)
			slog.Info("http",
				"method", c.Request().Method,
				"path", c.Path(),
				"status", status,
				"latency_ms", lat,
				"req_id", rid,
				"ip", c.RealIP(),
			)
			metrics.IncHTTP(c.Path(), strconv.Itoa(status))
			return err
		}
	}
}

// StaffOnly rejects callers whose token does not carry the staff role.
func StaffOnly() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if role != model.RoleStaff {
				return c.JSON(http.StatusForbidden, echo.Map{"message": "staff only"})
			}
			return next(c)
		}
	}
}

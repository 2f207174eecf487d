package echoServer

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"librarian/app/echoServer/controller/auth"
	"librarian/app/echoServer/controller/fine"
	"librarian/app/echoServer/controller/hold"
	"librarian/app/echoServer/controller/item"
	"librarian/app/echoServer/controller/loan"
	"librarian/app/echoServer/controller/membership"
	"librarian/app/echoServer/controller/waitlist"
	"librarian/app/echoServer/jwtx"
)

type C struct {
	Auth       *auth.Controller
	Item       *item.Controller
	Hold       *hold.Controller
	Loan       *loan.Controller
	Fine       *fine.Controller
	Waitlist   *waitlist.Controller
	Membership *membership.Controller
	JWTSecret  string
}

func Register(e *echo.Echo, c C) {
	// Public
	pub := e.Group("/v1")
	pub.POST("/users/register", c.Auth.Register)
	pub.POST("/users/login", c.Auth.Login)

	// Auth
	g := e.Group("/v1")
	g.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(c.JWTSecret),

		NewClaimsFunc: func(c echo.Context) jwt.Claims { return jwt.MapClaims{} },
		TokenLookup:   "header:Authorization",
	}))
	// user_id / role extraction from claims
	g.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			uid, err := jwtx.UserIDFromContext(ctx)
			if err != nil {
				return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}
			role, err := jwtx.RoleFromContext(ctx)
			if err != nil {
				return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}
			ctx.Set("user_id", uid)
			ctx.Set("role", role)
			return next(ctx)
		}
	})

	// Catalog
	g.GET("/items", c.Item.List)
	g.GET("/items/:id", c.Item.Detail)

	// Holds
	g.POST("/holds", c.Hold.Request)
	g.DELETE("/holds/:id", c.Hold.Cancel)
	g.GET("/holds/my", c.Hold.My)

	// Loans
	g.GET("/loans/my", c.Loan.MyLoans)
	g.GET("/loans/my/history", c.Loan.MyHistory)

	// Waitlist
	g.POST("/waitlist", c.Waitlist.Place)
	g.DELETE("/waitlist/:id", c.Waitlist.Cancel)
	g.GET("/waitlist/my", c.Waitlist.My)

	// Fines
	g.GET("/fines/my", c.Fine.My)
	g.GET("/fines/standing", c.Fine.Standing)

	// Membership
	g.POST("/memberships/signup", c.Membership.Signup)
	g.POST("/memberships/cancel", c.Membership.Cancel)
	g.POST("/memberships/renew", c.Membership.Renew)
	g.GET("/memberships/my", c.Membership.My)
	g.GET("/memberships/my/payments", c.Membership.Payments)

	// Staff desk operations
	staff := g.Group("", StaffOnly())
	staff.POST("/items", c.Item.Create)
	staff.POST("/items/:id/copies", c.Item.AddCopies)
	staff.GET("/items/:id/waitlist", c.Waitlist.ItemQueue)

	staff.POST("/holds/:id/pickup", c.Hold.Pickup)
	staff.POST("/loans/:id/return", c.Loan.Return)
	staff.POST("/loans/:id/lost", c.Loan.MarkLost)
	staff.GET("/loans", c.Loan.List)

	staff.POST("/fines", c.Fine.Issue)
	staff.POST("/fines/:id/pay", c.Fine.Pay)
	staff.POST("/fines/:id/waive", c.Fine.Waive)
	staff.GET("/users/:id/standing", c.Fine.StandingFor)
}

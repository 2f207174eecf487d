// Package main librarian API.
//
// @title           Librarian API
// @version         1.0
// @description     Library lending service (items, holds, loans, fines, waitlists, memberships).
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description  Use:  Bearer <JWT>
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"

	"librarian/app/echoServer"
	authctrl "librarian/app/echoServer/controller/auth"
	finectrl "librarian/app/echoServer/controller/fine"
	holdctrl "librarian/app/echoServer/controller/hold"
	itemctrl "librarian/app/echoServer/controller/item"
	loanctrl "librarian/app/echoServer/controller/loan"
	membershipctrl "librarian/app/echoServer/controller/membership"
	waitlistctrl "librarian/app/echoServer/controller/waitlist"
	"librarian/app/echoServer/validation"
	"librarian/config"
	authrepo "librarian/repository/auth"
	finerepo "librarian/repository/fine"
	holdrepo "librarian/repository/hold"
	itemrepo "librarian/repository/item"
	loanrepo "librarian/repository/loan"
	membershiprepo "librarian/repository/membership"
	waitlistrepo "librarian/repository/waitlist"
	authsvc "librarian/service/auth"
	finesvc "librarian/service/fine"
	holdsvc "librarian/service/hold"
	itemsvc "librarian/service/item"
	loansvc "librarian/service/loan"
	membershipsvc "librarian/service/membership"
	waitlistsvc "librarian/service/waitlist"
	"librarian/util/database"
	"librarian/util/metrics"
)

func main() {

	cfg := config.Load()
	ctx := context.Background()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// DB: *sql.DB
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.EnsureSchema(ctx, db); err != nil {
		log.Error("schema bootstrap failed", "err", err)
		os.Exit(1)
	}

	metrics.Register()

	// repos
	ar := authrepo.New(db)
	ir := itemrepo.New(db)
	hr := holdrepo.New(db)
	lr := loanrepo.New(db)
	fr := finerepo.New(db)
	wr := waitlistrepo.New(db)
	mr := membershiprepo.New(db)

	// services
	as := authsvc.New(ar, cfg.JWTSecret)
	is := itemsvc.New(ir)
	hs := holdsvc.New(hr, cfg.PickupWindow())
	ls := loansvc.New(lr)
	fs := finesvc.New(fr)
	ws := waitlistsvc.New(wr)
	ms := membershipsvc.New(mr, cfg.MembershipFee)

	// controllers
	v := validator.New()
	authC := &authctrl.Controller{Svc: as, V: v, Log: log}
	itemC := &itemctrl.Controller{Svc: is, V: v, Log: log}
	holdC := &holdctrl.Controller{Svc: hs, V: v, Log: log}
	loanC := &loanctrl.Controller{Svc: ls, Log: log}
	fineC := &finectrl.Controller{Svc: fs, V: v, Log: log}
	waitlistC := &waitlistctrl.Controller{Svc: ws, V: v, Log: log}
	membershipC := &membershipctrl.Controller{Svc: ms, Log: log}

	// echo
	e := echo.New()
	echoServer.RegisterMiddlewares(e)
	e.Validator = validation.New()

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]any{
			"status":  "ok",
			"message": "Service is healthy and connected",
		})
	})

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	echoServer.Register(e, echoServer.C{
		Auth:       authC,
		Item:       itemC,
		Hold:       holdC,
		Loan:       loanC,
		Fine:       fineC,
		Waitlist:   waitlistC,
		Membership: membershipC,

		JWTSecret: cfg.JWTSecret,
	})

	// background release of holds whose pickup window lapsed
	if cfg.SweepEnabled {
		sw := holdsvc.NewSweeper(hr)
		go sw.Run(ctx, cfg.SweepInterval, log)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	log.Info("starting server", "port", port, "sweep_enabled", cfg.SweepEnabled)

	e.Logger.Fatal(e.Start(":" + port))
}

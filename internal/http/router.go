package http

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/ardian/klinikhub/internal/auth"
	"github.com/ardian/klinikhub/internal/config"
	"github.com/ardian/klinikhub/internal/http/handlers"
	"github.com/ardian/klinikhub/internal/http/middlewares"
	"github.com/ardian/klinikhub/internal/http/views"
	"github.com/ardian/klinikhub/internal/observability"
	"github.com/ardian/klinikhub/internal/repo/sqlite"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(log *slog.Logger, conn *sql.DB, cfg config.Config) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	handlers.RegisterValidatorTagNames()

	r := gin.New()

	// middleware

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.MaxBodyBytes(4 << 20))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	reg := prometheus.NewRegistry()
	prom := observability.NewProm(reg)
	r.Use(prom.GinHandleMiddleware())

	r.SetHTMLTemplate(views.Templates())
	r.Static("/static", cfg.StaticDir)

	// wire up repositories and the session manager

	usersRepo := sqlite.NewUsersRepo(conn)
	patientsRepo := sqlite.NewPatientsRepo(conn, prom)
	jwtManager := auth.NewManager(cfg.TokenSecret, cfg.AccessTTL)

	gate := middlewares.NewGate(jwtManager, usersRepo, middlewares.DefaultPolicy())
	r.Use(gate.Enforce())

	// health
	ping := func() error {
		if conn == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		return conn.PingContext(ctx)
	}

	health := handlers.NewHealthHandler(ping)
	r.GET("/healthz", health.Healthz)
	r.GET("/readyz", health.Readyz)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// wire up handlers

	authHandler := handlers.NewAuthHandler(usersRepo, jwtManager, cfg)
	pages := handlers.NewPatientPages(patientsRepo)
	dashboard := handlers.NewDashboardHandler(patientsRepo)
	api := handlers.NewPatientsAPI(patientsRepo)
	bulk := handlers.NewTransferHandler(patientsRepo, cfg.ExportDir(), prom)

	// page routes
	r.GET("/", pages.Home)
	r.GET("/login", authHandler.LoginForm)
	r.POST("/login", authHandler.Login)
	r.GET("/logout", authHandler.Logout)
	r.GET("/dashboard", dashboard.Show)
	r.GET("/patients", pages.List)
	r.GET("/patients/new", pages.NewForm)
	r.POST("/patients", pages.Create)
	r.GET("/patients/:id/edit", pages.EditForm)
	r.PUT("/patients/:id", pages.Update)
	// verb-bypass alias for plain HTML forms
	r.POST("/patients/:id/update", pages.Update)
	r.POST("/patients/:id/delete", pages.Delete)

	// JSON API routes
	apiGroup := r.Group("/api", middlewares.RequireJSON())
	apiGroup.GET("/patients", api.List)
	apiGroup.POST("/patients", api.Create)
	apiGroup.POST("/import", bulk.Import)
	apiGroup.GET("/export", bulk.Export)

	return r
}

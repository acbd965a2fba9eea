package router

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/inventory-dashboard/internal/server/handlers"
	"github.com/mamadbah2/inventory-dashboard/internal/server/middleware"
	"github.com/mamadbah2/inventory-dashboard/internal/server/templates"
	"github.com/mamadbah2/inventory-dashboard/internal/telemetry"
)

// Handlers groups the page handlers mounted by New.
type Handlers struct {
	Auth      *handlers.AuthHandler
	Inventory *handlers.InventoryHandler
	Export    *handlers.ExportHandler
}

// New wires the Gin engine with required routes and middlewares. reg may be nil.
func New(h Handlers, sessions middleware.TokenParser, reg *telemetry.Registry, logger *zap.Logger) (*gin.Engine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	tmpl, err := templates.Parse()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(zapLoggerMiddleware(logger))
	if reg != nil {
		r.Use(durationMiddleware(reg))
		r.GET("/metrics", gin.WrapH(reg.Handler()))
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/signup", h.Auth.ShowSignup)
	r.POST("/signup", h.Auth.SignUp)
	r.GET("/login", h.Auth.ShowLogin)
	r.POST("/login", h.Auth.Login)
	r.GET("/logout", h.Auth.Logout)

	authed := r.Group("/", middleware.RequireSession(sessions, logger))
	authed.GET("/", func(c *gin.Context) { c.Redirect(http.StatusFound, "/dashboard") })
	authed.GET("/dashboard", h.Inventory.Dashboard)
	authed.GET("/upload", h.Inventory.ShowUpload)
	authed.POST("/upload", h.Inventory.Upload)
	authed.GET("/export/excel", h.Export.Excel)
	authed.GET("/export/pdf", h.Export.PDF)
	authed.POST("/export/sheets", h.Export.Sheets)

	logger.Info("router initialized")

	return r, nil
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("request_id", c.GetString(middleware.RequestIDKey)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.String("user", middleware.CurrentUser(c)))
	}
}

func durationMiddleware(reg *telemetry.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		reg.RequestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

// Package server assembles the echo application: middleware chain, routes
// and the HTTP server lifecycle.
package server

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"

	"budgetron/internal/config"
	"budgetron/internal/errors"
	"budgetron/internal/handlers"
	"budgetron/internal/middleware"
	"budgetron/internal/services"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type Server struct {
	echo        *echo.Echo
	cfg         *config.Config
	log         *slog.Logger
	apiLimiter  *middleware.RateLimiter
	authLimiter *middleware.RateLimiter
}

// Metrics is where the HTTP layer registers its collectors and what
// /metrics exposes. *prometheus.Registry satisfies it.
type Metrics interface {
	prometheus.Registerer
	prometheus.Gatherer
}

func New(cfg *config.Config, db *gorm.DB, svc *Services, metrics Metrics, log *slog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handlers.NewValidator()
	e.HTTPErrorHandler = middleware.NewHTTPErrorHandler(metrics)

	s := &Server{
		echo:        e,
		cfg:         cfg,
		log:         log,
		apiLimiter:  middleware.NewRateLimiter(float64(cfg.Security.RateLimitPerSecond), cfg.Security.RateLimitPerSecond*2),
		authLimiter: middleware.NewRateLimiter(float64(cfg.Security.AuthRateLimitPerSecond), cfg.Security.AuthRateLimitPerSecond*2),
	}

	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger(log, metrics))
	e.Use(middleware.PanicRecovery())
	e.Use(middleware.SecurityHeaders())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:  cfg.AllowedOrigins(),
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{echo.HeaderAuthorization, echo.HeaderContentType, middleware.TraceIDHeader},
		ExposeHeaders: []string{middleware.TraceIDHeader, echo.HeaderContentDisposition},
	}))
	e.Use(echomw.BodyLimit(cfg.Server.BodyLimit))

	s.registerRoutes(db, svc, metrics)
	return s
}

func (s *Server) registerRoutes(db *gorm.DB, svc *Services, metrics prometheus.Gatherer) {
	e := s.echo
	limits := handlers.PageLimits{
		DefaultPerPage: s.cfg.Pagination.DefaultPerPage,
		MaxPerPage:     s.cfg.Pagination.MaxPerPage,
	}

	health := handlers.NewHealthCheckHandler(db)
	authHandler := handlers.NewAuthHandler(svc.Auth)
	userHandler := handlers.NewUserHandler(svc.User, limits)
	roleHandler := handlers.NewRoleHandler(svc.Role, limits)
	adminHandler := handlers.NewAdminHandler(svc.User, svc.Audit, limits)
	categoryHandler := handlers.NewCategoryHandler(svc.Category, limits)
	transactionHandler := handlers.NewTransactionHandler(svc.Transaction, limits)
	budgetHandler := handlers.NewBudgetHandler(svc.Budget, limits)
	reportHandler := handlers.NewReportHandler(svc.Report, limits)

	e.GET("/health", health.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(metrics, promhttp.HandlerOpts{})))

	requireAuth := middleware.RequireAuth(svc.Auth, svc.Token)
	api := e.Group("/api/v1", s.apiLimiter.Middleware())

	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register, s.authLimiter.Middleware())
	auth.POST("/login", authHandler.Login, s.authLimiter.Middleware())
	auth.POST("/refresh", authHandler.RefreshToken, s.authLimiter.Middleware())
	auth.POST("/logout", authHandler.Logout, requireAuth)
	auth.GET("/me", authHandler.Me, requireAuth)
	auth.PATCH("/me", authHandler.UpdateMe, requireAuth)

	users := api.Group("/users", requireAuth, middleware.RequireAdmin())
	users.GET("", userHandler.List)
	users.POST("", userHandler.Create)
	users.GET("/:id", userHandler.Get)
	users.PATCH("/:id", userHandler.Update)
	users.DELETE("/:id", userHandler.Delete)
	users.GET("/:id/activity", adminHandler.UserActivity)

	roles := api.Group("/roles", requireAuth, middleware.RequireAdmin())
	roles.GET("", roleHandler.List)
	roles.POST("", roleHandler.Create)
	roles.GET("/:id", roleHandler.Get)
	roles.PATCH("/:id", roleHandler.Update)
	roles.DELETE("/:id", roleHandler.Delete)

	categories := api.Group("/categories", requireAuth)
	categories.GET("", categoryHandler.List)
	categories.POST("", categoryHandler.Create)
	categories.GET("/:id", categoryHandler.Get)
	categories.PATCH("/:id", categoryHandler.Update)
	categories.DELETE("/:id", categoryHandler.Delete)

	transactions := api.Group("/transactions", requireAuth)
	ownsTransaction := middleware.RequireOwnership(svc.Transaction.Get, services.ErrTransactionNotFound, errors.TransactionNotFound)
	transactions.GET("", transactionHandler.List)
	transactions.POST("", transactionHandler.Create)
	transactions.GET("/:id", transactionHandler.Get, ownsTransaction)
	transactions.PATCH("/:id", transactionHandler.Update, ownsTransaction)
	transactions.DELETE("/:id", transactionHandler.Delete, ownsTransaction)

	budgets := api.Group("/budgets", requireAuth)
	ownsBudget := middleware.RequireOwnership(svc.Budget.Get, services.ErrBudgetNotFound, errors.BudgetNotFound)
	budgets.GET("", budgetHandler.List)
	budgets.POST("", budgetHandler.Create)
	budgets.GET("/:id", budgetHandler.Get, ownsBudget)
	budgets.PATCH("/:id", budgetHandler.Update, ownsBudget)
	budgets.DELETE("/:id", budgetHandler.Delete, ownsBudget)

	reports := api.Group("/reports", requireAuth)
	ownsReport := middleware.RequireOwnership(svc.Report.Get, services.ErrReportNotFound, errors.ReportNotFound)
	reports.GET("", reportHandler.List)
	reports.POST("", reportHandler.Create)
	reports.GET("/:id", reportHandler.Get, ownsReport)
	reports.PATCH("/:id", reportHandler.Update, ownsReport)
	reports.DELETE("/:id", reportHandler.Delete, ownsReport)
	reports.GET("/:id/download", reportHandler.Download, ownsReport)

	if prefix := reportsPathPrefix(s.cfg.Reports.BaseURL); prefix != "" {
		e.GET(prefix+"/:name", reportHandler.ServeFile, s.apiLimiter.Middleware(), requireAuth)
	}
}

// reportsPathPrefix returns the path part of the reports base URL, which may
// be absolute ("https://api.example.com/static/reports") or a bare path.
func reportsPathPrefix(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil {
		return ""
	}
	p := u.Path
	for len(p) > 0 && p[len(p)-1] == '/' {
		p = p[:len(p)-1]
	}
	return p
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run serves HTTP until ctx is cancelled, then drains in-flight requests
// within the configured shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         net.JoinHostPort(s.cfg.Server.Host, s.cfg.Server.Port),
		Handler:      s.echo,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.Info("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		s.log.Info("shutting down http server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	g.Go(func() error { return s.apiLimiter.Run(gctx) })
	g.Go(func() error { return s.authLimiter.Run(gctx) })

	return g.Wait()
}

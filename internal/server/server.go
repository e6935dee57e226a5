package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/matthieukhl/cartstats/internal/analytics"
	"github.com/matthieukhl/cartstats/internal/logging"
	"github.com/matthieukhl/cartstats/internal/metrics"
)

// HealthChecker is satisfied by *database.DB
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type Server struct {
	router  *gin.Engine
	db      HealthChecker
	engine  analytics.Engine
	metrics *metrics.Registry
	log     zerolog.Logger
}

// NewServer creates a new server instance. reg may be nil, in which case
// no /metrics route is mounted.
func NewServer(db HealthChecker, engine analytics.Engine, reg *metrics.Registry) *Server {
	router := gin.New()

	server := &Server{
		router:  router,
		db:      db,
		engine:  engine,
		metrics: reg,
		log:     logging.With().Str("component", "http").Logger(),
	}

	router.Use(gin.Recovery(), server.requestLogger())

	server.setupRoutes()
	return server
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.Group("/api")
	{
		api.GET("/health", s.healthCheck)
	}

	stats := api.Group("/analytics")
	{
		stats.GET("/average-purchase", s.averagePurchase)
		stats.GET("/general-average", s.generalAverage)
		stats.GET("/best-customers", s.bestCustomers)
		stats.GET("/top-products", s.topProducts)
		stats.GET("/days-between-orders", s.daysBetweenOrders)
		stats.GET("/report", s.report)
	}

	if s.metrics != nil {
		s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}
}

// requestLogger logs each request and counts it by route and status
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()

		if s.metrics != nil {
			s.metrics.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		}

		s.log.Debug().
			Str("method", c.Request.Method).
			Str("route", route).
			Int("status", status).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	}
}

// healthCheck endpoint for monitoring
func (s *Server) healthCheck(c *gin.Context) {
	// Check database health
	if err := s.db.HealthCheck(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "error",
			"error":  "database connection failed",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "cartstats",
		"version": "0.1.0",
	})
}

func (s *Server) fail(c *gin.Context, err error) {
	s.log.Error().Err(err).Str("route", c.FullPath()).Msg("analytics request failed")
	c.JSON(http.StatusInternalServerError, gin.H{
		"status": "error",
		"error":  err.Error(),
	})
}

func (s *Server) averagePurchase(c *gin.Context) {
	rows, err := s.engine.AveragePurchase(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (s *Server) generalAverage(c *gin.Context) {
	avg, err := s.engine.GeneralAvgOrder(c.Request.Context())
	switch {
	case errors.Is(err, analytics.ErrNoData):
		c.JSON(http.StatusOK, gin.H{"general_average": nil})
	case err != nil:
		s.fail(c, err)
	default:
		c.JSON(http.StatusOK, gin.H{"general_average": avg})
	}
}

func (s *Server) bestCustomers(c *gin.Context) {
	rows, err := s.engine.BestCustomers(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (s *Server) topProducts(c *gin.Context) {
	rows, err := s.engine.TopOrderedProductPerCustomer(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (s *Server) daysBetweenOrders(c *gin.Context) {
	days, err := s.engine.AverageDaysBetweenOrders(c.Request.Context())
	switch {
	case errors.Is(err, analytics.ErrNoData):
		c.JSON(http.StatusOK, gin.H{"average_days": nil})
	case err != nil:
		s.fail(c, err)
	default:
		c.JSON(http.StatusOK, gin.H{"average_days": days})
	}
}

func (s *Server) report(c *gin.Context) {
	r, err := analytics.RunReport(c.Request.Context(), s.engine)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

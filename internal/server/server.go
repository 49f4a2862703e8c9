package server

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/Aebel-Shajan/activity-tracker/internal/ingestion"
	"github.com/Aebel-Shajan/activity-tracker/internal/metrics"
	"github.com/gin-gonic/gin"
)

type Server struct {
	Engine   *gin.Engine
	Addr     string
	db       *sql.DB
	datasets DatasetProvider
}

// DatasetProvider exposes the dataset currently served, nil while loading.
type DatasetProvider interface {
	Dataset() *ingestion.Dataset
}

// viewCache is implemented by providers that memoize rendered views.
type viewCache interface {
	CachedViews() int
}

// New creates the HTTP server with /health and /metrics registered.
// db may be nil when records come from files.
func New(addr string, mode string, db *sql.DB, datasets DatasetProvider) *Server {
	if mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else if mode == "test" {
		gin.SetMode(gin.TestMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	s := &Server{
		Engine:   r,
		Addr:     addr,
		db:       db,
		datasets: datasets,
	}

	r.GET("/health", s.healthHandler)
	metrics.RegisterRoutes(r)

	return s
}

// requestLogger logs each request through slog instead of gin's stdout logger.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Debug("HTTP request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"elapsed", time.Since(start),
		)
	}
}

func (s *Server) healthHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	database := "not configured"
	if s.db != nil {
		if err := s.db.PingContext(ctx); err != nil {
			slog.Error("Health check failed: database unreachable", "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  "database unreachable",
			})
			return
		}
		database = "connected"
	}

	var ds *ingestion.Dataset
	if s.datasets != nil {
		ds = s.datasets.Dataset()
	}
	if ds == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "loading",
			"database": database,
		})
		return
	}

	body := gin.H{
		"status":     "healthy",
		"database":   database,
		"dataset_id": ds.ID,
		"records":    ds.Len(),
		"loaded_at":  ds.LoadedAt,
	}
	if vc, ok := s.datasets.(viewCache); ok {
		body["cached_views"] = vc.CachedViews()
	}
	c.JSON(http.StatusOK, body)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
// A listen failure is returned immediately.
func (s *Server) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	srv := &http.Server{
		Addr:              s.Addr,
		Handler:           s.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("Starting HTTP Server...", "address", s.Addr)

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		slog.Info("Stopping HTTP Server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("HTTP Server forced to shutdown", "error", err)
		}
	}()

	err := srv.ListenAndServe()
	cancel()
	<-stopped
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

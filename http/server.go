package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rainlens/station-viewer/config"
	"github.com/rainlens/station-viewer/daterange"
	"github.com/rainlens/station-viewer/history"
	"github.com/rainlens/station-viewer/preview"
)

// ReadingStore is the data access surface the handlers need.
type ReadingStore interface {
	history.Fetcher
	LatestReading(ctx context.Context) (*history.RawReading, error)
}

// Server bundles router and dependencies for the dashboard API.
type Server struct {
	cfg       config.Config
	store     ReadingStore
	validator daterange.Validator
	session   *history.Session
	selector  *preview.Selector
	log       *slog.Logger
	engine    *gin.Engine
}

// New constructs a server with routes and middleware.
func New(cfg config.Config, store ReadingStore, log *slog.Logger) (*Server, error) {
	validator, err := daterange.New(cfg.EarliestDate, cfg.UTCOffsetHours)
	if err != nil {
		return nil, err
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(gin.Logger())
	engine.Use(requestIDMiddleware())
	engine.Use(corsMiddleware())

	if cfg.BearerToken != "" {
		engine.Use(bearerAuthMiddleware(cfg.BearerToken))
	}

	server := &Server{
		cfg:       cfg,
		store:     store,
		validator: validator,
		session:   history.NewSession(store),
		selector:  preview.NewSelector(preview.NewHTTPLoader(cfg.PreviewTimeout)),
		log:       log,
		engine:    engine,
	}
	server.registerRoutes()
	return server, nil
}

// Engine exposes the underlying gin engine (for tests).
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Run starts the HTTP server and blocks until shutdown.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.ListenAddr(),
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
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

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := s.engine.Group("/api/v1")
	v1.Use(apiVersionMiddleware())
	{
		v1.GET("/history", s.handleHistory)
		v1.GET("/history/export", s.handleHistoryExport)
		v1.GET("/timelapse", s.handleTimelapse)
		v1.GET("/preview", s.handlePreview)
		v1.GET("/now", s.handleNow)
	}
}

func apiVersionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-API-Version", "v1")
		c.Next()
	}
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

func bearerAuthMiddleware(expected string) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
		if token != expected {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.Next()
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

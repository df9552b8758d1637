package ui

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/semaphore"

	"chocobox/app"
	"chocobox/internal"
	"chocobox/internal/config"
)

// Server represents the web front end of the simulation
type Server struct {
	router    *gin.Engine
	service   *app.ConvergenceService
	sim       config.SimulationConfig
	limiter   *semaphore.Weighted
	templates *template.Template
	intro     template.HTML
	logger    *internal.Logger
}

// NewServer creates a new web server instance
func NewServer(cfg *config.Config, service *app.ConvergenceService, logger *internal.Logger) (*Server, error) {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	gin.SetMode(cfg.Server.GinMode)

	templates, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	intro, err := renderIntro()
	if err != nil {
		return nil, err
	}

	s := &Server{
		router:    gin.New(),
		service:   service,
		sim:       cfg.Simulation,
		limiter:   semaphore.NewWeighted(int64(cfg.Server.MaxConcurrentRuns)),
		templates: templates,
		intro:     intro,
		logger:    logger.WithComponent("http"),
	}
	s.router.Use(gin.Logger(), gin.Recovery())
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.GET("/healthz", s.handleHealth)

	api := s.router.Group("/api")
	api.GET("/series", s.handleSeries)
	api.GET("/series/export", s.handleExport)
}

// Handler exposes the router for embedding and tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves on addr until ctx is cancelled, then drains in-flight requests
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting Chocolate Box UI on http://%s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("Shutting down web server")
		return srv.Shutdown(shutdownCtx)
	}
}

package ui

import (
	"context"
	"errors"
	"net/http"
	"time"

	"hypolab/app"
	"hypolab/internal"
	"hypolab/ui/middleware"
	"hypolab/ui/services"

	"github.com/gin-gonic/gin"
)

// Server is the HTTP front end: scenario catalog, dataset endpoints and
// the mounted /v1 JSON API
type Server struct {
	router    *gin.Engine
	inference *app.InferenceService
	datasets  *app.DatasetService
	scenarios *app.ScenarioService
	render    *services.RenderService
	api       http.Handler
	logger    *internal.Logger
}

// Deps groups what the server needs
type Deps struct {
	Inference *app.InferenceService
	Datasets  *app.DatasetService
	Scenarios *app.ScenarioService
	API       http.Handler
	Logger    *internal.Logger
}

// NewServer creates a new web server instance
func NewServer(deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = internal.DefaultLogger
	}
	s := &Server{
		router:    gin.New(),
		inference: deps.Inference,
		datasets:  deps.Datasets,
		scenarios: deps.Scenarios,
		render:    services.NewRenderService(),
		api:       deps.API,
		logger:    logger.WithField("component", "server"),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// Handler exposes the router, mostly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(middleware.RequestID())
	s.router.Use(middleware.RequestLogger(s.logger, "/v1/"))
}

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.handleHealth)

	s.router.GET("/scenarios", s.handleListScenarios)
	s.router.GET("/scenarios/:id", s.handleScenario)

	s.router.GET("/dataset/summary", s.handleDatasetSummary)
	s.router.GET("/dataset/columns", s.handleDatasetColumns)
	s.router.POST("/dataset/evaluate", s.handleDatasetEvaluate)
	s.router.GET("/dataset/interval", s.handleDatasetInterval)
	s.router.POST("/dataset/reload", s.handleDatasetReload)

	if s.api != nil {
		s.router.Any("/v1/*path", gin.WrapH(s.api))
	}
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
		s.logger.Info("listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

package server

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"fable/pkg/story"
)

type Server struct {
	Echo     *echo.Echo
	Pipeline *story.Pipeline
	Ctx      context.Context

	// ArchiveDir, when set, stores every generated page as WebP for
	// later inspection. Archiving is best-effort and never fails a run.
	ArchiveDir string
}

func NewServer(ctx context.Context, pipeline *story.Pipeline) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Logger())
	e.Use(middleware.CORS())

	s := &Server{
		Echo:     e,
		Pipeline: pipeline,
		Ctx:      ctx,
	}

	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.Echo.GET("/", s.handleGetRoot)

	api := s.Echo.Group("/api")
	api.POST("/generate-story", s.handleGenerateStory)              // run to completion, single JSON response
	api.POST("/generate-story-stream", s.handleGenerateStoryStream) // SSE progress + terminal event
}

func (s *Server) Start(addr string) error {
	log.Info("server listening", "addr", addr)
	return s.Echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	log.Info("shutting down server...")
	return s.Echo.Shutdown(ctx)
}

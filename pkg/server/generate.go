package server

import (
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"

	"fable/pkg/schema"
	"fable/pkg/story"
	"fable/pkg/utils"
)

// POST /api/generate-story
//
// Non-streaming fallback: the same pipeline runs to completion and only
// the final payload (or error) comes back as one JSON response.
func (s *Server) handleGenerateStory(c echo.Context) error {
	var quiz schema.QuizInput
	if err := c.Bind(&quiz); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid json")
	}

	result, err := s.Pipeline.Run(c.Request().Context(), quiz, story.NopSink{})
	if err != nil {
		var perr *story.PipelineError
		if errors.As(err, &perr) {
			return c.JSON(http.StatusInternalServerError, utils.ErrJSON(perr.Error()))
		}
		return c.JSON(http.StatusInternalServerError, utils.ErrJSON("Failed to generate story"))
	}

	s.archivePages(result)
	return c.JSON(http.StatusOK, result)
}

// POST /api/generate-story-stream
//
// Streaming mode: progress events go out as they happen, terminated by
// exactly one complete or error event. The pipeline emits the terminal
// event itself, so the handler only forwards.
func (s *Server) handleGenerateStoryStream(c echo.Context) error {
	var quiz schema.QuizInput
	if err := c.Bind(&quiz); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid json")
	}

	w := utils.NewSSEWriter(c)
	defer w.Close()

	sink := story.SinkFunc(func(event schema.ProgressEvent) {
		if err := w.Send(event); err != nil {
			log.Warn("SSE write error", "error", err)
		}
	})

	result, err := s.Pipeline.Run(c.Request().Context(), quiz, sink)
	if err != nil {
		// Already reported on the stream as an error event.
		return nil
	}

	s.archivePages(result)
	return nil
}

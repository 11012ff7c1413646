package ui

import (
	"net/http"

	"hypolab/app"
	"hypolab/domain/core"
	"hypolab/domain/stats"
	"hypolab/internal/errors"
	"hypolab/ui/middleware"

	"github.com/gin-gonic/gin"
)

// ScenarioListItem is one row of GET /scenarios
type ScenarioListItem struct {
	ID    core.ScenarioID  `json:"id"`
	Title string           `json:"title"`
	Kind  app.ScenarioKind `json:"kind"`
}

// ScenarioPage is the body of GET /scenarios/:id
type ScenarioPage struct {
	Scenario        app.Scenario         `json:"scenario"`
	DescriptionHTML string               `json:"description_html"`
	Outcome         *app.ScenarioOutcome `json:"outcome"`
}

// DatasetEvaluateRequest is the body of POST /dataset/evaluate
type DatasetEvaluateRequest struct {
	Config       stats.TestConfig `json:"config"`
	IncludeCurve bool             `json:"include_curve"`
}

// DatasetIntervalQuery is the query of GET /dataset/interval
type DatasetIntervalQuery struct {
	Confidence float64 `form:"confidence"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":             "ok",
		"dataset_configured": s.datasets != nil && s.datasets.Configured(),
	})
}

func (s *Server) handleListScenarios(c *gin.Context) {
	list := s.scenarios.List()
	items := make([]ScenarioListItem, 0, len(list))
	for _, sc := range list {
		items = append(items, ScenarioListItem{ID: sc.ID, Title: sc.Title, Kind: sc.Kind})
	}
	c.JSON(http.StatusOK, gin.H{"scenarios": items})
}

func (s *Server) handleScenario(c *gin.Context) {
	outcome, err := s.scenarios.Run(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ScenarioPage{
		Scenario:        outcome.Scenario,
		DescriptionHTML: s.render.RenderMarkdown(string(outcome.Scenario.ID), outcome.Scenario.Description),
		Outcome:         outcome,
	})
}

func (s *Server) handleDatasetSummary(c *gin.Context) {
	if s.datasets == nil {
		s.respondError(c, core.ErrNoDataSource)
		return
	}
	summary, err := s.datasets.Summary(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (s *Server) handleDatasetColumns(c *gin.Context) {
	if s.datasets == nil {
		s.respondError(c, core.ErrNoDataSource)
		return
	}
	cols, err := s.datasets.Columns(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"columns": cols})
}

func (s *Server) handleDatasetEvaluate(c *gin.Context) {
	if s.datasets == nil {
		s.respondError(c, core.ErrNoDataSource)
		return
	}
	var req DatasetEvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if !core.IsInvalidParameter(err) {
			err = errors.InvalidInput("malformed JSON: " + err.Error())
		}
		s.respondError(c, err)
		return
	}
	eval, err := s.datasets.EvaluateAgainst(c.Request.Context(), req.Config, req.IncludeCurve)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, eval)
}

func (s *Server) handleDatasetInterval(c *gin.Context) {
	if s.datasets == nil {
		s.respondError(c, core.ErrNoDataSource)
		return
	}
	var q DatasetIntervalQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		s.respondError(c, errors.InvalidInput("bad query: "+err.Error()))
		return
	}
	interval, err := s.datasets.IntervalFor(c.Request.Context(), q.Confidence)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, interval)
}

func (s *Server) handleDatasetReload(c *gin.Context) {
	if s.datasets == nil {
		s.respondError(c, core.ErrNoDataSource)
		return
	}
	s.datasets.Reload()
	c.Status(http.StatusNoContent)
}

func (s *Server) respondError(c *gin.Context, err error) {
	status := errors.HTTPStatus(err)
	code := errors.GetCode(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		s.logger.WithField("request_id", c.GetString(middleware.RequestIDKey)).Error("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		code = errors.CodeInternalError
		message = "internal error"
	}
	c.JSON(status, gin.H{"error": gin.H{"code": code, "message": message}})
}

package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"warkop-survey/internal/domain/model"
	"warkop-survey/internal/usecase"
)

// SurveyHandler exposes the survey pipeline over HTTP.
type SurveyHandler struct {
	surveyUseCase usecase.SurveyUseCase
	defaults      model.SurveyParams
}

// NewSurveyHandler creates a handler whose unset request fields fall back
// to the configured defaults.
func NewSurveyHandler(surveyUseCase usecase.SurveyUseCase, defaults model.SurveyParams) *SurveyHandler {
	return &SurveyHandler{
		surveyUseCase: surveyUseCase,
		defaults:      defaults,
	}
}

// RegisterRoutes wires the handler into the router.
func (h *SurveyHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/api/health", h.Health)

	v1 := router.Group("/api/v1")
	v1.POST("/surveys", h.StartSurvey)
	v1.GET("/surveys/:id", h.GetSurvey)
	v1.GET("/surveys/:id/records", h.GetSurveyRecords)
}

// Health is a liveness probe.
func (h *SurveyHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "warkop-survey"})
}

// startSurveyRequest carries optional per-run overrides; nil fields keep
// the configured defaults.
type startSurveyRequest struct {
	GridCols       *int    `json:"grid_cols"`
	GridRows       *int    `json:"grid_rows"`
	SamplesPerCell *int    `json:"samples_per_cell"`
	RadiusMeters   *int    `json:"radius_meters"`
	Keyword        *string `json:"keyword"`
	Seed           *int64  `json:"seed"`
	Parallel       *bool   `json:"parallel"`
}

// StartSurvey launches a survey run in the background and answers 202 with
// the run ID.
func (h *SurveyHandler) StartSurvey(c *gin.Context) {
	var req startSurveyRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	params := h.defaults
	if req.GridCols != nil {
		params.GridCols = *req.GridCols
	}
	if req.GridRows != nil {
		params.GridRows = *req.GridRows
	}
	if req.SamplesPerCell != nil {
		params.SamplesPerCell = *req.SamplesPerCell
	}
	if req.RadiusMeters != nil {
		params.RadiusMeters = *req.RadiusMeters
	}
	if req.Keyword != nil {
		params.Keyword = *req.Keyword
	}
	if req.Seed != nil {
		params.Seed = *req.Seed
	}
	if req.Parallel != nil {
		params.Parallel = *req.Parallel
	}

	if params.GridCols <= 0 || params.GridRows <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "grid dimensions must be positive"})
		return
	}
	if params.SamplesPerCell < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "samples_per_cell must not be negative"})
		return
	}
	if params.RadiusMeters <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "radius_meters must be positive"})
		return
	}
	if params.Keyword == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "keyword must not be empty"})
		return
	}

	run := h.surveyUseCase.StartSurvey(params)
	c.JSON(http.StatusAccepted, gin.H{
		"survey_id": run.ID,
		"status":    run.Status,
	})
}

// GetSurvey returns a run's status, counts and estimate. The record table
// has its own endpoint.
func (h *SurveyHandler) GetSurvey(c *gin.Context) {
	run, ok := h.surveyUseCase.GetSurvey(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "survey not found"})
		return
	}

	run.Records = nil
	c.JSON(http.StatusOK, run)
}

// GetSurveyRecords returns the deduplicated record table of a run.
func (h *SurveyHandler) GetSurveyRecords(c *gin.Context) {
	run, ok := h.surveyUseCase.GetSurvey(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "survey not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"survey_id": run.ID,
		"status":    run.Status,
		"count":     len(run.Records),
		"records":   run.Records,
	})
}

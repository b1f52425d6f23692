package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/soohyk/learnpath/pkg/extract"
	"github.com/soohyk/learnpath/pkg/llm"
	"github.com/soohyk/learnpath/pkg/logger"
	"github.com/soohyk/learnpath/pkg/pipeline"
)

type handlers struct {
	gen *pipeline.Generator
	log *logger.Logger
}

// topicRequest is the body of all single-topic generation endpoints.
type topicRequest struct {
	Title string `json:"title" binding:"required"`
}

// stepRequest is the body of the step-description endpoint.
type stepRequest struct {
	Topic string `json:"topic" binding:"required"`
	Step  string `json:"step" binding:"required"`
}

func (h *handlers) index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"hello": "world"})
}

func (h *handlers) roadmap(c *gin.Context) {
	h.generate(c, h.gen.BuildRoadmap)
}

func (h *handlers) recommendCourses(c *gin.Context) {
	h.generate(c, h.gen.RecommendCourses)
}

func (h *handlers) recommendProjects(c *gin.Context) {
	h.generate(c, h.gen.RecommendProjects)
}

func (h *handlers) quiz(c *gin.Context) {
	h.generate(c, h.gen.BuildQuiz)
}

// generate is the shared handler body for the JSON use cases: bind the topic,
// run the pipeline, map errors to statuses.
func (h *handlers) generate(c *gin.Context, run func(context.Context, string) (map[string]any, error)) {
	var req topicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	doc, err := run(c.Request.Context(), req.Title)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *handlers) stepDescription(c *gin.Context) {
	var req stepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	description, err := h.gen.DescribeStep(c.Request.Context(), req.Topic, req.Step)
	if err != nil {
		h.writeError(c, err)
		return
	}
	// the description is a bare JSON string, matching the original contract
	c.JSON(http.StatusOK, description)
}

// writeError maps pipeline failures to distinguishable statuses: 503 when the
// model did not answer, 502 when it answered unusably.
func (h *handlers) writeError(c *gin.Context, err error) {
	switch {
	case llm.IsUnavailable(err):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "generation_unavailable"})
	case isExtractionError(err):
		c.JSON(http.StatusBadGateway, gin.H{"error": "extraction_failed"})
	default:
		h.log.Error("unclassified generation error", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
	}
}

func isExtractionError(err error) bool {
	var ee *extract.ExtractionError
	return errors.As(err, &ee)
}

package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soohyk/learnpath/pkg/llm"
	"github.com/soohyk/learnpath/pkg/logger"
	"github.com/soohyk/learnpath/pkg/pipeline"
	"github.com/soohyk/learnpath/pkg/prompt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// scriptedClient returns a fixed reply or error for every request.
type scriptedClient struct {
	text string
	err  error
}

func (s *scriptedClient) Generate(ctx context.Context, req llm.Request) ([]llm.Reply, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []llm.Reply{{Text: s.text}}, nil
}

func newTestRouter(t *testing.T, client llm.Client) *gin.Engine {
	t.Helper()
	reg, err := prompt.BuiltinRegistry()
	require.NoError(t, err)
	gen := pipeline.New(client, reg)
	return NewRouter(gen, logger.NewNop(), []string{"http://localhost:3000"}, nil)
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestIndex(t *testing.T) {
	router := newTestRouter(t, &scriptedClient{text: "{}"})

	w := doJSON(router, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"hello": "world"}`, w.Body.String())
}

func TestRoadmap_Success(t *testing.T) {
	client := &scriptedClient{text: `Here it is: {"topic": "Python", "steps": [{"step": "Syntax", "description": "Learn it"}]}`}
	router := newTestRouter(t, client)

	w := doJSON(router, http.MethodPost, "/roadmap/", `{"title": "Python"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "Python", doc["topic"])
	assert.Len(t, doc["steps"], 1)
}

func TestRoadmap_MissingTitle(t *testing.T) {
	router := newTestRouter(t, &scriptedClient{text: "{}"})

	w := doJSON(router, http.MethodPost, "/roadmap/", `{}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error": "invalid_request"}`, w.Body.String())
}

func TestRoadmap_MalformedBody(t *testing.T) {
	router := newTestRouter(t, &scriptedClient{text: "{}"})

	w := doJSON(router, http.MethodPost, "/roadmap/", `not json`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRoadmap_GenerationUnavailable(t *testing.T) {
	client := &scriptedClient{err: &llm.UnavailableError{Provider: "groq", Err: context.DeadlineExceeded}}
	router := newTestRouter(t, client)

	w := doJSON(router, http.MethodPost, "/roadmap/", `{"title": "Python"}`)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"error": "generation_unavailable"}`, w.Body.String())
}

func TestRoadmap_ExtractionFailed(t *testing.T) {
	client := &scriptedClient{text: "sorry, prose only today"}
	router := newTestRouter(t, client)

	w := doJSON(router, http.MethodPost, "/roadmap/", `{"title": "Python"}`)
	require.Equal(t, http.StatusBadGateway, w.Code)
	assert.JSONEq(t, `{"error": "extraction_failed"}`, w.Body.String())
}

func TestStepDescription(t *testing.T) {
	client := &scriptedClient{text: "Variables hold values your program can change later."}
	router := newTestRouter(t, client)

	w := doJSON(router, http.MethodPost, "/step-description/", `{"topic": "Python", "step": "Variables"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var got string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.NotEmpty(t, got)
	assert.NotContains(t, got, "#")
	assert.NotContains(t, got, "*")
	assert.NotContains(t, got, "`")
}

func TestStepDescription_MissingStep(t *testing.T) {
	router := newTestRouter(t, &scriptedClient{text: "x"})

	w := doJSON(router, http.MethodPost, "/step-description/", `{"topic": "Python"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecommendCourseAndProjectsAndQuizRoutes(t *testing.T) {
	client := &scriptedClient{text: `{"topic": "x", "courses": [], "projects": [], "questions": []}`}
	router := newTestRouter(t, client)

	for _, path := range []string{"/recommend-course/", "/recommend-projects/", "/quiz/"} {
		w := doJSON(router, http.MethodPost, path, `{"title": "Python"}`)
		assert.Equalf(t, http.StatusOK, w.Code, "path %s", path)
	}
}

func TestCORS_PreflightAllowsConfiguredOrigin(t *testing.T) {
	router := newTestRouter(t, &scriptedClient{text: "{}"})

	req := httptest.NewRequest(http.MethodOptions, "/roadmap/", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORS_UnknownOriginGetsNoAllowHeader(t *testing.T) {
	router := newTestRouter(t, &scriptedClient{text: "{}"})

	req := httptest.NewRequest(http.MethodOptions, "/roadmap/", nil)
	req.Header.Set("Origin", "http://evil.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

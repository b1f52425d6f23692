// Package server exposes the generation pipelines over HTTP.
package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/soohyk/learnpath/pkg/logger"
	"github.com/soohyk/learnpath/pkg/pipeline"
)

// NewRouter builds the gin engine with all routes, CORS and middleware wired.
// registry may be nil to skip the /metrics endpoint.
func NewRouter(gen *pipeline.Generator, log *logger.Logger, origins []string, registry *prometheus.Registry) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"*"},
		AllowCredentials: true,
	}))

	h := &handlers{gen: gen, log: log}

	r.GET("/", h.index)
	r.POST("/roadmap/", h.roadmap)
	r.POST("/step-description/", h.stepDescription)
	r.POST("/recommend-course/", h.recommendCourses)
	r.POST("/recommend-projects/", h.recommendProjects)
	r.POST("/quiz/", h.quiz)

	if registry != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	}

	return r
}

package pipeline

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/soohyk/learnpath/pkg/logger"
)

// CourseLinkChecker is an optional post-processing stage for the courses use
// case. It issues one HEAD request per recommended course URL and drops
// entries that are unreachable or answer with an error status. A network
// failure on one URL never aborts validation of the rest.
//
// Not installed by default; wire it with
// pipeline.WithPostProcessor("courses", checker).
type CourseLinkChecker struct {
	client *http.Client
	log    *logger.Logger
}

// NewCourseLinkChecker builds a checker with its own short-timeout HTTP
// client; a nil logger disables logging.
func NewCourseLinkChecker(log *logger.Logger) *CourseLinkChecker {
	if log == nil {
		log = logger.NewNop()
	}
	return &CourseLinkChecker{
		client: &http.Client{Timeout: 5 * time.Second},
		log:    log,
	}
}

// Process filters doc["courses"] down to entries whose URL answers a HEAD
// request with a 2xx or 3xx status. Documents without a courses list pass
// through unchanged.
func (c *CourseLinkChecker) Process(ctx context.Context, doc map[string]any) (map[string]any, error) {
	courses, ok := doc["courses"].([]any)
	if !ok || len(courses) == 0 {
		return doc, nil
	}

	keep := make([]bool, len(courses))
	g, ctx := errgroup.WithContext(ctx)
	for i, entry := range courses {
		course, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		url, ok := course["url"].(string)
		if !ok || url == "" {
			continue
		}
		i := i
		g.Go(func() error {
			keep[i] = c.reachable(ctx, url)
			return nil
		})
	}
	// workers never return errors; Wait only synchronizes
	_ = g.Wait()

	filtered := make([]any, 0, len(courses))
	for i, entry := range courses {
		if keep[i] {
			filtered = append(filtered, entry)
		}
	}
	if dropped := len(courses) - len(filtered); dropped > 0 {
		c.log.Info("dropped unreachable course links", "dropped", dropped, "kept", len(filtered))
	}

	doc["courses"] = filtered
	return doc, nil
}

func (c *CourseLinkChecker) reachable(ctx context.Context, url string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode < 400
}

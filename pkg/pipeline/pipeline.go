// Package pipeline wires prompt rendering, LLM invocation and JSON extraction
// into one generation path per use case.
package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/soohyk/learnpath/pkg/extract"
	"github.com/soohyk/learnpath/pkg/llm"
	"github.com/soohyk/learnpath/pkg/logger"
	"github.com/soohyk/learnpath/pkg/metrics"
	"github.com/soohyk/learnpath/pkg/prompt"
	"github.com/soohyk/learnpath/pkg/trace"
)

// UseCase describes one generation path declaratively: which template to
// render, the token/temperature budget for the call, and the top-level key
// the advisory schema puts the generated list under.
type UseCase struct {
	Name        string
	Template    string
	ResultKey   string
	System      string
	MaxTokens   int
	Temperature float32
}

// The four JSON use cases share one code path; only this table differs.
var (
	RoadmapUseCase  = UseCase{Name: "roadmap", Template: prompt.TemplateRoadmap, ResultKey: "steps", MaxTokens: 2000}
	CoursesUseCase  = UseCase{Name: "courses", Template: prompt.TemplateCourses, ResultKey: "courses", MaxTokens: 2000}
	ProjectsUseCase = UseCase{Name: "projects", Template: prompt.TemplateProjects, ResultKey: "projects", MaxTokens: 2000}
	QuizUseCase     = UseCase{Name: "quiz", Template: prompt.TemplateQuiz, ResultKey: "questions", MaxTokens: 2000}

	// step description is prose, not JSON: deterministic, short, system-framed
	describeUseCase = UseCase{
		Name:        "step_description",
		Template:    prompt.TemplateStepDescription,
		System:      prompt.StepDescriptionSystemRole,
		MaxTokens:   200,
		Temperature: 0,
	}
)

// PostProcessor transforms an extracted document before it is returned. The
// course link checker is the only current implementation.
type PostProcessor interface {
	Process(ctx context.Context, doc map[string]any) (map[string]any, error)
}

// Generator runs generation pipelines. It holds no per-request state and is
// safe for concurrent use; every run is independent.
type Generator struct {
	client  llm.Client
	reg     *prompt.Registry
	metrics metrics.Collector
	trace   trace.Exporter
	log     *logger.Logger
	post    map[string]PostProcessor
}

// Option configures a Generator.
type Option func(*Generator)

// WithMetrics sets the metrics collector (default: noop).
func WithMetrics(c metrics.Collector) Option {
	return func(g *Generator) { g.metrics = c }
}

// WithTrace sets the trace exporter (default: noop).
func WithTrace(e trace.Exporter) Option {
	return func(g *Generator) { g.trace = e }
}

// WithLogger sets the logger (default: discard).
func WithLogger(l *logger.Logger) Option {
	return func(g *Generator) { g.log = l }
}

// WithPostProcessor installs a post-processing stage for one use case.
func WithPostProcessor(useCase string, p PostProcessor) Option {
	return func(g *Generator) { g.post[useCase] = p }
}

// New creates a Generator over the given LLM client and template registry.
func New(client llm.Client, reg *prompt.Registry, opts ...Option) *Generator {
	g := &Generator{
		client:  client,
		reg:     reg,
		metrics: metrics.NewNoopCollector(),
		log:     logger.NewNop(),
		post:    make(map[string]PostProcessor),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// BuildRoadmap generates a 6-8 step learning roadmap for the topic.
func (g *Generator) BuildRoadmap(ctx context.Context, topic string) (map[string]any, error) {
	return g.run(ctx, RoadmapUseCase, map[string]string{"topic": topic})
}

// RecommendCourses generates course recommendations for the topic.
func (g *Generator) RecommendCourses(ctx context.Context, topic string) (map[string]any, error) {
	return g.run(ctx, CoursesUseCase, map[string]string{"topic": topic})
}

// RecommendProjects generates practice project recommendations for the topic.
func (g *Generator) RecommendProjects(ctx context.Context, topic string) (map[string]any, error) {
	return g.run(ctx, ProjectsUseCase, map[string]string{"topic": topic})
}

// BuildQuiz generates a five-question quiz for the topic.
func (g *Generator) BuildQuiz(ctx context.Context, topic string) (map[string]any, error) {
	return g.run(ctx, QuizUseCase, map[string]string{"topic": topic})
}

// run is the shared JSON pipeline: render -> generate -> extract ->
// optional post-process. Failures propagate unchanged; the only recovery
// anywhere is the strict->tolerant parse inside extract.
func (g *Generator) run(ctx context.Context, uc UseCase, vars map[string]string) (map[string]any, error) {
	r := g.begin(uc)

	var rendered string
	err := r.stage(ctx, "render", func() error {
		tpl, err := g.reg.Get(uc.Template)
		if err != nil {
			return err
		}
		rendered, err = prompt.Render(tpl, vars)
		return err
	})
	if err != nil {
		return nil, r.finish(ctx, err)
	}

	var replies []llm.Reply
	err = r.stage(ctx, "generate", func() error {
		var err error
		replies, err = g.client.Generate(ctx, llm.Request{
			Prompt:      rendered,
			System:      uc.System,
			MaxTokens:   uc.MaxTokens,
			Temperature: uc.Temperature,
		})
		return err
	})
	if err != nil {
		return nil, r.finish(ctx, err)
	}

	var doc map[string]any
	err = r.stage(ctx, "extract", func() error {
		var repaired bool
		var err error
		doc, repaired, err = extract.Extract(replies)
		if repaired {
			g.metrics.RecordRepair(ctx, uc.Name)
			g.log.Warn("reply needed tolerant repair parse", "use_case", uc.Name, "operation_id", r.opID)
		}
		return err
	})
	if err != nil {
		return nil, r.finish(ctx, err)
	}

	if p, ok := g.post[uc.Name]; ok {
		err = r.stage(ctx, "postprocess", func() error {
			var err error
			doc, err = p.Process(ctx, doc)
			return err
		})
		if err != nil {
			return nil, r.finish(ctx, err)
		}
	}

	return doc, r.finish(ctx, nil)
}

// DescribeStep generates a short prose description of one roadmap step. It
// skips extraction entirely and returns the reply text with markdown
// characters stripped.
func (g *Generator) DescribeStep(ctx context.Context, topic, step string) (string, error) {
	uc := describeUseCase
	r := g.begin(uc)

	var rendered string
	err := r.stage(ctx, "render", func() error {
		tpl, err := g.reg.Get(uc.Template)
		if err != nil {
			return err
		}
		rendered, err = prompt.Render(tpl, map[string]string{"topic": topic, "step": step})
		return err
	})
	if err != nil {
		return "", r.finish(ctx, err)
	}

	var replies []llm.Reply
	err = r.stage(ctx, "generate", func() error {
		var err error
		replies, err = g.client.Generate(ctx, llm.Request{
			Prompt:      rendered,
			System:      uc.System,
			MaxTokens:   uc.MaxTokens,
			Temperature: uc.Temperature,
		})
		return err
	})
	if err != nil {
		return "", r.finish(ctx, err)
	}

	var b strings.Builder
	for _, reply := range replies {
		b.WriteString(reply.Text)
	}
	return stripMarkdown(b.String()), r.finish(ctx, nil)
}

// markdownStripper removes the markup models sneak into "plain text only"
// answers.
var markdownStripper = strings.NewReplacer(
	"```", "",
	"`", "",
	"**", "",
	"*", "",
	"#", "",
)

func stripMarkdown(s string) string {
	return strings.TrimSpace(markdownStripper.Replace(s))
}

// runRecorder accumulates spans for one run and reports the outcome to
// metrics, trace and the log exactly once.
type runRecorder struct {
	g     *Generator
	uc    UseCase
	opID  string
	start time.Time
	spans []trace.SpanRecord
}

func (g *Generator) begin(uc UseCase) *runRecorder {
	return &runRecorder{
		g:     g,
		uc:    uc,
		opID:  uuid.NewString(),
		start: time.Now(),
	}
}

func (r *runRecorder) stage(ctx context.Context, name string, fn func() error) error {
	t0 := time.Now()
	err := fn()
	ms := time.Since(t0).Milliseconds()
	r.g.metrics.RecordStage(ctx, r.uc.Name, name, ms)
	r.spans = append(r.spans, trace.SpanRecord{
		Name:       name,
		DurationMs: ms,
		OK:         err == nil,
		ErrorType:  Classify(err),
	})
	return err
}

// finish records the run outcome and returns err unchanged for propagation.
func (r *runRecorder) finish(ctx context.Context, err error) error {
	durationMs := time.Since(r.start).Milliseconds()
	status := "success"
	if err != nil {
		status = "error"
		r.g.metrics.RecordError(ctx, r.uc.Name, Classify(err))
	}
	r.g.metrics.RecordGeneration(ctx, r.uc.Name, status, durationMs)

	if r.g.trace != nil {
		record := &trace.TraceRecord{
			Timestamp:   r.start,
			OperationID: r.opID,
			UseCase:     r.uc.Name,
			DurationMs:  durationMs,
			Status:      status,
			Spans:       r.spans,
			ErrorType:   Classify(err),
		}
		if exportErr := r.g.trace.Export(ctx, record); exportErr != nil {
			r.g.log.Warn("trace export failed", "error", exportErr)
		}
	}

	if err != nil {
		r.g.log.Error("generation failed",
			"use_case", r.uc.Name, "operation_id", r.opID,
			"duration_ms", durationMs, "error_type", Classify(err), "error", err)
	} else {
		r.g.log.Info("generation complete",
			"use_case", r.uc.Name, "operation_id", r.opID, "duration_ms", durationMs)
	}
	return err
}

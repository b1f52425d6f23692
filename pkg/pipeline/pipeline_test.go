package pipeline

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/soohyk/learnpath/pkg/extract"
	"github.com/soohyk/learnpath/pkg/llm"
	"github.com/soohyk/learnpath/pkg/prompt"
)

// fakeClient is a test implementation of llm.Client
type fakeClient struct {
	replies        []llm.Reply
	err            error
	captureRequest func(llm.Request) // optional callback
	respond        func(llm.Request) []llm.Reply
}

func (f *fakeClient) Generate(ctx context.Context, req llm.Request) ([]llm.Reply, error) {
	if f.captureRequest != nil {
		f.captureRequest(req)
	}
	if f.err != nil {
		return nil, f.err
	}
	if f.respond != nil {
		return f.respond(req), nil
	}
	return f.replies, nil
}

// recordingCollector counts metric calls for assertions
type recordingCollector struct {
	mu          sync.Mutex
	generations map[string]int // useCase/status
	repairs     int
	errorTypes  []string
}

func newRecordingCollector() *recordingCollector {
	return &recordingCollector{generations: make(map[string]int)}
}

func (r *recordingCollector) RecordGeneration(_ context.Context, useCase, status string, _ int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.generations[useCase+"/"+status]++
}

func (r *recordingCollector) RecordStage(_ context.Context, _, _ string, _ int64) {}

func (r *recordingCollector) RecordError(_ context.Context, _, errorType string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errorTypes = append(r.errorTypes, errorType)
}

func (r *recordingCollector) RecordRepair(_ context.Context, _ string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.repairs++
}

func mustRegistry(t *testing.T) *prompt.Registry {
	t.Helper()
	reg, err := prompt.BuiltinRegistry()
	if err != nil {
		t.Fatalf("BuiltinRegistry failed: %v", err)
	}
	return reg
}

func TestBuildRoadmap_Success(t *testing.T) {
	roadmap := `{"topic": "Python is popular", "steps": [
		{"step": "Syntax", "description": "Learn basic syntax"},
		{"step": "Data structures", "description": "Lists, dicts, sets"},
		{"step": "Functions", "description": "Define and call functions"},
		{"step": "OOP", "description": "Classes and objects"},
		{"step": "Stdlib", "description": "Use the standard library"},
		{"step": "Projects", "description": "Build something real"}
	]}`

	var captured llm.Request
	fake := &fakeClient{
		replies:        []llm.Reply{{Text: "Sure! Here you go:\n" + roadmap}},
		captureRequest: func(req llm.Request) { captured = req },
	}
	gen := New(fake, mustRegistry(t))

	doc, err := gen.BuildRoadmap(context.Background(), "Python")
	if err != nil {
		t.Fatalf("BuildRoadmap failed: %v", err)
	}

	steps, ok := doc["steps"].([]any)
	if !ok {
		t.Fatalf("expected steps list, got %T", doc["steps"])
	}
	if len(steps) < 6 || len(steps) > 8 {
		t.Errorf("expected 6-8 steps, got %d", len(steps))
	}
	for i, raw := range steps {
		step, ok := raw.(map[string]any)
		if !ok {
			t.Fatalf("step %d is not an object", i)
		}
		if step["step"] == "" || step["description"] == "" {
			t.Errorf("step %d has empty fields: %v", i, step)
		}
	}

	if !strings.Contains(captured.Prompt, `"Python"`) {
		t.Error("rendered prompt should contain the topic")
	}
	if captured.System != "" {
		t.Error("JSON use cases send no system role")
	}
	if captured.MaxTokens != 2000 {
		t.Errorf("expected 2000 max tokens, got %d", captured.MaxTokens)
	}
}

func TestBuildQuiz_UsesQuizTemplate(t *testing.T) {
	var captured llm.Request
	fake := &fakeClient{
		replies:        []llm.Reply{{Text: `{"topic": "x", "questions": []}`}},
		captureRequest: func(req llm.Request) { captured = req },
	}
	gen := New(fake, mustRegistry(t))

	if _, err := gen.BuildQuiz(context.Background(), "Go"); err != nil {
		t.Fatalf("BuildQuiz failed: %v", err)
	}
	if !strings.Contains(captured.Prompt, "5 questions") {
		t.Error("quiz prompt should ask for 5 questions")
	}
}

func TestRun_RecordsRepair(t *testing.T) {
	collector := newRecordingCollector()
	fake := &fakeClient{replies: []llm.Reply{{Text: `{"topic": "x", "steps": [],}`}}}
	gen := New(fake, mustRegistry(t), WithMetrics(collector))

	if _, err := gen.BuildRoadmap(context.Background(), "Python"); err != nil {
		t.Fatalf("BuildRoadmap failed: %v", err)
	}
	if collector.repairs != 1 {
		t.Errorf("expected 1 recorded repair, got %d", collector.repairs)
	}
	if collector.generations["roadmap/success"] != 1 {
		t.Errorf("expected roadmap/success=1, got %v", collector.generations)
	}
}

func TestRun_UnavailablePropagatesUnchanged(t *testing.T) {
	collector := newRecordingCollector()
	cause := &llm.UnavailableError{Provider: "groq", Err: errors.New("connection refused")}
	fake := &fakeClient{err: cause}
	gen := New(fake, mustRegistry(t), WithMetrics(collector))

	_, err := gen.RecommendCourses(context.Background(), "Python")
	if !llm.IsUnavailable(err) {
		t.Fatalf("expected UnavailableError, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Error("error must propagate unchanged, not wrapped into something else")
	}
	if len(collector.errorTypes) != 1 || collector.errorTypes[0] != ErrTypeUnavailable {
		t.Errorf("expected one unavailable error recorded, got %v", collector.errorTypes)
	}
}

func TestRun_ProseOnlyReplyIsExtractionFailure(t *testing.T) {
	fake := &fakeClient{replies: []llm.Reply{{Text: "I'd rather write an essay about it."}}}
	gen := New(fake, mustRegistry(t))

	_, err := gen.RecommendProjects(context.Background(), "Python")
	var ee *extract.ExtractionError
	if !errors.As(err, &ee) {
		t.Fatalf("expected ExtractionError, got %v", err)
	}
}

func TestDescribeStep_StripsMarkdown(t *testing.T) {
	var captured llm.Request
	fake := &fakeClient{
		replies:        []llm.Reply{{Text: "# Variables\nVariables hold *values* in `Python`."}},
		captureRequest: func(req llm.Request) { captured = req },
	}
	gen := New(fake, mustRegistry(t))

	got, err := gen.DescribeStep(context.Background(), "Python", "Variables")
	if err != nil {
		t.Fatalf("DescribeStep failed: %v", err)
	}
	if got == "" {
		t.Fatal("expected a non-empty description")
	}
	for _, banned := range []string{"#", "*", "`"} {
		if strings.Contains(got, banned) {
			t.Errorf("description should contain no markdown, found %q in %q", banned, got)
		}
	}

	if captured.System == "" {
		t.Error("step description should send a system role")
	}
	if captured.MaxTokens != 200 {
		t.Errorf("expected 200 max tokens, got %d", captured.MaxTokens)
	}
	if captured.Temperature != 0 {
		t.Errorf("expected temperature 0, got %f", captured.Temperature)
	}
	if !strings.Contains(captured.Prompt, "Variables") {
		t.Error("rendered prompt should contain the step")
	}
}

var topicPattern = regexp.MustCompile(`"([^"]+)" *, create a learning roadmap`)

func TestRun_ConcurrentRequestsDoNotInterfere(t *testing.T) {
	// echo the topic from the rendered prompt back in the reply, so any
	// cross-request state leakage shows up as a mismatched result
	fake := &fakeClient{
		respond: func(req llm.Request) []llm.Reply {
			m := topicPattern.FindStringSubmatch(req.Prompt)
			if m == nil {
				return []llm.Reply{{Text: "no topic found"}}
			}
			return []llm.Reply{{Text: fmt.Sprintf(`{"topic": %q, "steps": []}`, m[1])}}
		},
	}
	gen := New(fake, mustRegistry(t))

	const workers = 16
	var wg sync.WaitGroup
	results := make([]map[string]any, workers)
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			topic := fmt.Sprintf("topic-%d", i)
			results[i], errs[i] = gen.BuildRoadmap(context.Background(), topic)
		}()
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		if errs[i] != nil {
			t.Fatalf("worker %d failed: %v", i, errs[i])
		}
		want := fmt.Sprintf("topic-%d", i)
		if results[i]["topic"] != want {
			t.Errorf("worker %d got topic %v, want %s", i, results[i]["topic"], want)
		}
	}
}

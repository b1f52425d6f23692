// Package extract recovers a JSON document from free-form LLM reply text.
//
// Models are prompted to answer with JSON only, but in practice they wrap the
// payload in prose, markdown fences, or emit near-JSON with trailing commas
// and unquoted keys. Extract locates the JSON-looking span, tries a strict
// parse, and falls back to a tolerant repair parse before giving up.
package extract

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/soohyk/learnpath/pkg/llm"
)

// ExtractionError indicates the reply contained no JSON-looking content, or
// that both the strict and tolerant parses failed. Snippet carries (a bounded
// slice of) the offending window for diagnostics.
type ExtractionError struct {
	Reason  string
	Snippet string
}

func (e *ExtractionError) Error() string {
	if e.Snippet == "" {
		return "extraction failed: " + e.Reason
	}
	return fmt.Sprintf("extraction failed: %s (near %q)", e.Reason, e.Snippet)
}

const snippetLimit = 120

// Extract concatenates the reply fragments, cuts the span from the first
// opening brace/bracket through the last closing one, and parses it: strict
// first, tolerant repair second. A top-level list is collapsed to its first
// element (lossy, by long-standing contract with the prompts); an empty list
// or a non-mapping result is a failure.
//
// The repaired return reports whether the tolerant parse was needed.
// No schema validation is performed on the result.
func Extract(replies []llm.Reply) (map[string]any, bool, error) {
	var b strings.Builder
	for _, reply := range replies {
		b.WriteString(reply.Text)
	}
	combined := b.String()

	window, err := jsonWindow(combined)
	if err != nil {
		return nil, false, err
	}

	repaired := false
	var value any
	if uerr := json.Unmarshal([]byte(window), &value); uerr != nil {
		repaired = true
		if uerr2 := json.Unmarshal([]byte(Repair(window)), &value); uerr2 != nil {
			return nil, true, &ExtractionError{
				Reason:  "strict and tolerant parses both failed",
				Snippet: snippet(window),
			}
		}
	}

	doc, err := normalize(value, window)
	if err != nil {
		return nil, repaired, err
	}
	return doc, repaired, nil
}

// jsonWindow returns the substring from the earliest '{' or '[' through one
// past the latest '}' or ']'. Everything between the outermost markers is
// kept, including interior prose; that trade-off tolerates commentary around
// the JSON but not inside it. When no closer follows the opener the window
// runs to the end of the string so truncated output still reaches the repair
// stage.
func jsonWindow(s string) (string, error) {
	first := earliest(strings.IndexByte(s, '{'), strings.IndexByte(s, '['))
	if first < 0 {
		return "", &ExtractionError{Reason: "no JSON object or array found", Snippet: snippet(s)}
	}

	last := max(strings.LastIndexByte(s, '}'), strings.LastIndexByte(s, ']'))
	if last < first {
		return s[first:], nil
	}
	return s[first : last+1], nil
}

// earliest returns the smaller of two byte indexes, ignoring -1.
func earliest(a, b int) int {
	switch {
	case a < 0:
		return b
	case b < 0:
		return a
	case a < b:
		return a
	default:
		return b
	}
}

// normalize enforces the mapping invariant: a top-level list collapses to its
// first element.
func normalize(value any, window string) (map[string]any, error) {
	switch doc := value.(type) {
	case map[string]any:
		return doc, nil
	case []any:
		if len(doc) == 0 {
			return nil, &ExtractionError{Reason: "top-level list is empty", Snippet: snippet(window)}
		}
		first, ok := doc[0].(map[string]any)
		if !ok {
			return nil, &ExtractionError{Reason: "first element of top-level list is not an object", Snippet: snippet(window)}
		}
		return first, nil
	default:
		return nil, &ExtractionError{Reason: "parsed value is neither object nor list", Snippet: snippet(window)}
	}
}

func snippet(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > snippetLimit {
		return s[:snippetLimit]
	}
	return s
}

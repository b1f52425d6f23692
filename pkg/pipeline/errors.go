package pipeline

import (
	"errors"

	"github.com/soohyk/learnpath/pkg/extract"
	"github.com/soohyk/learnpath/pkg/llm"
	"github.com/soohyk/learnpath/pkg/prompt"
)

// Error type constants for classification
const (
	ErrTypeConfig      = "config"
	ErrTypeUnavailable = "unavailable"
	ErrTypeExtraction  = "extraction"
	ErrTypeUnknown     = "unknown"
)

// Classify inspects an error and returns its type classification. This
// enables grouping errors by category in metrics and traces, and lets the
// HTTP layer tell "the model did not answer" apart from "the model answered
// but unusably".
func Classify(err error) string {
	if err == nil {
		return ""
	}

	if llm.IsUnavailable(err) {
		return ErrTypeUnavailable
	}

	var extractionErr *extract.ExtractionError
	if errors.As(err, &extractionErr) {
		return ErrTypeExtraction
	}

	var templateErr *prompt.TemplateError
	if errors.As(err, &templateErr) {
		return ErrTypeConfig
	}

	return ErrTypeUnknown
}

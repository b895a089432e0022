// Package enhance orchestrates the extraction and synthesis layers: it
// feeds raw per-test output through the engine, attaches failure records to
// failed results, and tracks aggregate parsing statistics.
package enhance

import (
	"errors"
	"strings"
	"time"

	"github.com/failparse/failparse/internal/extract"
	"github.com/failparse/failparse/internal/synth"
	"github.com/failparse/failparse/pkg/models"
)

// Contract violations at the orchestration boundary. Everything below this
// boundary degrades to the fallback record instead of erroring.
var (
	ErrMissingResults = errors.New("results array is required")
	ErrSingleResult   = errors.New("exactly one result is required per update")
	ErrMissingID      = errors.New("result id is required")
)

// Engine is the stateless parsing service: extraction plus synthesis. It is
// constructed explicitly and injected wherever parsing is needed; calls may
// run concurrently without locking.
type Engine struct {
	extractor   *extract.Extractor
	synthesizer *synth.Synthesizer
}

// NewEngine returns an Engine.
func NewEngine() *Engine {
	return &Engine{
		extractor:   extract.New(),
		synthesizer: synth.New(),
	}
}

// Parse runs the full pipeline on one blob of raw output. ok is false when
// the input is empty or the evidence fails the acceptance policy.
func (e *Engine) Parse(raw string) (*models.Failure, bool) {
	if strings.TrimSpace(raw) == "" {
		return nil, false
	}
	ex := e.extractor.Extract(raw)
	return e.synthesizer.Synthesize(ex, raw)
}

// Enhancer attaches failure records to test results.
type Enhancer struct {
	engine *Engine
	now    func() time.Time
}

// NewEnhancer returns an Enhancer using the given engine.
func NewEnhancer(engine *Engine) *Enhancer {
	return &Enhancer{engine: engine, now: time.Now}
}

// EnhanceResult attaches a failure record iff the result failed. Passed and
// in-flight results are left untouched. Every failed result gets a record:
// when parsing declines, the fallback record with confidence "none" makes
// the uncertainty explicit.
func (en *Enhancer) EnhanceResult(r *models.TestResult) {
	if r.Status != models.StatusFailed {
		return
	}

	raw := r.RawOutput
	if raw == "" {
		raw = r.Logs
	}

	failure, ok := en.engine.Parse(raw)
	if !ok {
		failure = models.FallbackFailure()
	}
	r.Failure = failure

	now := en.now()
	r.ProcessedAt = &now
}

// ProcessBatch enhances every result in the batch and reports parsing
// statistics over the failed ones.
func (en *Enhancer) ProcessBatch(req models.BatchRequest) (*models.BatchResponse, error) {
	if req.Results == nil {
		return nil, ErrMissingResults
	}

	resp := &models.BatchResponse{
		RequestID: req.RequestID,
		Results:   make([]models.TestResult, len(req.Results)),
	}

	for i := range req.Results {
		r := req.Results[i]
		en.EnhanceResult(&r)
		resp.Results[i] = r

		if r.Status == models.StatusFailed {
			resp.ParsingStats.Attempted++
			if r.Failure.Parsed() {
				resp.ParsingStats.Parsed++
			}
		}
	}

	resp.ParsingStats.SuccessRate = models.Rate(resp.ParsingStats.Attempted, resp.ParsingStats.Parsed)
	return resp, nil
}

// Merge re-runs the heuristic engine over raw output and folds the result
// into an existing record. Records from an authoritative structured source
// at high confidence pass through unchanged. Otherwise heuristic fields
// fill gaps only: originally non-empty fields always win. The merge is
// idempotent aside from the enhancement timestamp.
func (en *Enhancer) Merge(existing *models.Failure, raw string) *models.Failure {
	if existing != nil &&
		existing.ParsingSource == models.SourceStructured &&
		existing.ParsingConfidence == models.ConfidenceHigh {
		return existing
	}

	parsed, ok := en.engine.Parse(raw)
	if !ok {
		parsed = models.FallbackFailure()
	}
	if existing == nil {
		existing = models.FallbackFailure()
	}

	merged := mergeFailure(existing, parsed)
	merged.Enhanced = true
	now := en.now()
	merged.EnhancedAt = &now
	return merged
}

// mergeFailure merges by field group with explicit precedence: the prior
// record wins wherever it carries data, the heuristic record fills gaps.
func mergeFailure(prior, heuristic *models.Failure) *models.Failure {
	out := *prior

	// Location group moves as a unit so a heuristic line never lands on a
	// prior file.
	if out.File == "" {
		out.File = heuristic.File
		out.Line = heuristic.Line
		out.Column = heuristic.Column
	}

	if out.Type == "" || out.Type == "TestFailure" {
		out.Type = heuristic.Type
	}
	if out.Method == "" {
		out.Method = heuristic.Method
	}
	if out.Class == "" {
		out.Class = heuristic.Class
	}
	if out.RawError == "" {
		out.RawError = heuristic.RawError
	}
	if out.Message == "" || out.Message == "Test execution failed" {
		out.Message = heuristic.Message
	}

	// Assertion group.
	if !out.Assertion.Available {
		out.Assertion = heuristic.Assertion
	}

	// Framework info group.
	if out.Framework == "" || out.Framework == models.FrameworkGeneric {
		out.Framework = heuristic.Framework
	}
	if out.Category == "" || out.Category == models.CategoryGeneral {
		out.Category = heuristic.Category
	}

	if !out.ParsingConfidence.AtLeast(heuristic.ParsingConfidence) {
		out.ParsingConfidence = heuristic.ParsingConfidence
		out.ParsingSource = heuristic.ParsingSource
	}
	if out.Extracted == nil {
		out.Extracted = heuristic.Extracted
	}

	return &out
}

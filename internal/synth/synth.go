package synth

import (
	"fmt"
	"strings"

	"github.com/failparse/failparse/internal/extract"
	"github.com/failparse/failparse/pkg/models"
)

// Synthesizer assembles failure records from extractions. It is stateless
// and safe for concurrent use.
type Synthesizer struct{}

// New returns a Synthesizer.
func New() *Synthesizer {
	return &Synthesizer{}
}

// Synthesize decides whether the extracted evidence supports a diagnosis
// and, if so, builds exactly one failure record. ok is false when the
// evidence fails the acceptance policy; the caller substitutes the fallback
// record in that case.
func (s *Synthesizer) Synthesize(ex *models.Extraction, raw string) (f *models.Failure, ok bool) {
	if ex == nil || !accept(ex) {
		return nil, false
	}

	f = &models.Failure{
		ParsingSource:     models.SourceRawOutput,
		ParsingConfidence: Score(ex),
		Framework:         ex.Framework,
		RawError:          extract.Sanitize(raw),
		Extracted:         ex,
	}

	if loc := bestLocation(ex.Locations); loc != nil {
		f.File = loc.File
		f.Line = loc.Line
		f.Column = loc.Column
	}
	if len(ex.Methods) > 0 {
		f.Method = ex.Methods[0].Name
	}
	if len(ex.Classes) > 0 {
		f.Class = ex.Classes[0].Name
	}

	if len(ex.Exceptions) > 0 {
		f.Type = ex.Exceptions[0].Name
	} else {
		f.Type = inferredType(ex.Framework)
	}

	f.Assertion = buildAssertion(ex)
	f.Category = categorize(f.Type)
	f.Message = buildMessage(f)

	return f, true
}

// accept implements the acceptance policy: a single high-confidence
// location, exception, or comparison is independently sufficient; otherwise
// at least two of {location, exception, assertion} must be present so that
// one weak incidental signal is never reported as a diagnosis.
func accept(ex *models.Extraction) bool {
	if hasHighLocation(ex.Locations) || hasHighException(ex.Exceptions) || hasHighComparison(ex.Comparisons) {
		return true
	}
	signals := 0
	if len(ex.Locations) > 0 {
		signals++
	}
	if len(ex.Exceptions) > 0 {
		signals++
	}
	if len(ex.Comparisons) > 0 || len(ex.Expressions) > 0 {
		signals++
	}
	return signals >= 2
}

func hasHighLocation(in []models.Location) bool {
	return len(in) > 0 && in[0].Grade == models.GradeHigh
}

func hasHighException(in []models.Exception) bool {
	return len(in) > 0 && in[0].Grade == models.GradeHigh
}

func hasHighComparison(in []models.Comparison) bool {
	return len(in) > 0 && in[0].Grade == models.GradeHigh
}

// bestLocation returns the first high-grade location, else the first of any
// grade. Candidate lists arrive best first, so this is the head.
func bestLocation(in []models.Location) *models.Location {
	if len(in) == 0 {
		return nil
	}
	return &in[0]
}

// inferredType names the failure when no exception name was extracted.
var frameworkTypes = map[models.Framework]string{
	models.FrameworkPytest:     "AssertionError",
	models.FrameworkSelenium:   "WebDriverException",
	models.FrameworkJavaScript: "Error",
	models.FrameworkJava:       "Exception",
}

func inferredType(fw models.Framework) string {
	if t, ok := frameworkTypes[fw]; ok {
		return t
	}
	return "TestFailure"
}

// buildAssertion picks the first applicable assertion source: a decomposed
// comparison, paired Expected/Actual lines, a bare expression, or nothing.
func buildAssertion(ex *models.Extraction) models.Assertion {
	if len(ex.Comparisons) > 0 {
		cmp := ex.Comparisons[0]
		return models.Assertion{
			Available:  true,
			Expected:   cmp.Right,
			Actual:     cmp.Left,
			Operator:   cmp.Operator,
			Expression: cmp.Left + " " + cmp.Operator + " " + cmp.Right,
		}
	}
	if len(ex.ExpectedValues) > 0 && len(ex.ActualValues) > 0 {
		return models.Assertion{
			Available: true,
			Expected:  ex.ExpectedValues[0],
			Actual:    ex.ActualValues[0],
			Operator:  "==",
		}
	}
	if len(ex.Expressions) > 0 {
		return models.Assertion{
			Available:  true,
			Expression: ex.Expressions[0].Text,
		}
	}
	return models.Assertion{Available: false}
}

// categoryKeywords buckets failures by substrings of the lower-cased
// exception name. Order matters: NoSuchElementException must land in
// element, not missing.
var categoryKeywords = []struct {
	category models.FailureCategory
	keys     []string
}{
	{models.CategoryAssertion, []string{"assert", "comparisonfailure"}},
	{models.CategoryTimeout, []string{"timeout", "timedout"}},
	{models.CategoryElement, []string{"element", "locator", "selector", "stale"}},
	{models.CategoryNetwork, []string{"network", "connection", "socket", "econnrefused", "dns"}},
	{models.CategoryPermission, []string{"permission", "denied", "forbidden", "unauthorized"}},
	{models.CategoryMissing, []string{"notfound", "nosuch", "missing", "modulenotfound", "import", "keyerror", "attributeerror", "filenot"}},
}

func categorize(failureType string) models.FailureCategory {
	lower := strings.ToLower(failureType)
	for _, entry := range categoryKeywords {
		for _, key := range entry.keys {
			if strings.Contains(lower, key) {
				return entry.category
			}
		}
	}
	return models.CategoryGeneral
}

// categoryMessages are the canned sentences used when no assertion detail
// is available.
var categoryMessages = map[models.FailureCategory]string{
	models.CategoryAssertion:  "An assertion failed",
	models.CategoryTimeout:    "Operation timed out while waiting for a condition",
	models.CategoryElement:    "A required page element could not be found or interacted with",
	models.CategoryNetwork:    "A network error occurred during test execution",
	models.CategoryPermission: "The test was denied access to a required resource",
	models.CategoryMissing:    "A required value or resource was missing",
}

// buildMessage synthesizes the human-readable message: decomposed assertion
// first, then bare expression, then the canned category sentence, then a
// generic line naming the failure type.
func buildMessage(f *models.Failure) string {
	a := f.Assertion
	if a.Available && a.Expected != "" && a.Actual != "" {
		if a.Operator == "==" || a.Operator == "" {
			return fmt.Sprintf("Expected %s, got %s", a.Expected, a.Actual)
		}
		return fmt.Sprintf("Assertion failed: %s %s %s", a.Actual, a.Operator, a.Expected)
	}
	if a.Available && a.Expression != "" {
		return "Assertion failed: " + a.Expression
	}
	if msg, ok := categoryMessages[f.Category]; ok {
		return msg
	}
	return "Test failed with " + f.Type
}

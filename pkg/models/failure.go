package models

import (
	"strconv"
	"time"
)

// Grade is the per-candidate quality estimate assigned at extraction time.
type Grade string

const (
	GradeHigh   Grade = "high"
	GradeMedium Grade = "medium"
	GradeLow    Grade = "low"
)

// Confidence is the overall parsing confidence on a synthesized failure.
type Confidence string

const (
	ConfidenceNone   Confidence = "none"
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// rank orders confidence labels for comparisons.
func (c Confidence) rank() int {
	switch c {
	case ConfidenceHigh:
		return 3
	case ConfidenceMedium:
		return 2
	case ConfidenceLow:
		return 1
	default:
		return 0
	}
}

// AtLeast reports whether c is at least as strong as other.
func (c Confidence) AtLeast(other Confidence) bool {
	return c.rank() >= other.rank()
}

// Framework identifies the test framework guessed from raw output.
type Framework string

const (
	FrameworkPytest     Framework = "pytest"
	FrameworkSelenium   Framework = "selenium"
	FrameworkJavaScript Framework = "javascript"
	FrameworkJava       Framework = "java"
	FrameworkGeneric    Framework = "generic"
)

// FailureCategory buckets a failure by the kind of problem it describes.
type FailureCategory string

const (
	CategoryAssertion  FailureCategory = "assertion"
	CategoryTimeout    FailureCategory = "timeout"
	CategoryElement    FailureCategory = "element"
	CategoryNetwork    FailureCategory = "network"
	CategoryPermission FailureCategory = "permission"
	CategoryMissing    FailureCategory = "missing"
	CategoryGeneral    FailureCategory = "general"
)

// Parsing sources recorded on a failure record.
const (
	SourceRawOutput  = "raw_output"
	SourceFallback   = "fallback"
	SourceStructured = "structured"
)

// Location is a candidate source location extracted from raw output.
type Location struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column,omitempty"`
	Grade  Grade  `json:"grade"`
}

// Key is the dedup identity for a location.
func (l Location) Key() string {
	return l.File + ":" + strconv.Itoa(l.Line)
}

// Exception is a candidate error or exception name.
type Exception struct {
	Name      string `json:"name"`
	Namespace string `json:"namespace,omitempty"`
	Message   string `json:"message,omitempty"`
	Grade     Grade  `json:"grade"`
}

// Symbol is a candidate method or class name.
type Symbol struct {
	Name  string `json:"name"`
	Grade Grade  `json:"grade"`
}

// Comparison is a candidate decomposed assertion comparison.
type Comparison struct {
	Left     string `json:"left"`
	Operator string `json:"operator"`
	Right    string `json:"right"`
	Grade    Grade  `json:"grade"`
}

// Key is the dedup identity for a comparison.
func (c Comparison) Key() string {
	return c.Left + "|" + c.Operator + "|" + c.Right
}

// Expression is a candidate assertion expression that could not be decomposed.
type Expression struct {
	Text  string `json:"text"`
	Grade Grade  `json:"grade"`
}

// Locator is a Selenium element locator candidate.
type Locator struct {
	Strategy string `json:"strategy"`
	Value    string `json:"value"`
	Grade    Grade  `json:"grade"`
}

// Extraction holds every raw candidate list produced by the pattern layer.
// It is attached verbatim to the failure record as audit data.
type Extraction struct {
	Locations      []Location   `json:"locations"`
	Exceptions     []Exception  `json:"exceptions"`
	Methods        []Symbol     `json:"methods"`
	Classes        []Symbol     `json:"classes"`
	Comparisons    []Comparison `json:"comparisons"`
	Expressions    []Expression `json:"expressions"`
	Locators       []Locator    `json:"locators,omitempty"`
	ExpectedValues []string     `json:"expectedValues,omitempty"`
	ActualValues   []string     `json:"actualValues,omitempty"`
	Timeouts       []float64    `json:"timeouts,omitempty"`
	Framework      Framework    `json:"framework"`
}

// Assertion describes the assertion behind a failure, when one was found.
type Assertion struct {
	Available  bool   `json:"available"`
	Expected   string `json:"expected,omitempty"`
	Actual     string `json:"actual,omitempty"`
	Operator   string `json:"operator,omitempty"`
	Expression string `json:"expression,omitempty"`
}

// Failure is the structured record synthesized for one failed test.
type Failure struct {
	Type              string          `json:"type"`
	File              string          `json:"file"`
	Line              int             `json:"line"`
	Column            int             `json:"column"`
	Method            string          `json:"method"`
	Class             string          `json:"class"`
	RawError          string          `json:"rawError"`
	ParsingSource     string          `json:"parsingSource"`
	ParsingConfidence Confidence      `json:"parsingConfidence"`
	Framework         Framework       `json:"framework"`
	Category          FailureCategory `json:"category"`
	Assertion         Assertion       `json:"assertion"`
	Message           string          `json:"message"`
	Extracted         *Extraction     `json:"extracted,omitempty"`
	Enhanced          bool            `json:"enhanced,omitempty"`
	EnhancedAt        *time.Time      `json:"enhancedAt,omitempty"`
}

// Parsed reports whether the record carries any real diagnostic signal.
func (f *Failure) Parsed() bool {
	return f != nil && f.ParsingConfidence != ConfidenceNone
}

// FallbackFailure returns the minimal record attached when nothing useful
// could be parsed from a failed test's output.
func FallbackFailure() *Failure {
	return &Failure{
		Type:              "TestFailure",
		ParsingSource:     SourceFallback,
		ParsingConfidence: ConfidenceNone,
		Framework:         FrameworkGeneric,
		Category:          CategoryGeneral,
		Assertion:         Assertion{Available: false},
		Message:           "Test execution failed",
	}
}

package models

import "time"

// TestStatus is the lifecycle status of a single test result.
type TestStatus string

const (
	StatusNotStarted TestStatus = "Not Started"
	StatusRunning    TestStatus = "Running"
	StatusPassed     TestStatus = "Passed"
	StatusFailed     TestStatus = "Failed"
	StatusNotFound   TestStatus = "Not Found"
)

// Terminal reports whether the status is final. Only terminal statuses
// trigger failure synthesis.
func (s TestStatus) Terminal() bool {
	switch s {
	case StatusPassed, StatusFailed, StatusNotFound:
		return true
	}
	return false
}

// TestResult is one test result as delivered by a runner webhook, plus the
// failure record this engine attaches to failed results.
type TestResult struct {
	ID          string     `json:"id"`
	Name        string     `json:"name,omitempty"`
	Status      TestStatus `json:"status"`
	Duration    float64    `json:"duration,omitempty"`
	Logs        string     `json:"logs,omitempty"`
	RawOutput   string     `json:"rawOutput,omitempty"`
	Failure     *Failure   `json:"failure,omitempty"`
	ProcessedAt *time.Time `json:"processedAt,omitempty"`
}

// BatchRequest wraps a set of results delivered in one webhook call.
type BatchRequest struct {
	RequestID string       `json:"requestId,omitempty"`
	Results   []TestResult `json:"results"`
}

// ParsingStats summarizes how well the engine did over a set of failures.
type ParsingStats struct {
	Attempted   int     `json:"attempted"`
	Parsed      int     `json:"parsed"`
	SuccessRate float64 `json:"successRate"`
}

// Rate computes the success percentage for the given counts.
func Rate(attempted, parsed int) float64 {
	if attempted == 0 {
		return 0
	}
	return float64(parsed) / float64(attempted) * 100
}

// BatchResponse is the enhanced batch plus aggregate parsing statistics.
type BatchResponse struct {
	RequestID    string       `json:"requestId,omitempty"`
	Results      []TestResult `json:"results"`
	ParsingStats ParsingStats `json:"parsingStats"`
}

// ExecutionSummary reports progress of one tracked execution.
type ExecutionSummary struct {
	ExecutionID    string             `json:"executionId"`
	Duration       float64            `json:"duration"`
	TotalTests     int                `json:"totalTests"`
	Completed      int                `json:"completed"`
	StatusCounts   map[TestStatus]int `json:"statusCounts"`
	FailedTests    []string           `json:"failedTests"`
	ParsedFailures int                `json:"parsedFailures"`
}

package synth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/failparse/failparse/internal/extract"
	"github.com/failparse/failparse/pkg/models"
)

func parse(t *testing.T, raw string) (*models.Failure, bool) {
	t.Helper()
	ex := extract.New().Extract(raw)
	return New().Synthesize(ex, raw)
}

func TestSynthesize_PytestAssertion(t *testing.T) {
	raw := `FAILED tests/test_login.py::test_login
E       AssertionError: assert 'Error: Invalid credentials' == 'Welcome Dashboard'
tests/test_login.py:45: AssertionError`

	f, ok := parse(t, raw)
	require.True(t, ok)

	assert.Contains(t, f.Type, "AssertionError")
	assert.Equal(t, "tests/test_login.py", f.File)
	assert.Equal(t, 45, f.Line)
	assert.True(t, f.Assertion.Available)
	assert.Equal(t, "'Welcome Dashboard'", f.Assertion.Expected)
	assert.Equal(t, "'Error: Invalid credentials'", f.Assertion.Actual)
	assert.Equal(t, models.ConfidenceHigh, f.ParsingConfidence)
	assert.Equal(t, models.CategoryAssertion, f.Category)
}

func TestSynthesize_SeleniumTimeout(t *testing.T) {
	raw := `selenium.common.exceptions.TimeoutException: Message: timed out after 30 seconds
Element locator: By.ID, "submit-button"
    at test_checkout.py:67`

	f, ok := parse(t, raw)
	require.True(t, ok)

	assert.Equal(t, models.FrameworkSelenium, f.Framework)
	assert.Equal(t, models.CategoryTimeout, f.Category)
	assert.Equal(t, "test_checkout.py", f.File)
	assert.Equal(t, 67, f.Line)
	require.NotEmpty(t, f.Extracted.Locators)
	assert.Equal(t, "ID", f.Extracted.Locators[0].Strategy)
	assert.Equal(t, "submit-button", f.Extracted.Locators[0].Value)
	assert.True(t, f.ParsingConfidence.AtLeast(models.ConfidenceMedium))
}

func TestSynthesize_JavaScriptStack(t *testing.T) {
	raw := "TypeError: Cannot read property 'click' of null\n    at Object.test (/tests/ui.test.js:23:15)"

	f, ok := parse(t, raw)
	require.True(t, ok)

	assert.Equal(t, "TypeError", f.Type)
	assert.Equal(t, "/tests/ui.test.js", f.File)
	assert.Equal(t, 23, f.Line)
	assert.Equal(t, 15, f.Column)
	assert.Equal(t, models.FrameworkJavaScript, f.Framework)
	assert.Equal(t, models.ConfidenceHigh, f.ParsingConfidence)
	assert.Equal(t, "test", f.Method)
}

func TestSynthesize_EmptyInput(t *testing.T) {
	ex := extract.New().Extract("")
	f, ok := New().Synthesize(ex, "")
	assert.False(t, ok)
	assert.Nil(t, f)
}

func TestSynthesize_RejectsSingleWeakSignal(t *testing.T) {
	// One medium-grade exception with no corroborating evidence must not
	// be reported as a diagnosis.
	f, ok := parse(t, "PaymentDeclinedException was thrown")
	assert.False(t, ok)
	assert.Nil(t, f)
}

func TestSynthesize_AcceptsTwoWeakSignals(t *testing.T) {
	raw := "ERROR tests/test_api.py::test_fetch\nUpstreamGatewayError: bad hop"

	f, ok := parse(t, raw)
	require.True(t, ok)
	assert.Equal(t, "UpstreamGatewayError", f.Type)
	assert.Equal(t, "tests/test_api.py", f.File)
}

func TestSynthesize_InferredTypeWithoutException(t *testing.T) {
	raw := "    at Object.test (/suite/login.test.js:3:9)"

	f, ok := parse(t, raw)
	require.True(t, ok)
	assert.Equal(t, "Error", f.Type)
	assert.Equal(t, models.FrameworkJavaScript, f.Framework)
}

func TestSynthesize_ExpectedActualLines(t *testing.T) {
	raw := "MismatchError: values differ\nExpected: 42\nActual: 17\nat math.spec.js:9:1"

	f, ok := parse(t, raw)
	require.True(t, ok)
	assert.True(t, f.Assertion.Available)
	assert.Equal(t, "42", f.Assertion.Expected)
	assert.Equal(t, "17", f.Assertion.Actual)
	assert.Equal(t, "Expected 42, got 17", f.Message)
}

func TestSynthesize_RawErrorSanitized(t *testing.T) {
	raw := "\x1b[31mTypeError: boom\x1b[0m\n    at Object.test (/t/a.test.js:1:1)"

	f, ok := parse(t, raw)
	require.True(t, ok)
	assert.NotContains(t, f.RawError, "\x1b")
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		failureType string
		want        models.FailureCategory
	}{
		{"AssertionError", models.CategoryAssertion},
		{"TimeoutException", models.CategoryTimeout},
		{"NoSuchElementException", models.CategoryElement},
		{"StaleElementReferenceException", models.CategoryElement},
		{"ConnectionError", models.CategoryNetwork},
		{"PermissionError", models.CategoryPermission},
		{"FileNotFoundError", models.CategoryMissing},
		{"ModuleNotFoundError", models.CategoryMissing},
		{"TypeError", models.CategoryGeneral},
		{"", models.CategoryGeneral},
	}

	for _, tt := range tests {
		if got := categorize(tt.failureType); got != tt.want {
			t.Errorf("categorize(%q) = %q, want %q", tt.failureType, got, tt.want)
		}
	}
}

func TestBuildMessage_Priority(t *testing.T) {
	tests := []struct {
		name string
		f    models.Failure
		want string
	}{
		{
			name: "decomposed assertion",
			f: models.Failure{
				Assertion: models.Assertion{Available: true, Expected: "5", Actual: "4", Operator: "=="},
			},
			want: "Expected 5, got 4",
		},
		{
			name: "non-equality assertion",
			f: models.Failure{
				Assertion: models.Assertion{Available: true, Expected: "10", Actual: "99", Operator: "<"},
			},
			want: "Assertion failed: 99 < 10",
		},
		{
			name: "expression only",
			f: models.Failure{
				Assertion: models.Assertion{Available: true, Expression: "add(2, 2) == 5"},
			},
			want: "Assertion failed: add(2, 2) == 5",
		},
		{
			name: "canned category sentence",
			f:    models.Failure{Category: models.CategoryTimeout},
			want: "Operation timed out while waiting for a condition",
		},
		{
			name: "generic fallback names the type",
			f:    models.Failure{Category: models.CategoryGeneral, Type: "TypeError"},
			want: "Test failed with TypeError",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := buildMessage(&tt.f); got != tt.want {
				t.Errorf("buildMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFallbackFailure(t *testing.T) {
	f := models.FallbackFailure()
	assert.Equal(t, "TestFailure", f.Type)
	assert.Equal(t, models.ConfidenceNone, f.ParsingConfidence)
	assert.False(t, f.Assertion.Available)
	assert.Equal(t, "Test execution failed", f.Message)
	assert.Empty(t, f.File)
	assert.Empty(t, f.Method)
	assert.Empty(t, f.Class)
}

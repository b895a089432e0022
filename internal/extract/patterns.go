package extract

import (
	"regexp"
	"strings"

	"github.com/failparse/failparse/pkg/models"
)

// locationRule recognizes one source-location idiom. Capture group indexes
// identify the file, line, and optional column within the match.
type locationRule struct {
	name string
	re   *regexp.Regexp
	file int
	line int
	col  int // 0 when the idiom never carries a column
}

var locationRules = []locationRule{
	// at fn (path:line:col) — checked first so the inner path:line:col is
	// attributed with its column.
	{name: "stack-frame", re: regexp.MustCompile(`at\s+[\w.$<>\[\]]+\s+\(([^()\s]+):(\d+):(\d+)\)`), file: 1, line: 2, col: 3},
	// Windows drive paths.
	{name: "windows-path", re: regexp.MustCompile(`([A-Za-z]:\\[\w\\.\- ]+?\.\w+):(\d+)(?::(\d+))?`), file: 1, line: 2, col: 3},
	// Quoted path plus "line N" (Python tracebacks).
	{name: "quoted-path", re: regexp.MustCompile(`"([^"\n]+)",? line (\d+)`), file: 1, line: 2},
	// path:line[:col]
	{name: "path-line", re: regexp.MustCompile(`([A-Za-z0-9_\-./\\]+\.[A-Za-z]\w{0,9}):(\d+)(?::(\d+))?`), file: 1, line: 2, col: 3},
	// pytest node ids: path.py::test_name FAILED / FAILED path.py::test_name
	{name: "pytest-node", re: regexp.MustCompile(`(?m)([\w\-./]+\.py)::(\w+)(?:\[[^\]]*\])?\s+(?:FAILED|ERROR)`), file: 1},
	{name: "pytest-node-prefix", re: regexp.MustCompile(`(?m)(?:FAILED|ERROR)\s+([\w\-./]+\.py)::(\w+)`), file: 1},
}

// pytestNodeTest is the capture index of the test name in the pytest node
// rules; the test name doubles as a method candidate.
const pytestNodeTest = 2

// exceptionRule recognizes one exception-name idiom.
type exceptionRule struct {
	name      string
	re        *regexp.Regexp
	nameIdx   int
	nsIdx     int // 0 when the idiom never carries a namespace
	msgIdx    int
	wellKnown bool // idiom alone implies a well-known error family
}

var exceptionRules = []exceptionRule{
	// Dotted namespace: selenium.common.exceptions.TimeoutException
	{name: "dotted", re: regexp.MustCompile(`\b((?:[a-z_]\w*\.)+)([A-Z]\w*(?:Exception|Error))\b`), nsIdx: 1, nameIdx: 2},
	// Built-in JavaScript error family.
	{name: "js-builtin", re: regexp.MustCompile(`\b(TypeError|ReferenceError|SyntaxError|RangeError|EvalError|URIError|AssertionError)\b`), nameIdx: 1, wellKnown: true},
	// "Name: message" lines.
	{name: "name-message", re: regexp.MustCompile(`(?m)^\s*(?:E\s+)?([A-Z]\w*(?:Exception|Error)):\s?(.*)$`), nameIdx: 1, msgIdx: 2},
	// Bare ...Exception / ...Error tokens.
	{name: "token", re: regexp.MustCompile(`\b([A-Z]\w+(?:Exception|Error))\b`), nameIdx: 1},
}

// seleniumExceptions is the fixed WebDriver allow-list; membership grades
// the candidate high regardless of which idiom found it.
var seleniumExceptions = map[string]bool{
	"NoSuchElementException":           true,
	"TimeoutException":                 true,
	"StaleElementReferenceException":   true,
	"ElementNotInteractableException":  true,
	"ElementClickInterceptedException": true,
	"ElementNotVisibleException":       true,
	"InvalidSelectorException":         true,
	"NoSuchFrameException":             true,
	"NoSuchWindowException":            true,
	"NoAlertPresentException":          true,
	"SessionNotCreatedException":       true,
	"WebDriverException":               true,
}

// wellKnownExceptions grade high: common names across the supported
// runtimes whose presence is rarely incidental.
var wellKnownExceptions = map[string]bool{
	"AssertionError":           true,
	"TypeError":                true,
	"ReferenceError":           true,
	"SyntaxError":              true,
	"RangeError":               true,
	"ValueError":               true,
	"KeyError":                 true,
	"IndexError":               true,
	"AttributeError":           true,
	"NameError":                true,
	"ImportError":              true,
	"ModuleNotFoundError":      true,
	"FileNotFoundError":        true,
	"ZeroDivisionError":        true,
	"RuntimeError":             true,
	"TimeoutError":             true,
	"ConnectionError":          true,
	"NullPointerException":     true,
	"IllegalArgumentException": true,
	"IllegalStateException":    true,
	"IOException":              true,
	"RuntimeException":         true,
	"ComparisonFailure":        true,
}

// gradeException applies the fixed grading policy for exception names.
func gradeException(name string, idiomWellKnown bool) models.Grade {
	switch {
	case seleniumExceptions[name] || wellKnownExceptions[name] || idiomWellKnown:
		return models.GradeHigh
	case strings.HasSuffix(name, "Exception") || strings.HasSuffix(name, "Error"):
		return models.GradeMedium
	default:
		return models.GradeLow
	}
}

// methodRule recognizes one method-name idiom.
type methodRule struct {
	name    string
	re      *regexp.Regexp
	nameIdx int
}

var methodRules = []methodRule{
	{name: "python-def", re: regexp.MustCompile(`(?m)^\s*def\s+(\w+)\s*\(`), nameIdx: 1},
	{name: "js-function", re: regexp.MustCompile(`\bfunction\s+(\w+)\s*\(`), nameIdx: 1},
	{name: "stack-frame", re: regexp.MustCompile(`\bat\s+([\w.$]+)\s*\(`), nameIdx: 1},
	{name: "traceback-in", re: regexp.MustCompile(`, line \d+, in ([\w<>]+)`), nameIdx: 1},
	{name: "test-name", re: regexp.MustCompile(`\b(test_\w+)\b`), nameIdx: 1},
	{name: "camel-test-name", re: regexp.MustCompile(`\b(test[A-Z]\w+)\b`), nameIdx: 1},
}

// gradeMethod grades test-named methods high, everything else medium.
func gradeMethod(name string) models.Grade {
	if strings.HasPrefix(strings.ToLower(name), "test") {
		return models.GradeHigh
	}
	return models.GradeMedium
}

// classRule recognizes one class-name idiom.
type classRule struct {
	name    string
	re      *regexp.Regexp
	nameIdx int
	grade   models.Grade // GradeLow means "medium only if the class recurs"
}

var classRules = []classRule{
	{name: "class-def", re: regexp.MustCompile(`\bclass\s+([A-Z]\w*)`), nameIdx: 1, grade: models.GradeHigh},
	{name: "test-class", re: regexp.MustCompile(`\b(Test[A-Z]\w*|[A-Z]\w*Test)\b`), nameIdx: 1, grade: models.GradeHigh},
	{name: "java-frame", re: regexp.MustCompile(`\bat\s+(?:[\w$]+\.)*([A-Z][\w$]*)\.[\w$<>]+\(`), nameIdx: 1, grade: models.GradeLow},
}

// comparisonRule recognizes one decomposed-comparison idiom.
type comparisonRule struct {
	name  string
	re    *regexp.Regexp
	left  int
	op    int
	right int
	grade models.Grade
}

var comparisonRules = []comparisonRule{
	// assert X <op> Y
	{name: "assert", re: regexp.MustCompile(`(?m)\bassert\s+(.+?)\s+(==|!=|<=|>=|<|>|not in|in|is not|is)\s+([^\n]+)`), left: 1, op: 2, right: 3, grade: models.GradeHigh},
	// Quoted string comparisons.
	{name: "quoted", re: regexp.MustCompile(`('[^'\n]*'|"[^"\n]*")\s*(==|!=)\s*('[^'\n]*'|"[^"\n]*")`), left: 1, op: 2, right: 3, grade: models.GradeHigh},
	// Numeric and boolean comparisons.
	{name: "scalar", re: regexp.MustCompile(`\b(\d+(?:\.\d+)?|true|false|True|False)\s*(==|!=|<=|>=|<|>)\s*(\d+(?:\.\d+)?|true|false|True|False)\b`), left: 1, op: 2, right: 3, grade: models.GradeMedium},
}

// expressionRules catch assertion text that cannot be decomposed into
// operands.
type expressionRule struct {
	name    string
	re      *regexp.Regexp
	textIdx int
	grade   models.Grade
}

var expressionRules = []expressionRule{
	{name: "assertion-error", re: regexp.MustCompile(`AssertionError:\s*([^\n]+)`), textIdx: 1, grade: models.GradeHigh},
	{name: "expect", re: regexp.MustCompile(`(?m)^\s*expect\(([^\n]+)\)`), textIdx: 1, grade: models.GradeMedium},
}

// pytestExpressionRules apply only when the pytest framework was detected.
var pytestExpressionRules = []expressionRule{
	{name: "pytest-e-assert", re: regexp.MustCompile(`(?m)^E\s+assert\s+([^\n]+)`), textIdx: 1, grade: models.GradeHigh},
	{name: "pytest-where", re: regexp.MustCompile(`(?m)^E?\s*\+\s*where\s+([^\n]+)`), textIdx: 1, grade: models.GradeMedium},
}

// Expected: / Actual: line captures, paired later by the synthesis layer.
var (
	expectedLineRe = regexp.MustCompile(`(?mi)^\s*Expected\s*[:=]\s*(.+)$`)
	actualLineRe   = regexp.MustCompile(`(?mi)^\s*(?:Actual|Received|Got)\s*[:=]\s*(.+)$`)
)

// Selenium-only rules.
var (
	seleniumLocatorRe = regexp.MustCompile(`By\.([A-Z_]+)\s*[,(]\s*["']([^"'\n]+)["']`)
	seleniumTimeoutRe = regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?)\s*(?:seconds?|secs?|milliseconds?|ms)\b`)
)

package extract

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/failparse/failparse/pkg/models"
)

// Extractor runs the fixed pattern catalogue over raw test output. It is
// stateless and safe for concurrent use.
type Extractor struct{}

// New returns an Extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extract sanitizes raw output, detects the producing framework, and
// returns every candidate match grouped by category. It never fails: empty,
// binary, or oversized input yields an extraction with empty candidate
// lists and the generic framework.
func (e *Extractor) Extract(raw string) *models.Extraction {
	text := Sanitize(raw)

	ex := &models.Extraction{
		Locations:   []models.Location{},
		Exceptions:  []models.Exception{},
		Methods:     []models.Symbol{},
		Classes:     []models.Symbol{},
		Comparisons: []models.Comparison{},
		Expressions: []models.Expression{},
		Framework:   models.FrameworkGeneric,
	}
	if text == "" {
		return ex
	}

	ex.Framework = DetectFramework(text)

	ex.Locations = extractLocations(text, ex)
	ex.Exceptions = extractExceptions(text)
	ex.Methods = dedupeSymbols(append(ex.Methods, extractMethods(text)...))
	ex.Classes = extractClasses(text)
	ex.Comparisons = extractComparisons(text)
	ex.Expressions = extractExpressions(text, ex.Framework)
	ex.ExpectedValues = captureLines(expectedLineRe, text)
	ex.ActualValues = captureLines(actualLineRe, text)

	if ex.Framework == models.FrameworkSelenium {
		ex.Locators = extractLocators(text)
		ex.Timeouts = extractTimeouts(text)
	}

	sortSymbols(ex.Methods)
	return ex
}

// extractLocations runs every location idiom. The pytest node idioms also
// surface the test name as a method candidate on the extraction.
func extractLocations(text string, ex *models.Extraction) []models.Location {
	seen := map[string]int{}
	var out []models.Location

	for _, rule := range locationRules {
		for _, m := range rule.re.FindAllStringSubmatch(text, -1) {
			loc := models.Location{File: strings.TrimSpace(m[rule.file])}
			if rule.line > 0 && rule.line < len(m) {
				loc.Line = atoi(m[rule.line])
			}
			if rule.col > 0 && rule.col < len(m) && m[rule.col] != "" {
				loc.Column = atoi(m[rule.col])
			}
			if loc.File == "" {
				continue
			}

			// A captured line number is what makes a location actionable.
			if loc.Line > 0 {
				loc.Grade = models.GradeHigh
			} else {
				loc.Grade = models.GradeMedium
			}

			if strings.HasPrefix(rule.name, "pytest-node") && len(m) > pytestNodeTest {
				ex.Methods = append(ex.Methods, models.Symbol{
					Name:  m[pytestNodeTest],
					Grade: models.GradeHigh,
				})
			}

			key := loc.Key()
			if idx, dup := seen[key]; dup {
				if gradeRank(loc.Grade) > gradeRank(out[idx].Grade) {
					out[idx] = loc
				}
				continue
			}
			seen[key] = len(out)
			out = append(out, loc)
		}
	}

	sortLocations(out)
	return out
}

func extractExceptions(text string) []models.Exception {
	seen := map[string]int{}
	var out []models.Exception

	for _, rule := range exceptionRules {
		for _, m := range rule.re.FindAllStringSubmatch(text, -1) {
			exc := models.Exception{Name: m[rule.nameIdx]}
			if rule.nsIdx > 0 {
				exc.Namespace = strings.TrimSuffix(m[rule.nsIdx], ".")
			}
			if rule.msgIdx > 0 && rule.msgIdx < len(m) {
				exc.Message = strings.TrimSpace(m[rule.msgIdx])
			}
			exc.Grade = gradeException(exc.Name, rule.wellKnown)

			if idx, dup := seen[exc.Name]; dup {
				prev := &out[idx]
				if gradeRank(exc.Grade) > gradeRank(prev.Grade) {
					prev.Grade = exc.Grade
				}
				if prev.Namespace == "" {
					prev.Namespace = exc.Namespace
				}
				if prev.Message == "" {
					prev.Message = exc.Message
				}
				continue
			}
			seen[exc.Name] = len(out)
			out = append(out, exc)
		}
	}

	sortExceptions(out)
	return out
}

func extractMethods(text string) []models.Symbol {
	var out []models.Symbol
	for _, rule := range methodRules {
		for _, m := range rule.re.FindAllStringSubmatch(text, -1) {
			name := m[rule.nameIdx]
			// Stack frames capture dotted receivers; keep the member name.
			if i := strings.LastIndex(name, "."); i >= 0 {
				name = name[i+1:]
			}
			if name == "" {
				continue
			}
			out = append(out, models.Symbol{Name: name, Grade: gradeMethod(name)})
		}
	}
	return out
}

func extractClasses(text string) []models.Symbol {
	counts := map[string]int{}
	seen := map[string]int{}
	var out []models.Symbol

	for _, rule := range classRules {
		for _, m := range rule.re.FindAllStringSubmatch(text, -1) {
			name := m[rule.nameIdx]
			counts[name]++
			grade := rule.grade
			if idx, dup := seen[name]; dup {
				if gradeRank(grade) > gradeRank(out[idx].Grade) {
					out[idx].Grade = grade
				}
				continue
			}
			seen[name] = len(out)
			out = append(out, models.Symbol{Name: name, Grade: grade})
		}
	}

	// Stack-frame classes start low and are promoted when they recur.
	for i := range out {
		if out[i].Grade == models.GradeLow && counts[out[i].Name] >= 2 {
			out[i].Grade = models.GradeMedium
		}
	}

	sortSymbols(out)
	return out
}

func extractComparisons(text string) []models.Comparison {
	seen := map[string]int{}
	var out []models.Comparison

	for _, rule := range comparisonRules {
		for _, m := range rule.re.FindAllStringSubmatch(text, -1) {
			cmp := models.Comparison{
				Left:     trimOperand(m[rule.left]),
				Operator: m[rule.op],
				Right:    trimOperand(m[rule.right]),
				Grade:    rule.grade,
			}
			if cmp.Left == "" || cmp.Right == "" {
				continue
			}
			if idx, dup := seen[cmp.Key()]; dup {
				if gradeRank(cmp.Grade) > gradeRank(out[idx].Grade) {
					out[idx].Grade = cmp.Grade
				}
				continue
			}
			seen[cmp.Key()] = len(out)
			out = append(out, cmp)
		}
	}

	sortComparisons(out)
	return out
}

func extractExpressions(text string, fw models.Framework) []models.Expression {
	rules := expressionRules
	if fw == models.FrameworkPytest {
		rules = append(append([]expressionRule{}, rules...), pytestExpressionRules...)
	}

	seen := map[string]int{}
	var out []models.Expression
	for _, rule := range rules {
		for _, m := range rule.re.FindAllStringSubmatch(text, -1) {
			expr := models.Expression{Text: strings.TrimSpace(m[rule.textIdx]), Grade: rule.grade}
			if expr.Text == "" {
				continue
			}
			if idx, dup := seen[expr.Text]; dup {
				if gradeRank(expr.Grade) > gradeRank(out[idx].Grade) {
					out[idx].Grade = expr.Grade
				}
				continue
			}
			seen[expr.Text] = len(out)
			out = append(out, expr)
		}
	}

	sortExpressions(out)
	return out
}

func extractLocators(text string) []models.Locator {
	seen := map[string]bool{}
	var out []models.Locator
	for _, m := range seleniumLocatorRe.FindAllStringSubmatch(text, -1) {
		loc := models.Locator{Strategy: m[1], Value: m[2], Grade: models.GradeHigh}
		key := loc.Strategy + "=" + loc.Value
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, loc)
	}
	return out
}

func extractTimeouts(text string) []float64 {
	var out []float64
	for _, m := range seleniumTimeoutRe.FindAllStringSubmatch(text, -1) {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			out = append(out, v)
		}
	}
	return out
}

func captureLines(re *regexp.Regexp, text string) []string {
	var out []string
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		if v := strings.TrimSpace(m[1]); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func dedupeSymbols(in []models.Symbol) []models.Symbol {
	seen := map[string]int{}
	var out []models.Symbol
	for _, s := range in {
		if idx, dup := seen[s.Name]; dup {
			if gradeRank(s.Grade) > gradeRank(out[idx].Grade) {
				out[idx].Grade = s.Grade
			}
			continue
		}
		seen[s.Name] = len(out)
		out = append(out, s)
	}
	return out
}

func trimOperand(s string) string {
	return strings.Trim(strings.TrimSpace(s), ",;")
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func gradeRank(g models.Grade) int {
	switch g {
	case models.GradeHigh:
		return 2
	case models.GradeMedium:
		return 1
	default:
		return 0
	}
}

// Candidates are ordered best first; ties keep discovery order.

func sortLocations(s []models.Location) {
	sort.SliceStable(s, func(i, j int) bool { return gradeRank(s[i].Grade) > gradeRank(s[j].Grade) })
}

func sortExceptions(s []models.Exception) {
	sort.SliceStable(s, func(i, j int) bool { return gradeRank(s[i].Grade) > gradeRank(s[j].Grade) })
}

func sortSymbols(s []models.Symbol) {
	sort.SliceStable(s, func(i, j int) bool { return gradeRank(s[i].Grade) > gradeRank(s[j].Grade) })
}

func sortComparisons(s []models.Comparison) {
	sort.SliceStable(s, func(i, j int) bool { return gradeRank(s[i].Grade) > gradeRank(s[j].Grade) })
}

func sortExpressions(s []models.Expression) {
	sort.SliceStable(s, func(i, j int) bool { return gradeRank(s[i].Grade) > gradeRank(s[j].Grade) })
}

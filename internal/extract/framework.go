package extract

import (
	"strings"

	"github.com/failparse/failparse/pkg/models"
)

// fingerprint is a presence test for one framework. The first framework
// whose fingerprint matches wins; order in the table is significant.
type fingerprint struct {
	framework models.Framework
	markers   []string
}

// fingerprints are checked in order. Selenium is checked before pytest
// because WebDriver suites usually run under pytest and would otherwise be
// misfiled as plain pytest output.
var fingerprints = []fingerprint{
	{models.FrameworkSelenium, []string{
		"selenium.common.exceptions",
		"WebDriverException",
		"WebDriverWait",
		"webdriver",
		"By.",
	}},
	{models.FrameworkPytest, []string{
		".py::",
		"pytest",
		"=== FAILURES ===",
		"Traceback (most recent call last)",
	}},
	{models.FrameworkJavaScript, []string{
		".test.js",
		".spec.js",
		".test.ts",
		"at Object.",
		"node_modules",
	}},
	{models.FrameworkJava, []string{
		"java.lang.",
		".java:",
		"Exception in thread",
		"at org.junit",
	}},
}

// DetectFramework guesses which test framework produced the raw output.
// Defaults to generic when no fingerprint matches.
func DetectFramework(text string) models.Framework {
	for _, fp := range fingerprints {
		for _, marker := range fp.markers {
			if strings.Contains(text, marker) {
				return fp.framework
			}
		}
	}
	return models.FrameworkGeneric
}

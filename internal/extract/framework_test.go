package extract

import (
	"testing"

	"github.com/failparse/failparse/pkg/models"
)

func TestDetectFramework(t *testing.T) {
	tests := []struct {
		name string
		text string
		want models.Framework
	}{
		{
			name: "selenium by exception namespace",
			text: "selenium.common.exceptions.TimeoutException: Message: timed out",
			want: models.FrameworkSelenium,
		},
		{
			name: "selenium wins over pytest for webdriver suites",
			text: "test_checkout.py::test_pay FAILED\nselenium.common.exceptions.NoSuchElementException",
			want: models.FrameworkSelenium,
		},
		{
			name: "pytest by node id",
			text: "FAILED tests/test_auth.py::test_login - AssertionError",
			want: models.FrameworkPytest,
		},
		{
			name: "pytest by traceback",
			text: "Traceback (most recent call last):\n  File \"app.py\", line 3",
			want: models.FrameworkPytest,
		},
		{
			name: "javascript by spec file",
			text: "TypeError: Cannot read property 'click' of null\n    at Object.test (/tests/ui.test.js:23:15)",
			want: models.FrameworkJavaScript,
		},
		{
			name: "java by package",
			text: "java.lang.NullPointerException\n\tat com.example.CartTest.checkout(CartTest.java:40)",
			want: models.FrameworkJava,
		},
		{
			name: "generic fallback",
			text: "something went wrong",
			want: models.FrameworkGeneric,
		},
		{
			name: "empty input",
			text: "",
			want: models.FrameworkGeneric,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectFramework(tt.text); got != tt.want {
				t.Errorf("DetectFramework() = %q, want %q", got, tt.want)
			}
		})
	}
}

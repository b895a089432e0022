package extract

import (
	"strings"
	"testing"
)

func TestSanitize_Empty(t *testing.T) {
	if got := Sanitize(""); got != "" {
		t.Errorf("expected empty output, got %q", got)
	}
}

func TestSanitize_StripsANSI(t *testing.T) {
	in := "\x1b[31mFAILED\x1b[0m test_login"
	got := Sanitize(in)
	if got != "FAILED test_login" {
		t.Errorf("expected ANSI stripped, got %q", got)
	}
}

func TestSanitize_NormalizesLineEndings(t *testing.T) {
	got := Sanitize("line one\r\nline two\rline three")
	if strings.Contains(got, "\r") {
		t.Errorf("expected no carriage returns, got %q", got)
	}
	if len(strings.Split(got, "\n")) != 3 {
		t.Errorf("expected 3 lines, got %q", got)
	}
}

func TestSanitize_TruncatesLines(t *testing.T) {
	in := strings.Repeat("x\n", 100)
	got := Sanitize(in)
	if n := len(strings.Split(got, "\n")); n > MaxLines {
		t.Errorf("expected at most %d lines, got %d", MaxLines, n)
	}
}

func TestSanitize_TruncatesChars(t *testing.T) {
	in := strings.Repeat("a", 10*MaxChars)
	if got := Sanitize(in); len(got) > MaxChars {
		t.Errorf("expected at most %d chars, got %d", MaxChars, len(got))
	}
}

func TestSanitize_DropsNulBytes(t *testing.T) {
	got := Sanitize("before\x00after")
	if got != "beforeafter" {
		t.Errorf("expected NUL bytes dropped, got %q", got)
	}
}

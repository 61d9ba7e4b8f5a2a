// Package judge turns the coding judge's rendered result text into a
// structured TestOutcome and drives the judge's Run and Submit controls.
package judge

import (
	"regexp"
	"strings"

	"bytsbot/internal/types"
)

// ErrorKind is the judge's verdict for one run or submission.
type ErrorKind string

const (
	Accepted            ErrorKind = "Accepted"
	WrongAnswer         ErrorKind = "Wrong Answer"
	RuntimeError        ErrorKind = "Runtime Error"
	CompileError        ErrorKind = "Compile Error"
	TimeLimitExceeded   ErrorKind = "Time Limit Exceeded"
	MemoryLimitExceeded ErrorKind = "Memory Limit Exceeded"
	OutputLimitExceeded ErrorKind = "Output Limit Exceeded"
	Timeout             ErrorKind = "Timeout"
	Unknown             ErrorKind = "Unknown"
)

// Evidence caps.
const (
	MaxMessageLen  = 500
	MaxEvidenceLen = 300
	windowLines    = 30
)

// failureKinds is checked in order; the first token found wins.
var failureKinds = []ErrorKind{
	WrongAnswer,
	RuntimeError,
	TimeLimitExceeded,
	CompileError,
	MemoryLimitExceeded,
	OutputLimitExceeded,
}

// IsJudgment reports whether k is a verdict the repair loop can act on.
func (k ErrorKind) IsJudgment() bool {
	for _, f := range failureKinds {
		if k == f {
			return true
		}
	}
	return false
}

// TestOutcome is the classified result of one run or submit attempt.
type TestOutcome struct {
	Passed       bool      `json:"passed"`
	ErrorKind    ErrorKind `json:"error_kind"`
	ErrorMessage string    `json:"error_message,omitempty"`
	Expected     string    `json:"expected,omitempty"`
	Actual       string    `json:"actual,omitempty"`
}

// Pass is the outcome of an accepted run.
func Pass() TestOutcome {
	return TestOutcome{Passed: true, ErrorKind: Accepted}
}

// Failure builds a failed outcome with capped evidence.
func Failure(kind ErrorKind, message, expected, actual string) TestOutcome {
	return TestOutcome{
		ErrorKind:    kind,
		ErrorMessage: types.Truncate(message, MaxMessageLen),
		Expected:     types.Truncate(expected, MaxEvidenceLen),
		Actual:       types.Truncate(actual, MaxEvidenceLen),
	}
}

var (
	expectedLabel = regexp.MustCompile(`(?i)^expected`)
	actualLabel   = regexp.MustCompile(`(?i)^(output|actual)`)
)

// ParseResult classifies raw result text. ok is false when the text carries
// neither an accepted signal nor a failure token yet.
func ParseResult(text string) (outcome TestOutcome, ok bool) {
	// "Accepted" alone also appears in acceptance-rate stats.
	if strings.Contains(text, "Accepted") && strings.Contains(text, "Runtime") {
		return Pass(), true
	}

	lines := strings.Split(text, "\n")
	for _, kind := range failureKinds {
		token := string(kind)
		if !strings.Contains(text, token) {
			continue
		}
		start := 0
		for i, line := range lines {
			if strings.Contains(line, token) {
				start = i
				break
			}
		}
		end := start + windowLines
		if end > len(lines) {
			end = len(lines)
		}
		window := lines[start:end]
		return Failure(kind,
			strings.TrimSpace(lines[start]),
			valueAfter(window, expectedLabel),
			valueAfter(window, actualLabel),
		), true
	}
	return TestOutcome{}, false
}

// valueAfter returns the first non-empty line after the first line matching label.
func valueAfter(window []string, label *regexp.Regexp) string {
	for i, line := range window {
		if !label.MatchString(strings.TrimSpace(line)) {
			continue
		}
		for _, next := range window[i+1:] {
			if v := strings.TrimSpace(next); v != "" {
				return v
			}
		}
		return ""
	}
	return ""
}

package acquire

import (
	"regexp"
	"strings"
)

// Validator gates source candidates before they reach the editor. It rejects
// truncated previews and empty stubs, not incorrect programs.
type Validator struct {
	MinLength   int
	Keywords    []string
	MinKeywords int
}

var languageKeywords = map[string][]string{
	"java":    {"class ", "public ", "return ", "{", "}"},
	"cpp":     {"class ", "public:", "return ", "{", "}"},
	"c++":     {"class ", "public:", "return ", "{", "}"},
	"python":  {"class ", "def ", "return", "self", ":"},
	"python3": {"class ", "def ", "return", "self", ":"},
}

// ValidatorFor returns the validator for an editor language label.
// Unknown languages use the Java keyword set.
func ValidatorFor(language string) Validator {
	kw, ok := languageKeywords[strings.ToLower(strings.TrimSpace(language))]
	if !ok {
		kw = languageKeywords["java"]
	}
	return Validator{MinLength: 150, Keywords: kw, MinKeywords: 4}
}

// IsUsable reports whether code is long enough and structurally plausible.
func (v Validator) IsUsable(code string) bool {
	if len(code) < v.MinLength {
		return false
	}
	hits := 0
	for _, kw := range v.Keywords {
		if strings.Contains(code, kw) {
			hits++
		}
	}
	return hits >= v.MinKeywords
}

var (
	openFence  = regexp.MustCompile("(?m)^```[\\w+#-]*[ \t]*\\n?")
	closeFence = regexp.MustCompile("(?m)\\n?```[ \t]*$")
)

// StripFences removes markdown code fences a model may wrap code in.
func StripFences(code string) string {
	code = openFence.ReplaceAllString(code, "")
	code = closeFence.ReplaceAllString(code, "")
	return strings.TrimSpace(code)
}

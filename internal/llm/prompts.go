package llm

import (
	"fmt"
	"strings"

	"bytsbot/internal/judge"
	"bytsbot/internal/types"
)

// langProfile carries the per-language wording of the phase prompts.
type langProfile struct {
	Name    string // how the judge labels the language
	Shape   string // what a complete answer looks like
	Runtime string
	Imports string
}

var langProfiles = map[string]langProfile{
	"java": {
		Name:    "Java",
		Shape:   "the Java class (e.g. class Solution { ... })",
		Runtime: "Java 17",
		Imports: "No imports unless strictly needed (java.util.* is fine)",
	},
	"c++": {
		Name:    "C++",
		Shape:   "the C++ class (e.g. class Solution { public: ... };)",
		Runtime: "C++17",
		Imports: "Standard library headers only",
	},
	"python3": {
		Name:    "Python3",
		Shape:   "the Python class (e.g. class Solution: ...)",
		Runtime: "Python 3",
		Imports: "Standard library imports only",
	},
}

func profileFor(language string) langProfile {
	key := strings.ToLower(strings.TrimSpace(language))
	switch key {
	case "cpp":
		key = "c++"
	case "python":
		key = "python3"
	}
	if p, ok := langProfiles[key]; ok {
		return p
	}
	return langProfile{
		Name:    language,
		Shape:   "the complete " + language + " solution",
		Runtime: language,
		Imports: "Only the imports the solution needs",
	}
}

func systemPrompt(p langProfile) string {
	return fmt.Sprintf("You are an expert competitive programmer specializing in %[1]s. "+
		"You ONLY output raw %[1]s code: no markdown fences, no prose, no comments unless they are inside the code itself. "+
		"The code must be a complete, self-contained LeetCode solution that compiles and runs correctly on LeetCode's %[2]s judge.",
		p.Name, p.Runtime)
}

func generatePrompt(p langProfile, id types.ProblemIdentity) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Solve the following LeetCode problem in %s.\n\n", p.Name)
	fmt.Fprintf(&sb, "Problem title: %s\n", id.Title)
	fmt.Fprintf(&sb, "Problem slug:  %s\n", id.Slug)
	fmt.Fprintf(&sb, "Description:\n%s\n\n", id.Description)
	sb.WriteString("Rules:\n")
	fmt.Fprintf(&sb, "- Return ONLY %s\n", p.Shape)
	sb.WriteString("- Use the exact method signature LeetCode expects\n")
	sb.WriteString("- Optimize for correctness first, then efficiency\n")
	fmt.Fprintf(&sb, "- %s\n", p.Imports)
	return sb.String()
}

func debugPrompt(p langProfile, title, code string, o judge.TestOutcome) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "The following %s solution for the LeetCode problem %q failed with:\n\n", p.Name, title)
	fmt.Fprintf(&sb, "Error type   : %s\n", o.ErrorKind)
	fmt.Fprintf(&sb, "Error message: %s\n", o.ErrorMessage)
	fmt.Fprintf(&sb, "Expected     : %s\n", orNA(o.Expected))
	fmt.Fprintf(&sb, "Actual output: %s\n\n", orNA(o.Actual))
	fmt.Fprintf(&sb, "Here is the current code:\n%s\n\n", code)
	fmt.Fprintf(&sb, "Fix the bug and return ONLY the corrected code as %s.\n", p.Shape)
	sb.WriteString("Do not explain anything. Just return the fixed code.")
	return sb.String()
}

func escalatePrompt(p langProfile, title, code string, o judge.TestOutcome) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "All previous attempts to fix the %s solution for %q have failed.\n", p.Name, title)
	sb.WriteString("The last error was:\n\n")
	fmt.Fprintf(&sb, "Error type   : %s\n", o.ErrorKind)
	fmt.Fprintf(&sb, "Error message: %s\n\n", o.ErrorMessage)
	fmt.Fprintf(&sb, "Here is the broken code:\n%s\n\n", code)
	fmt.Fprintf(&sb, "Discard this approach completely. Write a brand-new %s solution using a\n", p.Name)
	fmt.Fprintf(&sb, "DIFFERENT algorithm or data structure strategy. Return ONLY %s.", p.Shape)
	return sb.String()
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

// Package types provides shared type definitions used across bytsbot packages.
// This package exists to break import cycles between acquire, llm, scraper and solver.
// Types in this package should be plain data with no browser or network dependencies.
package types

import (
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxDescriptionLen caps problem descriptions fed into prompts.
const MaxDescriptionLen = 3000

// ProblemIdentity names one judge problem. Immutable once derived from a URL.
type ProblemIdentity struct {
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// NewProblemIdentity derives an identity from a judge problem URL.
// An empty title falls back to the de-hyphenated slug.
func NewProblemIdentity(rawURL, title, description string) ProblemIdentity {
	slug := SlugFromURL(rawURL)
	title = strings.TrimSpace(title)
	if title == "" {
		title = TitleFromSlug(slug)
	}
	return ProblemIdentity{
		Slug:        slug,
		Title:       title,
		Description: Truncate(strings.TrimSpace(description), MaxDescriptionLen),
	}
}

// SlugFromURL returns the path segment following "/problems/", or "".
func SlugFromURL(rawURL string) string {
	path := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		path = u.Path
	}
	parts := strings.Split(strings.Trim(path, "/"), "/")
	for i := 0; i+1 < len(parts); i++ {
		if parts[i] == "problems" && parts[i+1] != "" {
			return parts[i+1]
		}
	}
	return ""
}

// TitleFromSlug turns "two-sum" into "Two Sum".
func TitleFromSlug(slug string) string {
	words := strings.FieldsFunc(slug, func(r rune) bool { return r == '-' || r == '_' })
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + strings.ToLower(w[size:])
	}
	return strings.Join(words, " ")
}

// Truncate returns at most n runes of s.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}

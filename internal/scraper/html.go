package scraper

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// minCodeLen filters out inline snippets that cannot be a whole solution.
const minCodeLen = 20

// SolutionLinks returns the unique solution detail URLs on a listing page,
// in document order, resolved against base. The listing itself is skipped.
func SolutionLinks(page string, base *url.URL) []string {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return nil
	}

	var links []string
	seen := make(map[string]bool)
	var traverse func(*html.Node)
	traverse = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			if href := attr(n, "href"); strings.Contains(href, "/solutions/") {
				if full, ok := resolve(base, href); ok && !isListing(full) && !seen[full] {
					seen[full] = true
					links = append(links, full)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}
	traverse(doc)
	return links
}

// CodeBlocks returns candidate code texts from page: "pre code" blocks
// first, then language-tagged code elements, then bare pre elements.
// Texts shorter than minCodeLen are dropped.
func CodeBlocks(page string) []string {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return nil
	}

	var preCode, tagged, pre []string
	var traverse func(*html.Node)
	traverse = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch {
			case n.Data == "code" && n.Parent != nil && n.Parent.Data == "pre":
				preCode = append(preCode, codeText(n))
			case n.Data == "code" && strings.Contains(attr(n, "class"), "language-"):
				tagged = append(tagged, codeText(n))
			case n.Data == "pre":
				pre = append(pre, codeText(n))
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}
	traverse(doc)

	var out []string
	seen := make(map[string]bool)
	for _, group := range [][]string{preCode, tagged, pre} {
		for _, code := range group {
			if len(code) < minCodeLen || seen[code] {
				continue
			}
			seen[code] = true
			out = append(out, code)
		}
	}
	return out
}

// codeText returns the text under n with whitespace preserved and <br>
// rendered as a newline.
func codeText(n *html.Node) string {
	var sb strings.Builder
	var traverse func(*html.Node)
	traverse = func(node *html.Node) {
		switch {
		case node.Type == html.TextNode:
			sb.WriteString(node.Data)
		case node.Type == html.ElementNode && node.Data == "br":
			sb.WriteByte('\n')
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}
	traverse(n)
	return strings.TrimSpace(sb.String())
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func resolve(base *url.URL, href string) (string, bool) {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", false
	}
	if base != nil {
		ref = base.ResolveReference(ref)
	}
	if ref.Host == "" {
		return "", false
	}
	ref.Fragment = ""
	return ref.String(), true
}

func isListing(u string) bool {
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		u = u[:i]
	}
	return strings.HasSuffix(strings.TrimRight(u, "/"), "/solutions")
}

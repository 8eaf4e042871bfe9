// Package sanitize cleans upstream HTML before it reaches a template.
package sanitize

import (
	"html/template"
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

type Sanitizer struct {
	policy *bluemonday.Policy
}

// New returns a sanitizer that keeps article formatting (headings, lists,
// tables, images, links, inline emphasis) and drops scripts, styles and
// event handlers.
func New() *Sanitizer {
	policy := bluemonday.StrictPolicy()

	policy.AllowLists()
	policy.AllowTables()
	policy.AllowImages()

	policy.RequireParseableURLs(true)
	policy.AllowRelativeURLs(true)
	policy.AllowURLSchemes("mailto", "http", "https")
	policy.RequireNoFollowOnLinks(true)
	policy.AddTargetBlankToFullyQualifiedLinks(true)

	policy.AllowElements("article", "aside", "figure", "section", "summary", "details")
	policy.AllowElements("h1", "h2", "h3", "h4", "h5", "h6")
	policy.AllowElements("br", "div", "hr", "p", "span", "wbr", "blockquote")
	policy.AllowElements("abbr", "cite", "code", "dfn", "em", "figcaption", "mark", "s", "samp", "strong", "sub", "sup", "var")
	policy.AllowElements("b", "i", "pre", "small", "u")

	policy.AllowAttrs("href").OnElements("a")
	policy.AllowAttrs("cite").OnElements("blockquote", "q")
	policy.AllowAttrs("lang").Matching(regexp.MustCompile(`[a-zA-Z]{2,20}`)).Globally()
	policy.AllowAttrs("dir").Matching(bluemonday.Direction).Globally()
	policy.AllowAttrs("datetime").Matching(bluemonday.ISO8601).OnElements("time")

	return &Sanitizer{policy: policy}
}

// HTML sanitizes s and marks the result safe for html/template.
func (s *Sanitizer) HTML(raw string) template.HTML {
	if raw == "" {
		return ""
	}

	// nolint:gosec
	return template.HTML(s.policy.Sanitize(raw))
}

// Package sanitizer cleans HTML produced from markdown components before it
// is embedded in a page.
package sanitizer

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	markdownPolicy *bluemonday.Policy
	strictPolicy   *bluemonday.Policy
	initOnce       sync.Once
)

func initPolicies() {
	initOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()

		// Everything goldmark can emit, minus scripts, styles and handlers.
		markdownPolicy = bluemonday.UGCPolicy()
		markdownPolicy.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6")
		markdownPolicy.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("code", "pre")
		markdownPolicy.RequireNoFollowOnLinks(false)
	})
}

// Markdown keeps the elements markdown renders to (headings, lists, tables,
// links, images, code) and drops everything executable.
func Markdown(html string) string {
	initPolicies()
	return markdownPolicy.Sanitize(html)
}

// MarkdownBytes is Markdown for byte slices.
func MarkdownBytes(html []byte) []byte {
	initPolicies()
	return markdownPolicy.SanitizeBytes(html)
}

// StripTags removes all markup and returns the text content.
func StripTags(s string) string {
	initPolicies()
	return strictPolicy.Sanitize(s)
}

// Custom applies policy, or returns s unchanged when policy is nil.
func Custom(s string, policy *bluemonday.Policy) string {
	if policy == nil {
		return s
	}
	return policy.Sanitize(s)
}

// Package htmlsanitize strips markup from user-supplied event text.
//
// Event fields are plain text. Anything that looks like HTML is removed with
// bluemonday's strict policy before the value is validated or stored, so the
// length bounds apply to what will actually be displayed.
package htmlsanitize

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictOnce sync.Once
	strict     *bluemonday.Policy
)

func policy() *bluemonday.Policy {
	strictOnce.Do(func() {
		strict = bluemonday.StrictPolicy()
	})
	return strict
}

// PlainText removes all tags from s, drops the contents of script/style
// elements, and returns trimmed text with entities decoded.
func PlainText(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(policy().Sanitize(s)))
}

// IsPlainText reports whether s contains nothing the strict policy would remove.
func IsPlainText(s string) bool {
	if s == "" {
		return true
	}
	return html.UnescapeString(policy().Sanitize(s)) == s
}

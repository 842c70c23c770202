package utils

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Strict policy: plain-text fields (titles, author labels, usernames) carry no
// markup. Post markup/style blobs are stored verbatim and never pass through here.
var strictPolicy = bluemonday.StrictPolicy()

// SanitizeText strips all HTML from a plain-text field.
func SanitizeText(s string) string {
	return strings.TrimSpace(strictPolicy.Sanitize(s))
}

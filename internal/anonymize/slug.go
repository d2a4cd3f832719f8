package anonymize

import (
	"regexp"
	"strings"
)

var (
	nonSlugChars  = regexp.MustCompile(`[^a-z0-9]+`)
	nonLabelChars = regexp.MustCompile(`[^a-z0-9]`)
)

// slugify lowercases and collapses every run of non-alphanumeric
// characters to a single hyphen.
func slugify(s string) string {
	s = strings.ToLower(s)
	s = nonSlugChars.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// sanitizeLabel reduces a contact-method label to its lowercase
// alphanumeric characters.
func sanitizeLabel(s string) string {
	return nonLabelChars.ReplaceAllString(strings.ToLower(s), "")
}

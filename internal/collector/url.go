package collector

import (
	"regexp"
	"strings"
)

// Regex for Reddit post permalinks (www., old. and new. hosts)
var postURLRegex = regexp.MustCompile(`^https?://(www\.|old\.|new\.)?reddit\.com/r/([^/]+)/comments/([^/]+)/`)

// IsPostURL reports whether s looks like a link to a single Reddit post.
func IsPostURL(s string) bool {
	return postURLRegex.MatchString(s)
}

// FeedURL returns the JSON variant of a post URL. It does not validate;
// call IsPostURL first.
func FeedURL(s string) string {
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSuffix(s, "/")
	return s + ".json"
}

// PostID extracts the base36 post id from a post URL.
func PostID(s string) (string, bool) {
	m := postURLRegex.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	return m[3], true
}

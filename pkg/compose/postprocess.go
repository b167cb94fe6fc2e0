package compose

import (
	"regexp"
	"strings"
)

var hashtagRe = regexp.MustCompile(`#\w+`)

// postProcess is the single funnel every composed response passes through:
// strip hashtags, unwrap quotes, keep the first line, trim.
func postProcess(s string) string {
	s = hashtagRe.ReplaceAllString(s, "")

	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		s = s[:i]
	}

	s = strings.TrimSpace(s)
	for len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			s = strings.TrimSpace(s[1 : len(s)-1])
			continue
		}
		break
	}

	for strings.Contains(s, "  ") {
		s = strings.ReplaceAll(s, "  ", " ")
	}
	return strings.TrimSpace(s)
}

package rule

import "regexp"

// Textual markers shared by several detectors.
var (
	// AppRouteCall matches an Express route registration on the app object.
	AppRouteCall = regexp.MustCompile(`(?i)app\.(get|post|put|delete|patch)\s*\(`)

	// RouterRouteCall matches a route registration on a Router instance.
	RouterRouteCall = regexp.MustCompile(`(?i)router\.(get|post|put|delete|patch)\s*\(`)

	// AnyRouteRegistration matches either form without requiring the paren.
	AnyRouteRegistration = regexp.MustCompile(`(?i)app\.(get|post|put|delete|patch)|router\.(get|post|put|delete|patch)`)
)

// MatchesAny reports whether any pattern matches s.
func MatchesAny(s string, patterns []*regexp.Regexp) bool {
	for _, p := range patterns {
		if p.MatchString(s) {
			return true
		}
	}

	return false
}

// TruncateRunes cuts s to at most n runes.
func TruncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}

	return string(r[:n])
}

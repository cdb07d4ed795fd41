package artifact

import (
	"regexp"
	"strings"
)

var (
	footerRe    = regexp.MustCompile(`(?is)<footer.*?</footer>`)
	bodyCloseRe = regexp.MustCompile(`(?i)</body\s*>`)
)

// IsFragment reports whether extracted HTML is a section-level patch rather
// than a full document or body.
func IsFragment(html string) bool {
	return strings.HasPrefix(html, "<section")
}

// Merge splices a fragment into existing markup. Anchor priority: right
// before the first footer region, else before the closing body tag, else
// appended at the end. The merge is additive only; existing content is
// never removed.
func Merge(existing, fragment string) string {
	if loc := footerRe.FindStringIndex(existing); loc != nil {
		return existing[:loc[0]] + fragment + "\n" + existing[loc[0]:]
	}
	if loc := bodyCloseRe.FindStringIndex(existing); loc != nil {
		return existing[:loc[0]] + fragment + "\n" + existing[loc[0]:]
	}
	return existing + "\n" + fragment
}

package artifact

import (
	"regexp"
	"strings"
)

// Bundle holds the three artifacts extracted from one raw model response.
type Bundle struct {
	HTML string
	CSS  string
	JS   string
}

// Empty reports whether nothing usable was extracted.
func (b Bundle) Empty() bool {
	return b.HTML == "" && b.CSS == "" && b.JS == ""
}

var (
	htmlDocRe  = regexp.MustCompile(`(?is)<html.*?</html>`)
	bodyRe     = regexp.MustCompile(`(?is)<body.*?</body>`)
	sectionRe  = regexp.MustCompile(`(?is)<section.*?</section>`)
	styleRe    = regexp.MustCompile(`(?is)<style.*?</style>`)
	scriptRe   = regexp.MustCompile(`(?is)<script.*?</script>`)
	scriptTag  = regexp.MustCompile(`(?i)</?script[^>]*>`)
	alphanumRe = regexp.MustCompile(`[a-zA-Z0-9]`)
)

// brokenClosureArtifact shows up when the model emits mangled wrapper code
// around its script; such output would crash the preview iframe.
const brokenClosureArtifact = "})(); } catch(e)"

// minScriptLength is the shortest script body worth injecting into a page.
const minScriptLength = 20

// Extract parses raw model output into separate HTML, CSS and JS payloads.
// HTML falls back from a full document to a body and then a section wrapper;
// a missing block always degrades to an empty string, never an error. The JS
// is returned with its wrapping tags stripped but otherwise unjudged; run it
// through SanitizeJS before handing it to a render target.
func Extract(raw string) Bundle {
	var b Bundle
	switch {
	case htmlDocRe.MatchString(raw):
		b.HTML = htmlDocRe.FindString(raw)
	case bodyRe.MatchString(raw):
		b.HTML = bodyRe.FindString(raw)
	default:
		b.HTML = sectionRe.FindString(raw)
	}
	b.CSS = styleRe.FindString(raw)
	b.JS = strings.TrimSpace(scriptTag.ReplaceAllString(scriptRe.FindString(raw), ""))
	return b
}

// SanitizeJS discards script bodies that are too short, contain the mangled
// closure artifact, or carry no alphanumeric characters at all.
func SanitizeJS(js string) string {
	js = strings.TrimSpace(js)
	if len(js) < minScriptLength {
		return ""
	}
	if strings.Contains(js, brokenClosureArtifact) {
		return ""
	}
	if !alphanumRe.MatchString(js) {
		return ""
	}
	return js
}

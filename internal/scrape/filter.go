package scrape

import (
	"strings"

	"jobdigest/internal/domain"

	"golang.org/x/text/cases"
)

// ShouldKeepPosting reports whether p matches at least one keyword in its
// title or description. An empty keyword list keeps everything.
func ShouldKeepPosting(keywords []string, p domain.Posting) (keep bool, reason string) {
	if len(keywords) == 0 {
		return true, ""
	}

	// Casers are stateful; one per call.
	fold := cases.Fold()
	text := fold.String(p.Title + " " + p.Description)

	for _, k := range keywords {
		n := fold.String(strings.TrimSpace(k))
		if n == "" {
			continue
		}
		if strings.Contains(text, n) {
			return true, ""
		}
	}
	return false, "no_keyword_match"
}

// Package digest renders the daily email body.
package digest

import (
	_ "embed"
	"strings"
	"text/template"
	"time"

	"jobdigest/internal/domain"
)

// TimestampLayout formats the generation time shown in the greeting.
const TimestampLayout = "2006-01-02 15:04"

// Recipient is the name the digest greets.
const Recipient = "Parth"

//go:embed templates/digest.txt
var digestTemplate string

var digestTmpl = template.Must(template.New("digest").Parse(digestTemplate))

// Compose renders postings, in order, under a header stamped with
// generatedAt. An empty slice still yields the greeting and closing.
func Compose(postings []domain.Posting, generatedAt time.Time) string {
	var b strings.Builder
	_ = digestTmpl.Execute(&b, struct {
		Recipient   string
		GeneratedAt string
		Postings    []domain.Posting
	}{
		Recipient:   Recipient,
		GeneratedAt: generatedAt.Format(TimestampLayout),
		Postings:    postings,
	})
	return b.String()
}

// Package outreach writes the suggested LinkedIn note attached to each posting.
package outreach

import (
	"strings"
	"text/template"

	"jobdigest/internal/domain"
)

const (
	// Separator splits "Role – Company" titles.
	Separator = "–"
	// DefaultCompany is used when the title names no company.
	DefaultCompany = "team"

	SenderName      = "Parth Awasthi"
	SenderSignature = "Parth"
)

var messageTmpl = template.Must(template.New("outreach").Parse(
	"Hi Hiring Team at {{ .Company }},\n\n" +
		"I’m {{ .Sender }}, passionate about QA and quality assurance. " +
		"I saw your {{ .Title }} role and love your startup's mission. " +
		"Can we connect to discuss how I could help ensure top product quality?\n\n" +
		"Thanks,\n{{ .Signature }}",
))

// CompanyLabel returns the text after the last en-dash in title, or
// DefaultCompany when there is none.
func CompanyLabel(title string) string {
	i := strings.LastIndex(title, Separator)
	if i < 0 {
		return DefaultCompany
	}
	label := strings.TrimSpace(title[i+len(Separator):])
	if label == "" {
		return DefaultCompany
	}
	return label
}

// Compose renders the outreach message for p. It has no side effects.
func Compose(p domain.Posting) string {
	var b strings.Builder
	// The template only substitutes strings; Execute cannot fail on it.
	_ = messageTmpl.Execute(&b, struct {
		Company, Sender, Title, Signature string
	}{
		Company:   CompanyLabel(p.Title),
		Sender:    SenderName,
		Title:     p.Title,
		Signature: SenderSignature,
	})
	return b.String()
}

// Package publish turns the editor's document into a standalone HTML
// page and delivers it: save, host, export, preview and share.
package publish

import (
	"bytes"
	"fmt"
	"html/template"
)

// FallbackTitle is used when a page has no topic title.
const FallbackTitle = "My Webpage"

// OGMeta holds the Open Graph tags injected for social sharing.
type OGMeta struct {
	Title       string
	Description string
	Image       string
	URL         string
}

// docTemplate wraps the editor's body markup and stylesheet into a
// complete standalone HTML document.
const docTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}}</title>
{{- if .OG}}
<meta property="og:title" content="{{.OG.Title}}">
{{- if .OG.Description}}
<meta property="og:description" content="{{.OG.Description}}">
{{- end}}
{{- if .OG.Image}}
<meta property="og:image" content="{{.OG.Image}}">
{{- end}}
{{- if .OG.URL}}
<meta property="og:url" content="{{.OG.URL}}">
{{- end}}
{{- end}}
{{- if .CSS}}
<style>{{.CSS}}</style>
{{- end}}
</head>
<body>
{{.Body}}
</body>
</html>
`

var docTmpl = template.Must(template.New("document").Parse(docTemplate))

type docData struct {
	Title string
	OG    *OGMeta
	CSS   template.CSS
	Body  template.HTML
}

// AssembleDocument wraps body markup and styles into a self-contained
// HTML document. The output always begins with <!DOCTYPE html> and
// contains exactly one <title>, holding the given title or
// FallbackTitle when empty.
func AssembleDocument(title, bodyHTML, css string, og *OGMeta) (string, error) {
	if title == "" {
		title = FallbackTitle
	}
	if og != nil && og.Title == "" {
		og.Title = title
	}

	var buf bytes.Buffer
	err := docTmpl.Execute(&buf, docData{
		Title: title,
		OG:    og,
		CSS:   template.CSS(css),
		Body:  template.HTML(bodyHTML),
	})
	if err != nil {
		return "", fmt.Errorf("assembling document: %w", err)
	}
	return buf.String(), nil
}

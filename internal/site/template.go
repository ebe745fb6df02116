package site

import (
	"html/template"
	"io"

	"git.home.luguber.info/inful/docplugins/internal/page"
)

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{ .Title }}{{ with .SiteName }} - {{ . }}{{ end }}</title>
{{- range .Meta }}
<meta{{ with .property }} property="{{ . }}"{{ end }}{{ with .name }} name="{{ . }}"{{ end }} content="{{ .content }}">
{{- end }}
</head>
<body>
<article>
{{ .Content }}
</article>
</body>
</html>
`

var pageTmpl = template.Must(template.New("page").Parse(pageTemplate))

type pageData struct {
	SiteName string
	Title    string
	Meta     []map[string]string
	Content  template.HTML
}

// renderPage writes the full HTML document for p.
func renderPage(w io.Writer, siteName string, p *page.Page) error {
	return pageTmpl.Execute(w, pageData{
		SiteName: siteName,
		Title:    p.DisplayTitle(),
		Meta:     p.MetaTags(),
		Content:  template.HTML(p.Content), //nolint:gosec // produced by the Markdown renderer and rewrite plugins
	})
}

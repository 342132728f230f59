package adapters

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/maourynd/radio-summary/application/ports/outbound"
)

const digestTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
body { font-family: Georgia, serif; color: #222; max-width: 640px; margin: 0 auto; padding: 24px; }
h1 { font-size: 22px; border-bottom: 2px solid #8b0000; padding-bottom: 8px; }
p { line-height: 1.5; }
.footer { font-size: 12px; color: #888; margin-top: 32px; }
</style>
</head>
<body>
<h1>Daily Chatter Digest</h1>
{{range .Paragraphs}}<p>{{.}}</p>
{{end}}<div class="footer">Generated automatically from scanner audio.</div>
</body>
</html>
`

type htmlRenderer struct {
	tmpl *template.Template
}

func NewHTMLRenderer() outbound.DigestRendererPort {
	return &htmlRenderer{
		tmpl: template.Must(template.New("digest").Parse(digestTemplate)),
	}
}

// Render wraps the digest in a standalone email document. Blank lines
// split paragraphs; the digest text itself is escaped by the template.
func (h *htmlRenderer) Render(digest string) (string, error) {
	var paragraphs []string
	for _, block := range strings.Split(digest, "\n\n") {
		block = strings.TrimSpace(block)
		if block != "" {
			paragraphs = append(paragraphs, block)
		}
	}

	var out bytes.Buffer
	err := h.tmpl.Execute(&out, struct {
		Paragraphs []string
	}{Paragraphs: paragraphs})
	if err != nil {
		return "", err
	}
	return out.String(), nil
}

package entityschema

import (
	"bytes"
	"fmt"
	"html/template"
)

var pageTemplate = template.Must(template.New("entityschema").Parse(`<div class="entityschema-page">
<table class="entityschema-namebadges">
<thead><tr><th>Language</th><th>Label</th><th>Description</th><th>Aliases</th></tr></thead>
<tbody>
{{range .NameBadges}}<tr class="entityschema-namebadge" lang="{{.Language}}">
<td class="entityschema-namebadge-language">{{.Language}}</td>
<td class="entityschema-title-label">{{.Label}}</td>
<td class="entityschema-description">{{.Description}}</td>
<td class="entityschema-aliases">{{range $i, $a := .Aliases}}{{if $i}} | {{end}}{{$a}}{{end}}</td>
</tr>
{{end}}</tbody>
</table>
<pre class="entityschema-schema-text" dir="ltr">{{.SchemaText}}</pre>
</div>
`))

// Render renders the page for the interface language. Invalid content
// renders as empty output.
func Render(c *Content, language string) (template.HTML, error) {
	if !c.IsValid() {
		return "", nil
	}
	data, err := c.FullViewData([]string{language})
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render entity schema: %w", err)
	}
	return template.HTML(buf.String()), nil
}

package deck

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/aristath/stockpitch/internal/modules/valuation"
)

// reportScriptID marks the script tag that carries the machine-readable
// valuation report inside a rendered deck
const reportScriptID = "valuation-report"

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.Table, extension.Strikethrough),
)

var deckTemplate = template.Must(template.New("deck").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Deck.Ticker}} Stock Pitch</title>
<style>
:root { --accent: #1f6feb; --muted: #57606a; }
* { box-sizing: border-box; }
body { margin: 0; font-family: "Helvetica Neue", Arial, sans-serif; color: #24292f; background: #f6f8fa; }
.slide { min-height: 100vh; padding: 6vh 12vw; border-bottom: 1px solid #d0d7de; background: #fff; }
.slide h1 { font-size: 2.6rem; color: var(--accent); margin-bottom: 0.3rem; }
.slide h2 { font-size: 1.9rem; color: var(--accent); }
.slide .subtitle { color: var(--muted); white-space: pre-line; font-size: 1.1rem; }
.slide table { border-collapse: collapse; margin: 1rem 0; }
.slide th, .slide td { border: 1px solid #d0d7de; padding: 0.4rem 0.8rem; text-align: right; }
.slide th:first-child, .slide td:first-child { text-align: left; }
.slide ul { line-height: 1.7; }
.slide-title { display: flex; flex-direction: column; justify-content: center; }
.slide-title h1 { font-size: 3.4rem; }
.slide-recommendation h2:first-of-type { font-size: 3rem; }
.slide-disclaimer { color: var(--muted); font-size: 0.9rem; }
footer { padding: 1rem 12vw; color: var(--muted); font-size: 0.8rem; }
</style>
</head>
<body>
{{range .Slides}}<section class="slide slide-{{.Kind}}">
{{if eq .Kind "title"}}<h1>{{.Title}}</h1>{{else}}<h2>{{.Title}}</h2>{{end}}
{{if .Subtitle}}<p class="subtitle">{{.Subtitle}}</p>{{end}}
{{.BodyHTML}}
</section>
{{end}}<footer>Generated {{.Deck.GeneratedAt.Format "2006-01-02 15:04 MST"}} &middot; mode: {{.Deck.Mode}}</footer>
<script type="application/json" id="valuation-report">
{{.ReportJSON}}
</script>
</body>
</html>
`))

type renderedSlide struct {
	Kind     string
	Title    string
	Subtitle string
	BodyHTML template.HTML
}

type renderContext struct {
	Deck       *Deck
	Slides     []renderedSlide
	ReportJSON template.JS
}

// Render produces the self-contained HTML document for a deck. The full
// valuation report is embedded as JSON so the artifact can be parsed back
func Render(d *Deck, report *valuation.Report) ([]byte, error) {
	slides := make([]renderedSlide, 0, len(d.Slides))
	for _, s := range d.Slides {
		html, err := renderMarkdown(s.Body)
		if err != nil {
			return nil, fmt.Errorf("rendering slide %q: %w", s.Kind, err)
		}
		slides = append(slides, renderedSlide{
			Kind:     s.Kind,
			Title:    s.Title,
			Subtitle: s.Subtitle,
			BodyHTML: html,
		})
	}

	// json.Marshal escapes <, > and & so the payload cannot break out of
	// the script tag
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("marshalling report: %w", err)
	}

	var buf bytes.Buffer
	err = deckTemplate.Execute(&buf, renderContext{
		Deck:       d,
		Slides:     slides,
		ReportJSON: template.JS(reportJSON),
	})
	if err != nil {
		return nil, fmt.Errorf("executing deck template: %w", err)
	}

	return buf.Bytes(), nil
}

func renderMarkdown(src string) (template.HTML, error) {
	if strings.TrimSpace(src) == "" {
		return "", nil
	}

	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", err
	}

	return template.HTML(buf.String()), nil
}

package report

import (
	"bytes"
	"html/template"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/talkincode/bodega/internal/imagecodec"
)

var documentTmpl = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="{{.Lang}}">
  <head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    <style>
      body { font-family: Arial, sans-serif; text-align: center; padding: 20px; }
      h1 { color: #333; }
      img { max-width: 100%; height: auto; margin-top: 20px; }
      ul { text-align: left; margin-top: 20px; list-style-type: none; padding: 0; }
      li { font-size: 16px; color: #333; }
      .stats { color: #666; font-size: 14px; }
    </style>
  </head>
  <body>
    <h1>{{.Title}}</h1>
    {{if .Chart}}<img src="{{.Chart}}" alt="{{.Title}}" />{{end}}
    <ul>
      {{range .Items}}<li>{{.}}</li>
      {{end}}
    </ul>
    <p class="stats">{{.Totals}}</p>
    <p class="stats">{{.Generated}}</p>
  </body>
</html>
`))

type documentView struct {
	Lang      string
	Title     string
	Chart     template.URL
	Items     []string
	Totals    string
	Generated string
}

// BuildDocument renders the markup handed to the external document renderer:
// the title, the chart embedded as a data URI and the ordered summary.
func BuildDocument(r *Report) ([]byte, error) {
	p := printer(r.Lang)
	view := documentView{
		Lang:  r.Lang,
		Title: r.Title,
		Items: r.Summary,
		Totals: p.Sprintf("%d products, %d units, stock value %s",
			r.Stats.Products, r.Stats.Units, r.Stats.StockValue.StringFixed(2)),
		Generated: r.GeneratedAt.Format(time.RFC3339),
	}
	if len(r.Chart) > 0 {
		view.Chart = template.URL(imagecodec.Decode(imagecodec.EncodeBytes(r.Chart)))
	}
	var buf bytes.Buffer
	if err := documentTmpl.Execute(&buf, view); err != nil {
		return nil, errors.Wrap(err, "render report document")
	}
	return buf.Bytes(), nil
}

func printer(lang string) *message.Printer {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.Spanish
	}
	return message.NewPrinter(tag)
}

package dashboard

import (
	"embed"
	"fmt"
	"html/template"
	"math"

	"github.com/rustyeddy/fxdash/config"
	"github.com/rustyeddy/fxdash/engine"
	"github.com/rustyeddy/fxdash/risk"
	"github.com/rustyeddy/fxdash/safety"
	"github.com/rustyeddy/fxdash/signal"
)

//go:embed templates/*.html
var templates embed.FS

type pageData struct {
	Snapshot *engine.Snapshot
	Config   *config.Config
}

var funcs = template.FuncMap{
	"safetyColor": func(score int) string { return safety.RiskLevel(score).Color() },
	"levelColor":  func(l safety.Level) string { return l.Color() },
	"actionColor": func(a signal.Action) string {
		switch a {
		case signal.Buy:
			return "green"
		case signal.Sell:
			return "red"
		}
		return "gray"
	},
	"sentimentColor": func(score float64) string {
		switch {
		case score > 0.1:
			return "green"
		case score < -0.1:
			return "red"
		}
		return "gray"
	},
	// heat shades a correlation cell: green for positive, red for negative.
	"heat": func(v float64) template.CSS {
		alpha := math.Min(math.Abs(v), 1) * 0.6
		if v >= 0 {
			return template.CSS(fmt.Sprintf("rgba(21,128,61,%.2f)", alpha))
		}
		return template.CSS(fmt.Sprintf("rgba(185,28,28,%.2f)", alpha))
	},
	"signed": func(v float64) string { return fmt.Sprintf("%+.3f", v) },
	"money":  func(v float64) string { return risk.FormatCurrency(v, "USD") },
	"price": func(p *float64) string {
		if p == nil {
			return "-"
		}
		return fmt.Sprintf("%.5f", *p)
	},
}

func parsePage() (*template.Template, error) {
	t, err := template.New("index.html").Funcs(funcs).ParseFS(templates, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("parse dashboard template: %w", err)
	}
	return t, nil
}

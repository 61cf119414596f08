package templates

import (
	"bytes"
	"embed"
	"fmt"
	htmpl "html/template"
	"strings"
	texttpl "text/template"
)

//go:embed *.tmpl
var FS embed.FS

var subjects = map[string]string{
	"welcome":       "Welcome to {{.CompanyName}}",
	"order_created": "Your order {{.OrderID}} has been placed",
}

var parsed = htmpl.Must(htmpl.New("").Funcs(htmpl.FuncMap{
	"default": defaultFn,
	"money":   func(v any) string { return fmt.Sprintf("%.2f", toFloat(v)) },
}).ParseFS(FS, "*.tmpl"))

// Render returns subject and HTML body for a named template.
func Render(name string, data map[string]any) (string, string, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	subjTpl, ok := subjects[name]
	if !ok {
		return "", "", fmt.Errorf("unknown email template %q", name)
	}
	subj, err := texttpl.New("subject").Parse(subjTpl)
	if err != nil {
		return "", "", err
	}
	var sb bytes.Buffer
	if err := subj.Execute(&sb, data); err != nil {
		return "", "", err
	}
	var hb bytes.Buffer
	if err := parsed.ExecuteTemplate(&hb, name+".html.tmpl", data); err != nil {
		return "", "", err
	}
	return sb.String(), hb.String(), nil
}

// defaultFn supports pipe usage: {{ .Value | default "Fallback" }}
func defaultFn(fallback any, value any) any {
	if value == nil {
		return fallback
	}
	if s, ok := value.(string); ok && strings.TrimSpace(s) == "" {
		return fallback
	}
	return value
}

func toFloat(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case float32:
		return float64(x)
	case int:
		return float64(x)
	case int64:
		return float64(x)
	}
	return 0
}

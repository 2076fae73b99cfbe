package prompt

import (
	"bytes"
	"context"
	"fmt"
	"text/template"

	"tinytrans/internal/ports"
)

// Renderer renders prompt templates. Overrides replace the builtin body for a
// "type/role" key, e.g. "translate_single/system".
type Renderer struct {
	overrides map[string]string
}

func New(overrides map[string]string) *Renderer {
	o := make(map[string]string, len(overrides))
	for k, v := range overrides {
		if v != "" {
			o[k] = v
		}
	}
	return &Renderer{overrides: o}
}

var _ ports.PromptRenderer = (*Renderer)(nil)

func (r *Renderer) Render(ctx context.Context, typ, role string, data ports.PromptData) (string, error) {
	body, ok := r.overrides[typ+"/"+role]
	if !ok {
		body = builtinTemplate(typ, role)
	}
	if body == "" {
		return "", fmt.Errorf("no prompt template for %s/%s", typ, role)
	}
	tpl, err := template.New(typ + "/" + role).Parse(body)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func builtinTemplate(typ, role string) string {
	if typ == "translate_single" && role == "system" {
		return "You are a professional software localization translator. Translate the user interface message from {{.SrcLang}} to {{.TgtLang}}." +
			"{{if or .Placeholders .Tags}} Keep these tokens exactly as they are and in a sensible position:{{range .Placeholders}} {{.}}{{end}}{{range .Tags}} {{.}}{{end}}.{{end}}" +
			" Do not add explanations. Return only JSON: {\"translation\":\"...\"}."
	}
	if typ == "translate_single" && role == "user" {
		return "{{.Text}}"
	}
	return ""
}

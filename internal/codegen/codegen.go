// Package codegen renders interpreted commands as Python source fragments.
package codegen

import (
	"strings"
	"text/template"

	"vozc/internal/nlu"
)

// DefaultOutput is the artifact file the fragments are appended to.
const DefaultOutput = "codigo_generado.py"

var templates = map[nlu.Intent]*template.Template{
	nlu.IntentLoop: parse("loop",
		"for i in range({{.Start}}, {{inc .End}}):\n    print(i)\n"),
	nlu.IntentVariable: parse("variable",
		"{{.Name}} = {{.Value}}\n"),
	nlu.IntentFunction: parse("function",
		"def {{.Name}}():\n    pass\n"),
	nlu.IntentConditional: parse("conditional",
		"if {{.Var1}} > {{.Var2}}:\n    print('{{.Var1}} es mayor')\n"),
	nlu.IntentMessage: parse("message",
		"print(\"{{.Text}}\")\n"),
}

func parse(name, text string) *template.Template {
	return template.Must(template.New(name).Funcs(template.FuncMap{
		"inc": func(n int) int { return n + 1 },
	}).Parse(text))
}

// Synthesize renders p. It reports false for parameters that produce no code,
// such as a terminate request.
func Synthesize(p nlu.Params) (string, bool) {
	if p == nil {
		return "", false
	}

	tmpl, ok := templates[p.Intent()]
	if !ok {
		return "", false
	}

	var b strings.Builder
	if err := tmpl.Execute(&b, p); err != nil {
		return "", false
	}

	return b.String(), true
}

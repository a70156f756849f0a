package nlu

import "strings"

// DefaultMatchThreshold is the minimum keyword-overlap score for a template to win.
const DefaultMatchThreshold = 0.5

// Template describes one recognized command.
type Template struct {
	Intent   Intent
	Name     string
	Keywords []string
	// Usage is the phrase shown to the user in help output.
	Usage string
	// Pattern documents the expected grammar. Extraction does not enforce it.
	Pattern string
}

// DefaultTemplates is the command registry in priority order.
var DefaultTemplates = []Template{
	{
		Intent:   IntentLoop,
		Name:     "bucle",
		Keywords: []string{"haz", "bucle", "del", "al"},
		Usage:    "haz un bucle del X al Y",
		Pattern:  `(\w+)\s+un\s+(\w+)\s+del\s+(\d+)\s+al\s+(\d+)`,
	},
	{
		Intent:   IntentVariable,
		Name:     "variable",
		Keywords: []string{"declara", "variable", "igual"},
		Usage:    "declara una variable X igual a Y",
		Pattern:  `(\w+)\s+una\s+(\w+)\s+(\w+)\s+(\w+)\s+a\s+(\w+)`,
	},
	{
		Intent:   IntentFunction,
		Name:     "función",
		Keywords: []string{"define", "función", "llamada"},
		Usage:    "define una función llamada X",
		Pattern:  `(\w+)\s+una\s+(\w+)\s+(\w+)\s+(\w+)`,
	},
	{
		Intent:   IntentConditional,
		Name:     "condicional",
		Keywords: []string{"si", "mayor", "que"},
		Usage:    "si X es mayor que Y",
		Pattern:  `si\s+(\w+)\s+es\s+(\w+)\s+que\s+(\w+)`,
	},
	{
		Intent:   IntentMessage,
		Name:     "mensaje",
		Keywords: []string{"muestra", "mensaje"},
		Usage:    "muestra el mensaje TEXTO",
		Pattern:  `(\w+)\s+el\s+(\w+)\s+(.+)`,
	},
	{
		Intent:   IntentTerminate,
		Name:     "terminar",
		Keywords: []string{"terminar", "salir", "cerrar"},
		Usage:    "terminar / salir / cerrar",
		Pattern:  `(terminar|salir|cerrar)`,
	},
}

// Score is the fraction of t's keywords found as substrings of text.
func (t *Template) Score(text string) float64 {
	if len(t.Keywords) == 0 {
		return 0
	}
	hits := 0
	for _, kw := range t.Keywords {
		if strings.Contains(text, kw) {
			hits++
		}
	}
	return float64(hits) / float64(len(t.Keywords))
}

// Match is a classification result. Template is nil for IntentUnknown.
type Match struct {
	Intent   Intent
	Template *Template
	Score    float64
}

type Classifier struct {
	templates []Template
	threshold float64
}

func NewClassifier(templates []Template, threshold float64) *Classifier {
	return &Classifier{
		templates: append([]Template(nil), templates...),
		threshold: threshold,
	}
}

// Classify picks the first template in registry order that reaches the best
// score, provided that score is at least the threshold.
func (c *Classifier) Classify(normalized string) Match {
	best := Match{Intent: IntentUnknown}

	for i := range c.templates {
		t := &c.templates[i]
		s := t.Score(normalized)
		if s > best.Score && s >= c.threshold {
			best = Match{Intent: t.Intent, Template: t, Score: s}
		}
	}

	return best
}

// Scores reports every template's score, aligned with Templates().
func (c *Classifier) Scores(normalized string) []float64 {
	out := make([]float64, len(c.templates))
	for i := range c.templates {
		out[i] = c.templates[i].Score(normalized)
	}
	return out
}

// Templates returns the registry in priority order.
func (c *Classifier) Templates() []Template {
	return append([]Template(nil), c.templates...)
}

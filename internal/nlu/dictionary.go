package nlu

import "fmt"

// Correction maps one misheard spelling to its canonical token.
type Correction struct {
	From string
	To   string
}

// Dictionary is an ordered, immutable set of corrections.
// Every canonical form is also a key that maps to itself.
type Dictionary struct {
	lookup    map[string]string
	canonical []string
}

// NewDictionary validates the corrections and freezes them. Canonical forms keep
// the order in which they are first declared; fuzzy ties resolve by that order.
func NewDictionary(corrections []Correction) (*Dictionary, error) {
	d := &Dictionary{
		lookup: make(map[string]string, len(corrections)),
	}

	seen := make(map[string]bool)
	for _, c := range corrections {
		if c.From == "" || c.To == "" {
			return nil, fmt.Errorf("empty correction %q -> %q", c.From, c.To)
		}
		if prev, ok := d.lookup[c.From]; ok && prev != c.To {
			return nil, fmt.Errorf("conflicting corrections for %q: %q and %q", c.From, prev, c.To)
		}
		d.lookup[c.From] = c.To

		if !seen[c.To] {
			seen[c.To] = true
			d.canonical = append(d.canonical, c.To)
		}
	}

	for _, form := range d.canonical {
		if d.lookup[form] != form {
			return nil, fmt.Errorf("canonical form %q does not map to itself", form)
		}
	}

	return d, nil
}

// Lookup returns the canonical form for an exact key.
func (d *Dictionary) Lookup(token string) (string, bool) {
	v, ok := d.lookup[token]
	return v, ok
}

// Canonical returns the canonical forms in declaration order.
func (d *Dictionary) Canonical() []string {
	return append([]string(nil), d.canonical...)
}

// DefaultCorrections are the spelling fixes for common mistranscriptions of
// the Spanish command vocabulary.
var DefaultCorrections = []Correction{
	{"haz", "haz"}, {"hasz", "haz"}, {"has", "haz"}, {"az", "haz"},
	{"bucle", "bucle"}, {"bocle", "bucle"}, {"bukle", "bucle"}, {"buble", "bucle"},
	{"del", "del"}, {"de", "del"}, {"dell", "del"},
	{"al", "al"}, {"a", "al"}, {"all", "al"},
	{"declara", "declara"}, {"dekla", "declara"}, {"deklara", "declara"},
	{"variable", "variable"}, {"variabel", "variable"}, {"bariable", "variable"},
	{"igual", "igual"}, {"igua", "igual"}, {"ygual", "igual"},
	{"define", "define"}, {"defin", "define"}, {"defiene", "define"},
	{"función", "función"}, {"funcion", "función"}, {"funcioon", "función"},
	{"llamada", "llamada"}, {"yamada", "llamada"}, {"lamada", "llamada"},
	{"muestra", "muestra"}, {"mostra", "muestra"}, {"muesta", "muestra"},
	{"mensaje", "mensaje"}, {"mensage", "mensaje"}, {"mesaje", "mensaje"},
	{"mayor", "mayor"}, {"mallor", "mayor"}, {"maor", "mayor"},
	{"que", "que"}, {"qe", "que"}, {"ke", "que"},
}

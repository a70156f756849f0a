package nlu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestInterpreter(t *testing.T) *Interpreter {
	t.Helper()
	in, err := NewDefaultInterpreter(DefaultFuzzyThreshold, DefaultMatchThreshold)
	require.NoError(t, err)
	return in
}

func TestDictionaryRejectsCanonicalWithoutSelfKey(t *testing.T) {
	_, err := NewDictionary([]Correction{{From: "bukle", To: "bucle"}})
	require.Error(t, err)
	assert.ErrorContains(t, err, `"bucle" does not map to itself`)
}

func TestDictionaryRejectsConflicts(t *testing.T) {
	_, err := NewDictionary([]Correction{
		{From: "a", To: "a"},
		{From: "b", To: "b"},
		{From: "x", To: "a"},
		{From: "x", To: "b"},
	})
	require.Error(t, err)
	assert.ErrorContains(t, err, "conflicting")
}

func TestDictionaryCanonicalOrder(t *testing.T) {
	dict, err := NewDictionary(DefaultCorrections)
	require.NoError(t, err)

	canon := dict.Canonical()
	require.NotEmpty(t, canon)
	assert.Equal(t, []string{"haz", "bucle", "del", "al"}, canon[:4])
	assert.Equal(t, "que", canon[len(canon)-1])
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("bucle", "bucle"))
	assert.Equal(t, 0.0, Similarity("ab", "cd"))
	assert.InDelta(t, 2.0/3.0, Similarity("el", "del"), 1e-9)
	// runes, not bytes
	assert.InDelta(t, 6.0/7.0, Similarity("funcion", "función"), 1e-9)
}

func TestNormalize(t *testing.T) {
	in := newTestInterpreter(t)

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "dictionary hit", raw: "Hasz un Bukle", want: "haz un bucle"},
		{name: "punctuation stripped", raw: "¡Muestra, el mensaje!", want: "muestra del mensaje"},
		{name: "fuzzy fallback", raw: "varíable", want: "variable"},
		{name: "below threshold kept", raw: "x zzz 10", want: "x zzz 10"},
		{name: "accented canonical", raw: "funcioon", want: "función"},
		{name: "pure punctuation dropped", raw: "haz ... bucle", want: "haz bucle"},
		{name: "whitespace collapsed", raw: "  al \t del\n", want: "al del"},
		{name: "empty", raw: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, in.Normalizer().Normalize(tt.raw))
		})
	}
}

func TestNormalizeFuzzyTieTakesFirstDeclared(t *testing.T) {
	dict, err := NewDictionary([]Correction{
		{From: "cab", To: "cab"},
		{From: "cad", To: "cad"},
	})
	require.NoError(t, err)

	n := NewNormalizer(dict, 0.6)
	// one edit from both forms
	assert.Equal(t, "cab", n.Normalize("cax"))
}

func TestNormalizeIdempotent(t *testing.T) {
	in := newTestInterpreter(t)
	inputs := []string{
		"haz un bucle del 1 al 5",
		"Declara una variabel X igual a 10.",
		"muesta el mesaje ¡hola, mundo!",
		"si a es mallor ke b",
		"asdf qwerty 123abc !!! ??",
		"defiene una funcioon yamada saludar",
		"oye compilador",
	}

	for _, raw := range inputs {
		once := in.Normalizer().Normalize(raw)
		assert.Equal(t, once, in.Normalizer().Normalize(once), raw)
	}
}

func TestClassify(t *testing.T) {
	in := newTestInterpreter(t)

	tests := []struct {
		text string
		want Intent
	}{
		{text: "haz un bucle del 1 al 5", want: IntentLoop},
		{text: "declara una variable x igual al 10", want: IntentVariable},
		{text: "define una función llamada saludar", want: IntentFunction},
		{text: "si a es mayor que b", want: IntentConditional},
		{text: "muestra del mensaje hola mundo", want: IntentMessage},
		{text: "terminar y salir", want: IntentTerminate},
		{text: "terminar", want: IntentUnknown},
		{text: "blorp frobnicate", want: IntentUnknown},
		{text: "", want: IntentUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			m := in.Classifier().Classify(tt.text)
			assert.Equal(t, tt.want, m.Intent)
			if tt.want == IntentUnknown {
				assert.Nil(t, m.Template)
			} else {
				require.NotNil(t, m.Template)
				assert.Equal(t, tt.want, m.Template.Intent)
			}
		})
	}
}

func TestClassifyScoresBounded(t *testing.T) {
	in := newTestInterpreter(t)
	for _, text := range []string{"", "haz bucle del al", "si mayor que muestra mensaje", "zzz"} {
		for _, s := range in.Classifier().Scores(text) {
			assert.GreaterOrEqual(t, s, 0.0)
			assert.LessOrEqual(t, s, 1.0)
		}
	}
}

func TestClassifyTieGoesToPriorityOrder(t *testing.T) {
	c := NewClassifier([]Template{
		{Intent: IntentMessage, Keywords: []string{"uno", "dos"}},
		{Intent: IntentLoop, Keywords: []string{"uno", "tres"}},
	}, 0.5)

	m := c.Classify("uno")
	assert.Equal(t, IntentMessage, m.Intent)
	assert.Equal(t, 0.5, m.Score)

	m = c.Classify("uno tres")
	assert.Equal(t, IntentLoop, m.Intent)
	assert.Equal(t, 1.0, m.Score)
}

func TestClassifyKeywordMatchesInsideWords(t *testing.T) {
	c := NewClassifier([]Template{{Intent: IntentLoop, Keywords: []string{"al", "del"}}}, 0.5)
	assert.Equal(t, IntentLoop, c.Classify("delantal").Intent)
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		intent Intent
		want   Params
	}{
		{name: "loop", text: "haz un bucle del 1 al 5", intent: IntentLoop, want: LoopParams{Start: 1, End: 5}},
		{name: "loop ignores extra numbers", text: "del 3 al 9 y 12", intent: IntentLoop, want: LoopParams{Start: 3, End: 9}},
		{name: "loop digits inside words", text: "x10 y20", intent: IntentLoop, want: LoopParams{Start: 10, End: 20}},
		{name: "variable", text: "declara una variable x igual al 10", intent: IntentVariable, want: VariableParams{Name: "x", Value: "10"}},
		{name: "variable without connective", text: "variable total igual 3", intent: IntentVariable, want: VariableParams{Name: "total", Value: "3"}},
		{name: "variable connective is last word", text: "variable x igual al", intent: IntentVariable, want: VariableParams{Name: "x", Value: "al"}},
		{name: "function", text: "define una función llamada saludar", intent: IntentFunction, want: FunctionParams{Name: "saludar"}},
		{name: "conditional", text: "si a es mayor que b", intent: IntentConditional, want: ConditionalParams{Var1: "a", Var2: "b"}},
		{name: "message", text: "muestra del mensaje hola mundo", intent: IntentMessage, want: MessageParams{Text: "hola mundo"}},
		{name: "message marker inside word", text: "mensajes claros", intent: IntentMessage, want: MessageParams{Text: "s claros"}},
		{name: "terminate", text: "terminar", intent: IntentTerminate, want: TerminateParams{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extract(tt.text, tt.intent)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.intent, got.Intent())
		})
	}
}

func TestExtractMissing(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		intent Intent
	}{
		{name: "loop one number", text: "haz un bucle del 1", intent: IntentLoop},
		{name: "loop no numbers", text: "haz un bucle", intent: IntentLoop},
		{name: "loop overflow", text: "del 1 al 99999999999999999999999", intent: IntentLoop},
		{name: "variable no name", text: "declara una variable", intent: IntentVariable},
		{name: "variable no igual", text: "declara una variable x", intent: IntentVariable},
		{name: "variable nothing after igual", text: "variable x igual", intent: IntentVariable},
		{name: "function no name", text: "define una función llamada", intent: IntentFunction},
		{name: "conditional no si", text: "a es mayor que b", intent: IntentConditional},
		{name: "conditional short", text: "si a es mayor que", intent: IntentConditional},
		{name: "message empty", text: "muestra del mensaje  ", intent: IntentMessage},
		{name: "message no marker", text: "muestra algo", intent: IntentMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Extract(tt.text, tt.intent)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMissingParameters)
		})
	}
}

func TestExtractUnknown(t *testing.T) {
	_, err := Extract("hola", IntentUnknown)
	assert.ErrorIs(t, err, ErrUnknownIntent)
}

func TestAnalyze(t *testing.T) {
	in := newTestInterpreter(t)

	res, err := in.Analyze("Haz un bucle del 1 al 5")
	require.NoError(t, err)
	assert.Equal(t, IntentLoop, res.Match.Intent)
	assert.Equal(t, LoopParams{Start: 1, End: 5}, res.Params)

	res, err = in.Analyze("declara una variable x igual a 10")
	require.NoError(t, err)
	assert.Equal(t, "declara una variable x igual al 10", res.Normalized)
	assert.Equal(t, VariableParams{Name: "x", Value: "10"}, res.Params)

	res, err = in.Analyze("muestra el mensaje hola mundo")
	require.NoError(t, err)
	assert.Equal(t, IntentMessage, res.Match.Intent)
	assert.Equal(t, MessageParams{Text: "hola mundo"}, res.Params)

	res, err = in.Analyze("purple monkey dishwasher")
	assert.ErrorIs(t, err, ErrUnknownIntent)
	assert.Equal(t, IntentUnknown, res.Match.Intent)
	assert.Nil(t, res.Params)

	res, err = in.Analyze("haz un bucle del 7")
	assert.ErrorIs(t, err, ErrMissingParameters)
	assert.Equal(t, IntentLoop, res.Match.Intent)
}

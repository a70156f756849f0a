package nlu

import (
	"fmt"
	log "log/slog"
)

// Result is the interpretation of a single transcript.
type Result struct {
	Normalized string
	Match      Match
	Params     Params
}

// Interpreter runs normalization, classification and extraction in order.
type Interpreter struct {
	norm  *Normalizer
	class *Classifier
}

func NewInterpreter(norm *Normalizer, class *Classifier) *Interpreter {
	return &Interpreter{norm: norm, class: class}
}

// NewDefaultInterpreter builds an Interpreter over the default dictionary and
// registry with the given thresholds.
func NewDefaultInterpreter(fuzzy, match float64) (*Interpreter, error) {
	dict, err := NewDictionary(DefaultCorrections)
	if err != nil {
		return nil, fmt.Errorf("build dictionary: %w", err)
	}
	return NewInterpreter(
		NewNormalizer(dict, fuzzy),
		NewClassifier(DefaultTemplates, match),
	), nil
}

func (in *Interpreter) Normalizer() *Normalizer { return in.norm }
func (in *Interpreter) Classifier() *Classifier { return in.class }

// Analyze interprets transcript. The Result is filled as far as the pipeline
// got, so callers can report the normalized text even on error. An unknown
// intent yields ErrUnknownIntent; absent parameters ErrMissingParameters.
func (in *Interpreter) Analyze(transcript string) (Result, error) {
	res := Result{Normalized: in.norm.Normalize(transcript)}
	res.Match = in.class.Classify(res.Normalized)

	log.Debug("Classified",
		"text", res.Normalized,
		"intent", res.Match.Intent,
		"score", res.Match.Score,
		"scores", in.class.Scores(res.Normalized))

	if res.Match.Intent == IntentUnknown {
		return res, ErrUnknownIntent
	}

	params, err := Extract(res.Normalized, res.Match.Intent)
	if err != nil {
		return res, err
	}
	res.Params = params

	return res, nil
}

package session

import (
	"fmt"

	"vozc/internal/nlu"
)

type OutcomeKind string

const (
	OutcomeEmptyTranscript   OutcomeKind = "empty_transcript"
	OutcomeNoIntent          OutcomeKind = "no_intent"
	OutcomeMissingParameters OutcomeKind = "missing_parameters"
	OutcomeTerminate         OutcomeKind = "terminate"
	OutcomeArtifact          OutcomeKind = "artifact"
	OutcomeWriteFailed       OutcomeKind = "write_failed"
)

// Outcome is what one command cycle produced.
type Outcome struct {
	Kind       OutcomeKind
	Transcript string
	Normalized string
	Intent     nlu.Intent
	Params     nlu.Params
	Code       string
	Path       string
	Err        error
}

// Reason is the user-facing explanation for the outcome.
func (o Outcome) Reason() string {
	switch o.Kind {
	case OutcomeEmptyTranscript:
		return "No pude entender el comando"
	case OutcomeNoIntent:
		return "No detecté ningún comando válido"
	case OutcomeMissingParameters:
		return "No pude extraer los parámetros necesarios"
	case OutcomeTerminate:
		return "¡Hasta luego!"
	case OutcomeArtifact:
		return fmt.Sprintf("Código guardado en '%s'", o.Path)
	case OutcomeWriteFailed:
		return fmt.Sprintf("No pude guardar el código en '%s'", o.Path)
	}
	return string(o.Kind)
}

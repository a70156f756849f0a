package session

import (
	log "log/slog"

	"vozc/internal/nlu"
)

// LogReporter writes outcomes to the default logger. On an unrecognized
// command it lists the available ones.
type LogReporter struct {
	Templates []nlu.Template
}

func (r LogReporter) Report(o Outcome) {
	switch o.Kind {
	case OutcomeArtifact:
		log.Info("Generated", "intent", o.Intent, "code", o.Code)
		log.Info(o.Reason(), "path", o.Path)

	case OutcomeTerminate:
		log.Info(o.Reason())

	case OutcomeEmptyTranscript:
		log.Warn(o.Reason())

	case OutcomeNoIntent:
		log.Warn(o.Reason(), "text", o.Normalized)
		for _, t := range r.Templates {
			log.Info("Available", "name", t.Name, "command", t.Usage)
		}

	case OutcomeMissingParameters:
		log.Warn(o.Reason(), "intent", o.Intent, "text", o.Normalized, "err", o.Err)
		log.Info("Intenta ser más específico con los valores")

	case OutcomeWriteFailed:
		log.Error(o.Reason(), "err", o.Err)
	}
}

// MultiReporter fans an outcome out to several reporters.
type MultiReporter []Reporter

func (m MultiReporter) Report(o Outcome) {
	for _, r := range m {
		r.Report(o)
	}
}

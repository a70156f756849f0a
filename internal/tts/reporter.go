package tts

import (
	log "log/slog"

	"vozc/internal/session"
)

// Reporter speaks the reason for every command outcome.
type Reporter struct {
	Lang string
}

func (r Reporter) Report(o session.Outcome) {
	if err := Speak(o.Reason(), r.Lang); err != nil {
		log.Warn("Failed to voice out", "err", err)
	}
}

package nlu

// Intent is the command kind a transcript was classified as.
type Intent string

const (
	IntentLoop        Intent = "loop"
	IntentVariable    Intent = "variable"
	IntentFunction    Intent = "function"
	IntentConditional Intent = "conditional"
	IntentMessage     Intent = "message"
	IntentTerminate   Intent = "terminate"
	IntentUnknown     Intent = "unknown"
)

func (i Intent) String() string {
	if i == "" {
		return string(IntentUnknown)
	}
	return string(i)
}

package session

type State int

const (
	StateIdle State = iota
	StateAwaitingCommand
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingCommand:
		return "awaiting_command"
	case StateTerminated:
		return "terminated"
	}
	return "invalid"
}

package core

// Action is a player intent, decoupled from the key or mouse button that
// produced it.
type Action int

const (
	ActionNone    Action = iota
	ActionFlap           // space, up, w, left click
	ActionPause          // p, esc
	ActionRestart        // r after a game over
	ActionConfirm        // enter
	ActionBack           // b, stop the current run
	ActionQuit           // q, ctrl+c
)

func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionFlap:
		return "flap"
	case ActionPause:
		return "pause"
	case ActionRestart:
		return "restart"
	case ActionConfirm:
		return "confirm"
	case ActionBack:
		return "back"
	case ActionQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// InputFrame collects the actions seen between two ticks.
type InputFrame struct {
	actions map[Action]bool
}

// NewInputFrame returns an empty frame.
func NewInputFrame(actions ...Action) InputFrame {
	f := InputFrame{actions: make(map[Action]bool, len(actions))}
	for _, a := range actions {
		f.actions[a] = true
	}
	return f
}

// Set records an action.
func (f *InputFrame) Set(a Action) {
	if f.actions == nil {
		f.actions = make(map[Action]bool)
	}
	f.actions[a] = true
}

// Has reports whether a was recorded. The zero InputFrame has nothing.
func (f InputFrame) Has(a Action) bool {
	return f.actions[a]
}

// Clear forgets every recorded action.
func (f *InputFrame) Clear() {
	for k := range f.actions {
		delete(f.actions, k)
	}
}

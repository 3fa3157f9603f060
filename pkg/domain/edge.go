package domain

import "fmt"

// Handle disambiguates the outgoing edges of a node.
type Handle int

const (
	HandleNone Handle = iota
	HandleTrue
	HandleFalse
	HandleLoopBody
)

func (h Handle) String() string {
	switch h {
	case HandleTrue:
		return "true"
	case HandleFalse:
		return "false"
	case HandleLoopBody:
		return "loop-body"
	default:
		return ""
	}
}

// ParseHandle maps the editor's sourceHandle value to a Handle.
// The editor's plain "out"/"in" ports carry no meaning and map to HandleNone.
func ParseHandle(s string) (Handle, error) {
	switch s {
	case "", "out", "in":
		return HandleNone, nil
	case "true":
		return HandleTrue, nil
	case "false":
		return HandleFalse, nil
	case "loop-body", "loopBody", "body":
		return HandleLoopBody, nil
	}
	return HandleNone, fmt.Errorf("%w: %q", ErrUnknownHandle, s)
}

// Edge connects the Source node to the Target node.
type Edge struct {
	ID     string
	Source string
	Target string
	Handle Handle
}

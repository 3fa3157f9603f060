package domain

// Kind identifies what a node does in the flow.
type Kind int

// KindUnknown is reported for nodes without a payload.
const KindUnknown Kind = -1

const (
	KindStart Kind = iota
	KindEnd
	KindFunction
	KindVariable
	KindCondition
	KindLoop
	KindComment
)

var kindNames = [...]string{
	KindStart:     "start",
	KindEnd:       "end",
	KindFunction:  "function",
	KindVariable:  "variable",
	KindCondition: "condition",
	KindLoop:      "loop",
	KindComment:   "comment",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Node is a single block of the flow diagram.
// Data carries the kind-specific payload; the node kind is derived from it.
type Node struct {
	ID   string
	Data Payload
}

// Kind returns the kind of the node's payload.
func (n Node) Kind() Kind {
	if n.Data == nil {
		return KindUnknown
	}
	return n.Data.Kind()
}

// Payload is the closed set of node payloads. Only types declared in this
// package implement it.
type Payload interface {
	Kind() Kind
	payload()
}

// Start marks the entry point of the script.
type Start struct{}

// End marks a terminal point of the script.
type End struct{}

// Function calls an automation API function.
type Function struct {
	Name   string
	Params []Param
}

// Param is a single argument of a Function call, in declared order.
type Param struct {
	Name  string
	Value string
	// Hint is the editor's type annotation, kept verbatim for round trips.
	// Rendering always infers the literal from Value.
	Hint string
}

// Variable declares a script-level variable.
type Variable struct {
	Name  string
	Value string
	Type  ValueType
}

// Condition branches on Expression through its True and False handles.
type Condition struct {
	Expression string
	TrueLabel  string
	FalseLabel string
}

// Loop repeats its body while Expression holds.
type Loop struct {
	Expression string
}

// Comment carries free text emitted at the top of the script.
type Comment struct {
	Text string
}

func (Start) Kind() Kind     { return KindStart }
func (End) Kind() Kind       { return KindEnd }
func (Function) Kind() Kind  { return KindFunction }
func (Variable) Kind() Kind  { return KindVariable }
func (Condition) Kind() Kind { return KindCondition }
func (Loop) Kind() Kind      { return KindLoop }
func (Comment) Kind() Kind   { return KindComment }

func (Start) payload()     {}
func (End) payload()       {}
func (Function) payload()  {}
func (Variable) payload()  {}
func (Condition) payload() {}
func (Loop) payload()      {}
func (Comment) payload()   {}

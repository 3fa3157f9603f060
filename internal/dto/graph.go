package dto

// GraphDocument is the editor's wire format for a flow graph.
// It uses "mapstructure" tags so JSON and YAML documents decode through
// the same generic map representation.
type GraphDocument struct {
	Name  string         `json:"name,omitempty" yaml:"name,omitempty" mapstructure:"name"`
	Nodes []NodeDocument `json:"nodes" yaml:"nodes" mapstructure:"nodes"`
	Edges []EdgeDocument `json:"edges" yaml:"edges" mapstructure:"edges"`
}

// NodeDocument is a node as exported by the editor. Data is kept loosely
// typed until the node type is known.
type NodeDocument struct {
	ID       string         `json:"id" yaml:"id" mapstructure:"id"`
	Type     string         `json:"type" yaml:"type" mapstructure:"type"`
	Position *Position      `json:"position,omitempty" yaml:"position,omitempty" mapstructure:"position"`
	Data     map[string]any `json:"data" yaml:"data" mapstructure:"data"`
}

// Position is the canvas location of a node. It is carried through but has
// no meaning for code generation.
type Position struct {
	X float64 `json:"x" yaml:"x" mapstructure:"x"`
	Y float64 `json:"y" yaml:"y" mapstructure:"y"`
}

// EdgeDocument is an edge as exported by the editor.
type EdgeDocument struct {
	ID           string `json:"id,omitempty" yaml:"id,omitempty" mapstructure:"id"`
	Source       string `json:"source" yaml:"source" mapstructure:"source"`
	Target       string `json:"target" yaml:"target" mapstructure:"target"`
	SourceHandle string `json:"sourceHandle,omitempty" yaml:"sourceHandle,omitempty" mapstructure:"sourceHandle"`
}

// FunctionData is the payload of a "functionNode".
type FunctionData struct {
	FunctionName string      `json:"functionName" mapstructure:"functionName"`
	Parameters   []ParamData `json:"parameters" mapstructure:"parameters"`
}

// ParamData is a single function parameter.
type ParamData struct {
	Name  string `json:"name" mapstructure:"name"`
	Value string `json:"value" mapstructure:"value"`
	Type  string `json:"type,omitempty" mapstructure:"type"`
}

// VariableData is the payload of a "variableNode".
type VariableData struct {
	Name  string `json:"name" mapstructure:"name"`
	Value string `json:"value" mapstructure:"value"`
	Type  string `json:"type,omitempty" mapstructure:"type"`
}

// ConditionData is the payload of a "conditionNode".
type ConditionData struct {
	Condition  string `json:"condition" mapstructure:"condition"`
	TrueLabel  string `json:"trueLabel,omitempty" mapstructure:"trueLabel"`
	FalseLabel string `json:"falseLabel,omitempty" mapstructure:"falseLabel"`
}

// LoopData is the payload of a "loopNode".
type LoopData struct {
	Condition string `json:"condition" mapstructure:"condition"`
}

// CommentData is the payload of a "commentNode".
type CommentData struct {
	Text string `json:"text" mapstructure:"text"`
}

// ScriptRecord is the persisted form of a saved script.
type ScriptRecord struct {
	ID      string        `json:"id"`
	Name    string        `json:"name"`
	SavedAt string        `json:"saved_at"`
	Graph   GraphDocument `json:"graph"`
}

package domain

// DefaultLoopExpression is used when a Loop node has no expression.
const DefaultLoopExpression = "API.Read_LoopyLoop()"

// ScriptExtension is the file extension of generated scripts.
const ScriptExtension = ".lua"

package codegen

// Lua tokens emitted by the generator.
const (
	headerLine     = `local API = require("api")`
	declareFormat  = "local %s = %s"
	commentPrefix  = "-- "
	callFormat     = "API.%s(%s)"
	ifFormat       = "if (%s) then"
	elseLine       = "else"
	endLine        = "end"
	whileFormat    = "while (%s) do"
	endOfScript    = "-- End of script"
	noStartLine    = "-- no start node found"
	variablesTitle = "-- Variables"
	commentsTitle  = "-- Comments"
	mainTitle      = "-- Main Script"
	indentUnit     = "  "
)

package domain

import "errors"

// ErrUnknownKind is returned when a node type is not part of the flow vocabulary.
var ErrUnknownKind = errors.New("unknown node kind")

// ErrUnknownHandle is returned when an edge carries an unsupported source handle.
var ErrUnknownHandle = errors.New("unknown edge handle")

// ErrMissingNodeID is returned when a node has no id.
var ErrMissingNodeID = errors.New("node missing id")

// ErrDuplicateNodeID is returned when two nodes share an id.
var ErrDuplicateNodeID = errors.New("duplicate node id")

// ErrScriptNotFound is returned when a script name cannot be found in the store.
var ErrScriptNotFound = errors.New("script not found")

// ErrInvalidScriptName is returned when a script name cannot be used as a key.
var ErrInvalidScriptName = errors.New("invalid script name")

// ErrOutputTooLarge is returned when a generated script exceeds the output budget.
var ErrOutputTooLarge = errors.New("generated script too large")

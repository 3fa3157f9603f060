package domain

import (
	"context"
	"time"
)

// GenerationEvent describes one completed generation call.
type GenerationEvent struct {
	Timestamp time.Time     `json:"timestamp"`
	Nodes     int           `json:"nodes"`
	Edges     int           `json:"edges"`
	HasStart  bool          `json:"has_start"`
	HasLoop   bool          `json:"has_loop"`
	Bytes     int           `json:"bytes"`
	Duration  time.Duration `json:"duration"`
}

// RejectionEvent describes a request that produced no script: a document
// that could not be turned into a graph, or a graph whose script outgrew the
// output budget. Bytes is the document size, zero for decoded graphs.
type RejectionEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Bytes     int       `json:"bytes"`
	Err       error     `json:"-"`
}

// GenerationHooks defines callbacks for generator observability.
// Nil callbacks are skipped.
type GenerationHooks struct {
	OnGenerate func(context.Context, *GenerationEvent)
	OnReject   func(context.Context, *RejectionEvent)
}

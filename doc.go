/*
Package flowgen turns visual flow diagrams into automation scripts.

A flow is a graph of typed nodes (Start, End, Function, Variable, Condition,
Loop, Comment) joined by edges. Condition edges carry a true/false handle and
loop edges a body handle. Generation walks the graph depth-first from the
entry point and emits a Lua script that calls the automation API:

	local API = require("api")

	-- Main Script
	while (API.Read_LoopyLoop()) do
	  if (API.InvFull_()) then
	    API.BankAllItems()
	  end
	end

Generation never fails. Problems in the graph surface in the text itself (a
missing start node becomes a comment) or are skipped silently (dangling
edges). Use the validator, through `flowgen validate` or the HTTP API, to list
them up front.

# Usage

Build a graph with the dsl package and render it:

	b := dsl.New()
	b.Start("start").Go("hello")
	b.Call("hello", "DoDialog_Option", "Yes")
	code := flowgen.Generate(b.Build())

Hosts that need tracing, metrics or editor documents use a Generator:

	gen := flowgen.New(
		flowgen.WithLogger(logger),
		flowgen.WithHooks(metrics.Hooks()),
	)
	code, err := gen.GenerateDocument(ctx, data)

# Packages

  - pkg/domain: graph, node payload and script types.
  - pkg/dsl: fluent graph builder.
  - pkg/catalog: the automation API function catalog.
  - pkg/ports: storage contract for saved scripts.
  - pkg/adapters: memory, file, redis and sqlite stores; HTTP and MCP servers.
  - pkg/observability: Prometheus metrics wired through generation hooks.
*/
package flowgen

/*
Package domain contains the core domain models of flowgen.

It defines the flow graph (Nodes, Edges, Handles), the closed set of node
payloads, literal value types and saved Scripts. The package is kept pure and
free of I/O so both the generator and the adapters can share it.

# Key Entities

  - Node: one block of the diagram. Its Payload (Start, End, Function,
    Variable, Condition, Loop, Comment) determines its Kind.
  - Edge: a connection between two nodes, qualified by a Handle
    (None, True, False, LoopBody).
  - Graph: the read-only snapshot handed to the generator.
  - Script: a named Graph persisted by a ScriptStore.
*/
package domain

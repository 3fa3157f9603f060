/*
Package ports defines the driven ports (interfaces) for flowgen.

These interfaces decouple generation from storage, so the CLI, the HTTP API
and the MCP server can keep saved scripts in memory, on disk, in Redis or in
SQLite without changing.

# Key Interfaces

  - ScriptStore: persists named scripts (a graph plus metadata).

Implementations should pass RunScriptStoreContract.
*/
package ports

// Package domain translates MCP tool calls into puzzle engine operations.
//
// The package is intentionally explicit about that mapping:
// - coerce caller-supplied JSON move and state shapes into canonical
//   engine moves and states,
// - route calls to the session registry and the session's engine,
// - and surface structured outputs that MCP clients can render.
//
// The engines accept exactly one canonical shape per kind; all coercion
// lives here, at the boundary.
package domain
